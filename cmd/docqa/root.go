package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/export"
	"github.com/joseph-ayodele/docqa/internal/extract"
	"github.com/joseph-ayodele/docqa/internal/ingest"
)

type rootFlags struct {
	configPath string
	logLevel   string
	noOCR      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var cfg *common.Config

	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Extract PDF, DOCX and XLSX documents into one context and answer questions about them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path := flags.configPath
			if path == "" {
				path = os.Getenv("DOCQA_CONFIG")
			}
			loaded, err := common.LoadConfig(path)
			if err != nil {
				return err
			}
			if flags.logLevel != "" {
				loaded.Log.Level = flags.logLevel
			}
			if flags.noOCR {
				loaded.OCR.Enabled = false
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (default $DOCQA_CONFIG)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().BoolVar(&flags.noOCR, "no-ocr", false, "skip OCR for scanned PDF pages")

	config := func() *common.Config { return cfg }
	root.AddCommand(
		newExtractCmd(config),
		newAskCmd(config),
		newChatCmd(config),
	)
	return root
}

func newExtractCmd(config func() *common.Config) *cobra.Command {
	var report string
	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Print the unified context built from the given files and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePaths(args); err != nil {
				return err
			}
			a, err := buildApp(config(), newLogger(config().Log, cmd.ErrOrStderr()), false)
			if err != nil {
				return err
			}
			defer a.session.Close()

			ctx := common.WithRequestID(cmd.Context(), newRequestID())
			files, _, err := ingest.LoadPaths(ctx, args, a.loadOptions())
			if err != nil {
				return err
			}
			_, out, err := a.session.Ingest(ctx, files)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Context)

			if report != "" {
				return writeReport(report, out.Results, a)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&report, "report", "", "write a per-file XLSX extraction report to this path")
	return cmd
}

func newAskCmd(config func() *common.Config) *cobra.Command {
	var question string
	cmd := &cobra.Command{
		Use:   "ask [paths...]",
		Short: "Answer one question from the given documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(question) == "" {
				return fmt.Errorf("--question is required")
			}
			if err := requirePaths(args); err != nil {
				return err
			}
			a, err := buildApp(config(), newLogger(config().Log, cmd.ErrOrStderr()), true)
			if err != nil {
				return err
			}
			defer a.session.Close()

			ctx := common.WithRequestID(cmd.Context(), newRequestID())
			files, _, err := ingest.LoadPaths(ctx, args, a.loadOptions())
			if err != nil {
				return err
			}
			if _, _, err := a.session.Ingest(ctx, files); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.session.Ask(ctx, question))
			return nil
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "question to ask")
	return cmd
}

func newChatCmd(config func() *common.Config) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "chat [paths...]",
		Short: "Read questions line by line from stdin and answer each one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePaths(args); err != nil {
				return err
			}
			a, err := buildApp(config(), newLogger(config().Log, cmd.ErrOrStderr()), true)
			if err != nil {
				return err
			}
			defer a.session.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			reload := func() error {
				files, _, err := ingest.LoadPaths(ctx, args, a.loadOptions())
				if err != nil {
					return err
				}
				changed, res, err := a.session.Ingest(common.WithRequestID(ctx, newRequestID()), files)
				if err != nil {
					return err
				}
				if changed {
					fmt.Fprintf(out, "Processed %d file(s), %d failed.\n", len(res.Results), res.Failed())
				}
				return nil
			}
			if err := reload(); err != nil {
				return err
			}
			for _, m := range a.session.History() {
				fmt.Fprintln(out, m.Content)
			}

			var changes <-chan struct{}
			if watch {
				roots := dirsOf(args)
				if len(roots) == 0 {
					return fmt.Errorf("--watch needs at least one directory")
				}
				changes, err = ingest.Watch(ctx, ingest.WatchConfig{Roots: roots, Logger: a.logger})
				if err != nil {
					return err
				}
			}

			lines := make(chan string)
			go func() {
				defer close(lines)
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					select {
					case lines <- sc.Text():
					case <-ctx.Done():
						return
					}
				}
			}()

			ask := func(q string) string {
				return a.session.Ask(common.WithRequestID(ctx, newRequestID()), q)
			}
			return chatLoop(ctx, out, lines, changes, ask, func() {
				if err := reload(); err != nil {
					a.logger.Error("chat.reload_failed", "error", err)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "re-extract when files under the given directories change")
	return cmd
}

// chatLoop answers questions from lines until they run out or ctx ends, and
// calls reload for every change notification. A closed changes channel stops
// watching without ending the loop.
func chatLoop(ctx context.Context, out io.Writer, lines <-chan string, changes <-chan struct{}, ask func(string) string, reload func()) error {
	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			reload()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			q := strings.TrimSpace(line)
			if q == "" {
				continue
			}
			fmt.Fprintln(out, ask(q))
		}
	}
}

func writeReport(path string, results []extract.Result, a *app) error {
	data, err := export.ResultsXLSX(results, a.logger)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	a.logger.Info("report.written", "path", path, "files", len(results))
	return nil
}

func dirsOf(paths []string) []string {
	var dirs []string
	for _, p := range paths {
		if st, err := os.Stat(p); err == nil && st.IsDir() {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

func newRequestID() string {
	return uuid.New().String()
}
