package main

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docqa/internal/cache"
	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/extract"
	"github.com/joseph-ayodele/docqa/internal/extract/docx"
	"github.com/joseph-ayodele/docqa/internal/extract/pdf"
	"github.com/joseph-ayodele/docqa/internal/extract/xlsx"
	"github.com/joseph-ayodele/docqa/internal/ingest"
	"github.com/joseph-ayodele/docqa/internal/llm"
	"github.com/joseph-ayodele/docqa/internal/llm/openai"
	"github.com/joseph-ayodele/docqa/internal/ocr"
	"github.com/joseph-ayodele/docqa/internal/pipeline"
	"github.com/joseph-ayodele/docqa/internal/session"
)

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg     *common.Config
	logger  *slog.Logger
	agg     *pipeline.Aggregator
	session *session.Session
}

func newLogger(cfg common.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// buildApp wires config into readers, caches, the aggregator and a session.
// When withLLM is set a missing API key fails here instead of on the first
// question.
func buildApp(cfg *common.Config, logger *slog.Logger, withLLM bool) (*app, error) {
	var rec ocr.Recognizer
	if cfg.OCR.Enabled {
		tess, err := ocr.NewTesseract(ocr.Config{
			Tesseract:   cfg.OCR.TesseractPath,
			TessdataDir: cfg.OCR.TessdataDir,
			PSM:         cfg.OCR.PSM,
			Timeout:     cfg.OCR.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		rec = tess
	} else {
		logger.Info("ocr.disabled")
	}

	pdfReader := pdf.NewReader(pdf.NewEngine(logger), rec, pdf.Options{
		MinTextForOCR: cfg.PDF.MinTextForOCR,
		Lang:          cfg.OCR.Lang,
	}, logger)

	capacity := cfg.Cache.Capacity
	readers := []extract.Reader{
		extract.Cached(pdfReader, cache.New("pdf", capacity), logger),
		extract.Cached(docx.NewReader(logger), cache.New("docx", capacity), logger),
		extract.Cached(xlsx.NewReader(logger), cache.New("xlsx", capacity), logger),
	}
	agg := pipeline.NewAggregator(logger, pipeline.Options{
		Workers:        cfg.Pipeline.Workers,
		MaxUploadBytes: cfg.Pipeline.MaxUploadBytes,
	}, readers...)

	var answerer llm.Answerer
	if withLLM {
		if err := cfg.ValidateLLM(); err != nil {
			return nil, err
		}
		answerer = openai.NewClient(openai.Config{
			APIKey:       cfg.LLM.APIKey,
			BaseURL:      cfg.LLM.BaseURL,
			Model:        cfg.LLM.Model,
			Temperature:  cfg.LLM.Temperature,
			MaxTokens:    cfg.LLM.MaxTokens,
			Timeout:      cfg.LLM.Timeout,
			Organization: cfg.LLM.Organization,
		}, logger)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		agg:     agg,
		session: session.New(agg, answerer, logger),
	}, nil
}

func (a *app) loadOptions() ingest.Options {
	return ingest.Options{MaxBytes: a.cfg.Pipeline.MaxUploadBytes, Logger: a.logger}
}

func requirePaths(args []string) error {
	if len(args) == 0 {
		return errors.New("at least one file or directory is required")
	}
	return nil
}
