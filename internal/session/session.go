// Package session holds one user's unified context and chat history, and
// re-runs extraction only when the uploaded file set changes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/extract"
	"github.com/joseph-ayodele/docqa/internal/llm"
	"github.com/joseph-ayodele/docqa/internal/pipeline"
)

const (
	WelcomeMessage   = "Hello! Please upload admissions documents to get started."
	ReadyMessage     = "New data has been uploaded! How can I help you with admissions information?"
	NoContextWarning = "⚠️ Please upload admissions documents before asking a question!"
)

// Aggregator is satisfied by pipeline.Aggregator.
type Aggregator interface {
	Aggregate(ctx context.Context, files []extract.UploadedFile) (pipeline.Output, error)
}

type Session struct {
	id       string
	agg      Aggregator
	answerer llm.Answerer
	logger   *slog.Logger

	mu         sync.Mutex
	signatures []extract.Signature
	output     pipeline.Output
	history    []llm.Message
}

// New starts a session whose history holds only the welcome message. A nil
// answerer makes every question come back as an inline error.
func New(agg Aggregator, answerer llm.Answerer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	return &Session{
		id:       id,
		agg:      agg,
		answerer: answerer,
		logger:   logger.With("session_id", id),
		history:  []llm.Message{{Role: llm.RoleAssistant, Content: WelcomeMessage}},
	}
}

func (s *Session) ID() string { return s.id }

// Ingest aggregates files unless their ordered (name, size, fingerprint)
// signatures equal those of the last successful ingest, in which case the
// previous output is returned untouched. An empty upload list is a no-op.
// On change the context is replaced and history resets to ReadyMessage.
func (s *Session) Ingest(ctx context.Context, files []extract.UploadedFile) (bool, pipeline.Output, error) {
	sigs := make([]extract.Signature, len(files))
	for i, f := range files {
		sigs[i] = f.Signature()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(files) == 0 || slices.Equal(sigs, s.signatures) {
		s.logger.Debug("session.ingest.unchanged", "files", len(files))
		return false, s.output, nil
	}

	ctx = common.WithSessionID(ctx, s.id)
	out, err := s.agg.Aggregate(ctx, files)
	if err != nil {
		s.logger.Error("session.ingest.failed", "files", len(files), "error", err)
		return false, s.output, err
	}

	s.signatures = sigs
	s.output = out
	s.history = []llm.Message{{Role: llm.RoleAssistant, Content: ReadyMessage}}
	s.logger.Info("session.ingest.done",
		"files", len(files),
		"failed", out.Failed(),
		"context_chars", len(out.Context),
	)
	return true, out, nil
}

// Ask records the question and the reply in history and returns the reply.
// It never fails: a missing context yields NoContextWarning and answerer
// errors come back as "Error connecting to the language model: <err>".
func (s *Session) Ask(ctx context.Context, question string) string {
	s.mu.Lock()
	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: question})
	docs := s.output.Context
	s.mu.Unlock()

	var reply string
	switch {
	case docs == "":
		reply = NoContextWarning
	case s.answerer == nil:
		reply = common.NewAnswerError(errors.New("no language model configured")).Error()
	default:
		ctx = common.WithSessionID(ctx, s.id)
		answer, err := s.answerer.Answer(ctx, llm.AnswerRequest{Question: question, Context: docs})
		if err != nil {
			aerr := common.NewAnswerError(err)
			s.logger.Error("session.ask.failed", "kind", aerr.Kind, "error", err)
			reply = aerr.Error()
		} else {
			reply = strings.TrimSpace(answer)
		}
	}

	s.mu.Lock()
	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: reply})
	s.mu.Unlock()
	return reply
}

// Context returns the current unified context.
func (s *Session) Context() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.Context
}

// Results returns the per-file outcomes of the last ingest.
func (s *Session) Results() []extract.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.output.Results)
}

// History returns a copy of the chat history.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Close drops the context, signatures and history.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures = nil
	s.output = pipeline.Output{}
	s.history = nil
	s.logger.Debug("session.closed")
}
