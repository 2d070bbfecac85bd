package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/llm"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Answer implements llm.Answerer using chat/completions: one system persona
// message followed by the advisor prompt carrying the full context.
func (c *Client) Answer(ctx context.Context, req llm.AnswerRequest) (string, error) {
	if c.cfg.APIKey == "" {
		return "", common.NewAppError("LLM_UNAVAILABLE", "OPENAI_API_KEY is not set", common.ErrUnavailable)
	}
	start := time.Now()

	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: llm.SystemPrompt(c.cfg.Organization)},
			{Role: llm.RoleUser, Content: llm.BuildPrompt(c.cfg.Organization, req.Question, req.Context)},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	c.logger.Debug("llm.answer.start",
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"context_len", len(req.Context),
		"question_len", len(req.Question),
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}, c.logger)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	if err := llm.ValidateChatCompletion(raw); err != nil {
		c.logger.Error("llm.answer.schema_validation_failed", "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("openai: %w", err)
	}
	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	answer := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Info("llm.answer.ok",
		"model", c.cfg.Model,
		"answer_len", len(answer),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return answer, nil
}
