package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docqa/internal/common"
	"github.com/joseph-ayodele/docqa/internal/llm"
)

func TestAnswer(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  The quota is 120.\n"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Temperature: 0.7, Organization: "HPMU"}, nil)
	answer, err := c.Answer(context.Background(), llm.AnswerRequest{Question: "Quota?", Context: "Medicine 120"})
	require.NoError(t, err)

	assert.Equal(t, "The quota is 120.", answer)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 1024, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, llm.RoleSystem, got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "HPMU")
	assert.Contains(t, got.Messages[1].Content, "Medicine 120")
	assert.Contains(t, got.Messages[1].Content, "User question: Quota?")
}

func TestAnswerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"non-2xx", http.StatusTooManyRequests, `{"error":{"message":"quota exceeded"}}`, "status 429"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "does not match schema"},
		{"not json", http.StatusOK, `<html>`, "unmarshal response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
			_, err := c.Answer(context.Background(), llm.AnswerRequest{Question: "q", Context: "c"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnswerWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewClient(Config{}, nil).Answer(context.Background(), llm.AnswerRequest{Question: "q"})
	assert.ErrorIs(t, err, common.ErrUnavailable)
}
