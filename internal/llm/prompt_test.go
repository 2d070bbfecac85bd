package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("HPMU", "  What is the quota?  ", "Medicine 120")

	assert.Contains(t, p, "admissions advisory chatbot for HPMU")
	assert.Contains(t, p, NotFoundReply)
	assert.Contains(t, p, "---\nMedicine 120\n---")
	assert.Contains(t, p, "User question: What is the quota?\n")
	assert.Contains(t, BuildPrompt("", "q", "c"), "for the university")
	assert.Equal(t, "You are a virtual admissions advisor for HPMU.", SystemPrompt("HPMU"))
}

func TestValidateChatCompletion(t *testing.T) {
	require.NoError(t, ValidateChatCompletion([]byte(`{"choices":[{"message":{"content":"hi"}}]}`)))
	assert.Error(t, ValidateChatCompletion([]byte(`{"choices":[{"message":{"content":null}}]}`)))
	assert.Error(t, ValidateChatCompletion([]byte(`{}`)))
	assert.Error(t, ValidateChatCompletion([]byte(`nope`)))
}
