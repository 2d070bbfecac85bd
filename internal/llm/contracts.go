package llm

import "context"

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AnswerRequest carries a question and the document context it must be
// answered from.
type AnswerRequest struct {
	Question string
	Context  string
}

// Answerer is the external language-model collaborator.
type Answerer interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}
