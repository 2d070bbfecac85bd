package llm

import (
	"strings"
)

// NotFoundReply is what the assistant is told to say when the documents do
// not cover the question.
const NotFoundReply = "I could not find the information you asked about in the documents provided. " +
	"Please contact the admissions office for the most accurate support."

// SystemPrompt is the short persona message sent ahead of the user prompt.
func SystemPrompt(org string) string {
	return "You are a virtual admissions advisor for " + orgOrDefault(org) + "."
}

// BuildPrompt wraps the question in the advisor instructions and the full
// document context.
func BuildPrompt(org, question, context string) string {
	parts := []string{
		"You are a professional and friendly admissions advisory chatbot for " + orgOrDefault(org) + ".",
		"Your job is to answer questions from students and parents based on the admissions documents provided below.",
		"- Answer accurately and clearly, and get straight to the point.",
		"- If the information is not in the documents, reply politely: '" + NotFoundReply + "'",
		"- Do NOT make up information.",
		"- Present comparisons as a table.",
		"Here is all of the admissions information you have:",
		"---",
		context,
		"---",
		"",
		"User question: " + strings.TrimSpace(question),
		"",
		"Your answer:",
	}
	return strings.Join(parts, "\n")
}

func orgOrDefault(org string) string {
	if o := strings.TrimSpace(org); o != "" {
		return o
	}
	return "the university"
}
