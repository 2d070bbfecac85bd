package llm

// ChatCompletionSchema describes the part of a chat/completions response the
// client relies on: at least one choice carrying a string message content.
func ChatCompletionSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"choices"},
		"properties": map[string]any{
			"id":    map[string]any{"type": "string"},
			"model": map[string]any{"type": "string"},
			"choices": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"message"},
					"properties": map[string]any{
						"index":         map[string]any{"type": "integer"},
						"finish_reason": map[string]any{"type": []string{"string", "null"}},
						"message": map[string]any{
							"type":     "object",
							"required": []string{"content"},
							"properties": map[string]any{
								"role":    map[string]any{"type": "string"},
								"content": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}
