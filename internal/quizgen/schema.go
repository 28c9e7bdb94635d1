package quizgen

import "github.com/UgwuGeorge/Past-Questions/internal/llm"

// BatchSchema defines the JSON schema for generated question batches.
var BatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of multiple-choice exam practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question stem shown to the candidate, in plain text",
						},
						"choices": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text": map[string]any{
										"type":        "string",
										"description": "The option text",
									},
									"is_correct": map[string]any{
										"type":        "boolean",
										"description": "True for exactly one option per question",
									},
								},
								"required":             []any{"text", "is_correct"},
								"additionalProperties": false,
							},
							"description": "The answer options. Exactly one must be correct.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is correct, in one or two sentences",
						},
					},
					"required":             []any{"text", "choices", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
