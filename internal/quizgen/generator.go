package quizgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/UgwuGeorge/Past-Questions/internal/llm"
	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

// Generator produces draft questions using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// batchOutput is the raw LLM response before any validation.
type batchOutput struct {
	Questions []quiz.DraftQuestion `json:"questions"`
}

// Generate produces up to input.Count draft questions. The drafts are
// unvalidated; callers decide which ones enter the bank.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) ([]quiz.DraftQuestion, error) {
	if input.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", input.Count)
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse generation response: %w", err)
	}

	drafts := raw.Questions
	if len(drafts) > input.Count {
		drafts = drafts[:input.Count]
	}
	return drafts, nil
}
