package answer

import (
	"context"
	"fmt"

	"podium/internal/providers"
	"podium/internal/query"
	"podium/internal/search"
)

// Generator turns structured evidence into prose through an LLM provider. It
// answers empty results locally; the model is only called when there are rows
// to explain.
type Generator struct {
	llm     providers.LLMProvider
	maxRows int
}

func NewGenerator(llm providers.LLMProvider, maxRows int) *Generator {
	if maxRows <= 0 {
		maxRows = 20
	}
	return &Generator{llm: llm, maxRows: maxRows}
}

func (g *Generator) Answer(ctx context.Context, userQuery string, res search.Result, ents query.Entities, intent query.Intent) (string, error) {
	if res.Meta.Error != "" || len(res.Rows) == 0 {
		return NoResultMessage(ents), nil
	}
	prompt := BuildPrompt(userQuery, res, ents, intent, g.maxRows)
	resp, _, err := g.llm.Generate(ctx, providers.GenerateRequest{
		Operation: "answer",
		Prompt:    prompt,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", providers.ClassifyError(err))
	}
	return resp.Text, nil
}
