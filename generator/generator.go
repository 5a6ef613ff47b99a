package generator

import "context"

// Generator produces a single, non-streaming completion for a fully composed
// prompt. Prompt assembly belongs to the caller.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
