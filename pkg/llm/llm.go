package llm

import "context"

// TextGenerator is a minimal abstraction for generative text models used by
// the domain. It intentionally hides concrete providers to preserve
// dependency direction.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
