package repository

import "context"

// TextGenerator is an external generative-text capability.
type TextGenerator interface {
	// Generate returns the model's answer to prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
