package ai

import (
	"context"
)

// Provider is the interface for narrative text generation. Both the
// analytics engine and the card operations consume it; a nil provider
// simply disables the features that need one.
type Provider interface {
	// GenerateText produces free-form text from a prompt. systemPrompt
	// may be empty; temperature <= 0 leaves the model default.
	GenerateText(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}
