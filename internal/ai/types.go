package ai

import (
	"context"
)

// What the estimation client expects back
type Result struct {
	Provider       string
	Text           string // raw model output, fences already trimmed
	TokensUsed     int
	GenerationTime string // e.g., "3.2s"
}

type ProviderInfo struct {
	Name      string
	Available bool
	Model     string
	KeyEnv    []string
}

// Each provider is isolated to its file and implements this.
type Provider interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, in GenerateInput) (Result, error)
}

// Input shape passed to providers.
type GenerateInput struct {
	Prompt string
	Schema *Schema // structured-output contract; nil means free text
}
