// Package insight orchestrates AI narrative generation for assessment
// results: prompt construction, structured-output parsing, and the error
// classification callers branch on (quota vs. generic failure).
package insight

import (
	"context"
	"fmt"
)

// GenerationRequest is one narrative-generation call to the provider.
// ResponseSchema, when set, constrains the reply to a JSON schema.
type GenerationRequest struct {
	SystemInstruction string
	Content           string
	Temperature       float64
	ResponseSchema    map[string]any
}

// TextProvider is the opaque generative-text collaborator. Implementations
// return *ProviderError for provider-reported failures so the orchestrator
// can classify them.
type TextProvider interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ProviderError is a failure reported by the generation provider, carrying
// enough detail to distinguish quota rejections from other errors.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}
