package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
)

// Generation modes. Audit produces a critical gap analysis, coach a
// supportive development plan; anything else gets the neutral default.
const (
	ModeAudit = "audit"
	ModeCoach = "coach"
)

// Orchestrator builds prompts, delegates to the provider, and classifies
// failures. It never retries automatically: re-generation against a paid,
// quota-limited provider is a user-initiated action.
type Orchestrator struct {
	provider    TextProvider
	temperature float64
}

// NewOrchestrator wraps a text provider.
func NewOrchestrator(provider TextProvider, temperature float64) *Orchestrator {
	if temperature <= 0 {
		temperature = 0.7
	}
	return &Orchestrator{provider: provider, temperature: temperature}
}

// GenerateInsights produces free-text narrative commentary for a dominant
// profile, shaped by mode and locale.
func (o *Orchestrator) GenerateInsights(ctx context.Context, profile models.Category, userContext, mode, locale string) (string, error) {
	req := GenerationRequest{
		SystemInstruction: systemInstruction(mode, locale),
		Content: fmt.Sprintf(
			"Dominant DISC profile: %s (%s).\nContext about the person: %s\n\nWrite a behavioral narrative for this profile.",
			profile, profileName(profile), userContext,
		),
		Temperature: o.temperature,
	}

	text, err := o.provider.Generate(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

// fullReportPayload is the constrained shape requested from the provider.
type fullReportPayload struct {
	Dominant      string   `json:"dominant"`
	Summary       string   `json:"summary"`
	Communication []string `json:"communication"`
	Value         []string `json:"value"`
	Blindspots    []string `json:"blindspots"`
}

// GenerateFullReport requests a structured analysis for a complete score set
// and parses it, failing closed with MalformedResponseError when the payload
// does not match the schema. Mode shapes the narrative voice the same way it
// does for GenerateInsights.
func (o *Orchestrator) GenerateFullReport(ctx context.Context, scores models.DiscScore, userContext, mode, locale string) (*models.Analysis, error) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dominant": map[string]any{
				"type": "string",
				"enum": []string{"D", "I", "S", "C"},
			},
			"summary":       map[string]any{"type": "string"},
			"communication": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"value":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"blindspots":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"dominant", "summary", "communication", "value", "blindspots"},
		"additionalProperties": false,
	}

	req := GenerationRequest{
		SystemInstruction: systemInstruction(mode, locale) +
			" Respond only with JSON matching the requested schema.",
		Content: fmt.Sprintf(
			"DISC scores: Dominance %d, Influence %d, Steadiness %d, Compliance %d.\nContext about the person: %s\n\nProduce the structured behavioral analysis.",
			scores.D, scores.I, scores.S, scores.C, userContext,
		),
		Temperature:    o.temperature,
		ResponseSchema: schema,
	}

	raw, err := o.provider.Generate(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	var payload fullReportPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &apperrors.MalformedResponseError{Err: err, Raw: raw}
	}
	if err := payload.validate(); err != nil {
		return nil, &apperrors.MalformedResponseError{Err: err, Raw: raw}
	}

	return &models.Analysis{
		Summary:       payload.Summary,
		Communication: payload.Communication,
		Value:         payload.Value,
		Blindspots:    payload.Blindspots,
	}, nil
}

func (p *fullReportPayload) validate() error {
	if !models.Category(p.Dominant).Valid() {
		return fmt.Errorf("dominant %q is not a DISC category", p.Dominant)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	if len(p.Communication) == 0 || len(p.Value) == 0 || len(p.Blindspots) == 0 {
		return fmt.Errorf("one or more narrative sections are empty")
	}
	return nil
}

func systemInstruction(mode, locale string) string {
	var b strings.Builder

	switch mode {
	case ModeAudit:
		b.WriteString("You are a rigorous organizational psychologist performing a behavioral audit. " +
			"Identify risks, gaps, and friction points candidly; do not soften findings.")
	case ModeCoach:
		b.WriteString("You are a supportive behavioral coach. " +
			"Frame every observation as actionable development advice with concrete next steps.")
	default:
		b.WriteString("You are an expert in the DISC behavioral model. " +
			"Write clear, professional assessments grounded in the four-trait framework.")
	}

	if locale != "" && locale != "en" {
		b.WriteString(fmt.Sprintf(" Respond in the language with ISO code %q.", locale))
	}

	return b.String()
}

func profileName(c models.Category) string {
	switch c {
	case models.CategoryDominance:
		return "Dominance"
	case models.CategoryInfluence:
		return "Influence"
	case models.CategorySteadiness:
		return "Steadiness"
	case models.CategoryCompliance:
		return "Compliance"
	}
	return string(c)
}

// quotaMarkers are provider message fragments that signal a rate or quota
// rejection rather than a generic failure.
var quotaMarkers = []string{
	"too many requests",
	"rate limit",
	"quota",
	"resource_exhausted",
}

// classify maps provider failures onto the caller-facing taxonomy:
// quota signals become QuotaExceededError, everything else GenerationError.
func classify(err error) error {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.StatusCode == 429 || hasQuotaMarker(provErr.Message) {
			return &apperrors.QuotaExceededError{Err: err}
		}
	}
	return &apperrors.GenerationError{Err: err}
}

func hasQuotaMarker(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range quotaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
