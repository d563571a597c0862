package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
)

// fakeProvider records the last request and returns a canned reply or error.
type fakeProvider struct {
	lastReq GenerationRequest
	reply   string
	err     error
	calls   int
}

func (p *fakeProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func TestGenerateInsightsModes(t *testing.T) {
	cases := []struct {
		mode   string
		marker string
	}{
		{ModeAudit, "audit"},
		{ModeCoach, "coach"},
		{"", "DISC behavioral model"},
		{"unknown", "DISC behavioral model"},
	}

	for _, tc := range cases {
		p := &fakeProvider{reply: "narrative"}
		o := NewOrchestrator(p, 0.5)

		text, err := o.GenerateInsights(context.Background(), models.CategoryDominance, "team lead", tc.mode, "en")
		if err != nil {
			t.Fatalf("mode %q: %v", tc.mode, err)
		}
		if text != "narrative" {
			t.Errorf("mode %q: unexpected reply %q", tc.mode, text)
		}
		if !strings.Contains(strings.ToLower(p.lastReq.SystemInstruction), strings.ToLower(tc.marker)) {
			t.Errorf("mode %q: instruction %q missing marker %q", tc.mode, p.lastReq.SystemInstruction, tc.marker)
		}
	}
}

func TestGenerateInsightsLocaleDirective(t *testing.T) {
	p := &fakeProvider{reply: "texto"}
	o := NewOrchestrator(p, 0.5)

	if _, err := o.GenerateInsights(context.Background(), models.CategoryInfluence, "", "", "es"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.lastReq.SystemInstruction, `"es"`) {
		t.Errorf("expected locale directive, got %q", p.lastReq.SystemInstruction)
	}

	// English gets no directive.
	if _, err := o.GenerateInsights(context.Background(), models.CategoryInfluence, "", "", "en"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(p.lastReq.SystemInstruction, "ISO code") {
		t.Errorf("English should not carry a locale directive: %q", p.lastReq.SystemInstruction)
	}
}

func TestQuotaClassification(t *testing.T) {
	cases := []struct {
		name string
		err  *ProviderError
	}{
		{"status 429", &ProviderError{StatusCode: 429, Message: "slow down"}},
		{"quota marker", &ProviderError{StatusCode: 400, Message: "You exceeded your current quota"}},
		{"rate limit marker", &ProviderError{StatusCode: 500, Message: "Rate limit reached for requests"}},
		{"too many requests marker", &ProviderError{StatusCode: 503, Message: "Too Many Requests"}},
	}

	for _, tc := range cases {
		p := &fakeProvider{err: tc.err}
		o := NewOrchestrator(p, 0.5)

		_, err := o.GenerateInsights(context.Background(), models.CategoryDominance, "", "", "en")
		if !apperrors.IsQuotaExceeded(err) {
			t.Errorf("%s: expected QuotaExceededError, got %v", tc.name, err)
		}
	}
}

func TestGenericFailureClassification(t *testing.T) {
	p := &fakeProvider{err: &ProviderError{StatusCode: 500, Message: "internal error"}}
	o := NewOrchestrator(p, 0.5)

	_, err := o.GenerateInsights(context.Background(), models.CategoryDominance, "", "", "en")
	if apperrors.IsQuotaExceeded(err) {
		t.Fatal("plain 500 must not classify as quota")
	}
	var genErr *apperrors.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected GenerationError, got %T", err)
	}
}

func TestNoAutomaticRetry(t *testing.T) {
	p := &fakeProvider{err: &ProviderError{StatusCode: 500, Message: "flaky"}}
	o := NewOrchestrator(p, 0.5)

	o.GenerateInsights(context.Background(), models.CategoryDominance, "", "", "en")
	if p.calls != 1 {
		t.Errorf("expected exactly one provider call, got %d", p.calls)
	}
}

func TestGenerateFullReport(t *testing.T) {
	p := &fakeProvider{reply: `{
		"dominant": "D",
		"summary": "Direct and decisive.",
		"communication": ["Be brief", "Lead with outcomes"],
		"value": ["Drives results"],
		"blindspots": ["Impatience"]
	}`}
	o := NewOrchestrator(p, 0.5)

	analysis, err := o.GenerateFullReport(context.Background(), models.DiscScore{D: 90, I: 40, S: 30, C: 50}, "manager", "", "en")
	if err != nil {
		t.Fatalf("GenerateFullReport: %v", err)
	}
	if analysis.Summary != "Direct and decisive." {
		t.Errorf("unexpected summary %q", analysis.Summary)
	}
	if len(analysis.Communication) != 2 {
		t.Errorf("expected 2 communication items, got %d", len(analysis.Communication))
	}
	if p.lastReq.ResponseSchema == nil {
		t.Error("structured variant must request a response schema")
	}
}

func TestGenerateFullReportMalformed(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"not json", "Here is your report: ..."},
		{"bad enum", `{"dominant":"X","summary":"s","communication":["a"],"value":["b"],"blindspots":["c"]}`},
		{"empty summary", `{"dominant":"D","summary":"  ","communication":["a"],"value":["b"],"blindspots":["c"]}`},
		{"empty section", `{"dominant":"D","summary":"s","communication":[],"value":["b"],"blindspots":["c"]}`},
	}

	for _, tc := range cases {
		p := &fakeProvider{reply: tc.reply}
		o := NewOrchestrator(p, 0.5)

		_, err := o.GenerateFullReport(context.Background(), models.DiscScore{D: 50}, "", "", "en")
		if !apperrors.IsMalformedResponse(err) {
			t.Errorf("%s: expected MalformedResponseError, got %v", tc.name, err)
		}
	}
}
