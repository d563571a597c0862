package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
)

func testData() Data {
	return Data{
		UserName:  "Ada Lovelace",
		Scores:    models.DiscScore{D: 80, I: 55, S: 35, C: 70},
		Narrative: "A direct, results-oriented profile with strong analytical leanings.",
		Analysis: &models.Analysis{
			Summary:       "Decisive and precise.",
			Communication: []string{"Lead with conclusions", "Keep meetings short"},
			Value:         []string{"Drives delivery", "Raises the quality bar"},
			Blindspots:    []string{"Impatience with process", "May under-communicate"},
		},
		Development: []DevelopmentItem{
			{Area: "Delegation", Action: "Hand one recurring decision to the team each sprint", Horizon: "30 days"},
			{Area: "Listening", Action: "Close each 1:1 by restating the other person's point", Horizon: "60 days"},
		},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("TraitForge")

	doc, err := r.Render(testData())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("empty document")
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", doc[:8])
	}
}

func TestRenderRejectsMalformedScores(t *testing.T) {
	r := NewRenderer("TraitForge")

	data := testData()
	data.Scores = models.DiscScore{D: 140, I: -5, S: 0, C: 0}

	_, err := r.Render(data)
	if err == nil {
		t.Fatal("out-of-bounds scores must fail")
	}
	var renderErr *apperrors.RenderError
	if !errors.As(err, &renderErr) {
		t.Errorf("expected RenderError, got %T", err)
	}
}

func TestRenderLongNarrativePaginates(t *testing.T) {
	r := NewRenderer("TraitForge")

	data := testData()
	data.Narrative = strings.Repeat("This paragraph pads the narrative to force pagination. ", 200)
	for i := 0; i < 30; i++ {
		data.Development = append(data.Development, DevelopmentItem{
			Area: "Focus", Action: "Practice deliberately", Horizon: "90 days",
		})
	}

	doc, err := r.Render(data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// A paginated document carries more than one /Page object.
	pages := bytes.Count(doc, []byte("/Type /Page"))
	if pages < 2 {
		t.Errorf("expected a multi-page document, found %d page markers", pages)
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ada Lovelace", "disc-report-ada-lovelace.pdf"},
		{"José / García", "disc-report-jos-garc-a.pdf"},
		{"   ", "disc-report-assessment.pdf"},
		{"", "disc-report-assessment.pdf"},
		{"UPPER_case-99", "disc-report-upper-case-99.pdf"},
	}

	for _, tc := range cases {
		if got := Filename(tc.in); got != tc.want {
			t.Errorf("Filename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
