package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/traitforge/disc-engine/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.Len() != 30 {
		t.Fatalf("expected 30 built-in questions, got %d", c.Len())
	}

	// Every category must be represented.
	counts := map[models.Category]int{}
	for _, q := range c.Questions() {
		counts[q.Category]++
		if q.Text["en"] == "" || q.Text["es"] == "" {
			t.Errorf("question %d missing locale text", q.ID)
		}
	}
	for _, cat := range models.Categories {
		if counts[cat] == 0 {
			t.Errorf("category %s has no questions", cat)
		}
	}

	q, ok := c.Get(1)
	if !ok {
		t.Fatal("question 1 not found")
	}
	if q.TextIn("es") == q.TextIn("en") {
		t.Error("expected distinct Spanish text for question 1")
	}
	if q.TextIn("de") != q.TextIn("en") {
		t.Error("unknown locale should fall back to English")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	base := map[string]string{"en": "x"}

	cases := []struct {
		name  string
		items []models.Question
	}{
		{"empty", nil},
		{"duplicate id", []models.Question{
			{ID: 1, Category: models.CategoryDominance, Text: base},
			{ID: 1, Category: models.CategoryInfluence, Text: base},
		}},
		{"bad category", []models.Question{
			{ID: 1, Category: "X", Text: base},
		}},
		{"missing english text", []models.Question{
			{ID: 1, Category: models.CategoryDominance, Text: map[string]string{"es": "x"}},
		}},
		{"non-positive id", []models.Question{
			{ID: 0, Category: models.CategoryDominance, Text: base},
		}},
	}

	for _, tc := range cases {
		if _, err := NewCatalog(tc.items); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")

	content := `name: custom
questions:
  - id: 1
    category: D
    text:
      en: "I decide fast."
  - id: 2
    category: I
    text:
      en: "I talk easily."
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 questions, got %d", c.Len())
	}
	if !c.Has(2) {
		t.Error("question 2 missing")
	}
}

func TestLoadFromDirFallsBack(t *testing.T) {
	c := LoadFromDir(filepath.Join(t.TempDir(), "missing"))
	if c.Len() != 30 {
		t.Errorf("expected built-in fallback, got %d questions", c.Len())
	}
}
