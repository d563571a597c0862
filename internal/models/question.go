package models

// Category is one of the four DISC behavioral traits.
type Category string

const (
	CategoryDominance  Category = "D"
	CategoryInfluence  Category = "I"
	CategorySteadiness Category = "S"
	CategoryCompliance Category = "C"
)

// Categories lists the traits in canonical order. Scoring tie-breaks and
// chart axes both depend on this order.
var Categories = []Category{
	CategoryDominance,
	CategoryInfluence,
	CategorySteadiness,
	CategoryCompliance,
}

// Valid reports whether c is one of the four DISC categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDominance, CategoryInfluence, CategorySteadiness, CategoryCompliance:
		return true
	}
	return false
}

// Question is a single questionnaire item. Questions are immutable and
// defined at build time (or loaded once from a catalog file at startup).
type Question struct {
	ID       int               `json:"id" yaml:"id"`
	Category Category          `json:"category" yaml:"category"`
	Text     map[string]string `json:"text" yaml:"text"`
}

// TextIn returns the question text for the given locale, falling back to
// English when the locale has no translation.
func (q *Question) TextIn(locale string) string {
	if t, ok := q.Text[locale]; ok {
		return t
	}
	return q.Text["en"]
}

// RatingMin and RatingMax bound the Likert scale for answers.
const (
	RatingMin = 1
	RatingMax = 5
)

// AnswerMap maps question id to the recorded rating in [RatingMin, RatingMax].
// It grows monotonically during a session and never contains ids outside the
// question set.
type AnswerMap map[int]int
