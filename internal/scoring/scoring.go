// Package scoring maps raw questionnaire answers to normalized DISC trait
// scores. It is pure: no I/O, no clock, deterministic for a given input.
package scoring

import (
	"math"

	"github.com/traitforge/disc-engine/internal/models"
)

// Calculate derives the four trait scores from the recorded answers.
//
// For each category it sums the answered ratings and counts how many of that
// category's questions were answered, then maps the answered range
// [count*1, count*5] linearly onto [0, 100]:
//
//	score = round(((sum - count) / (count * 4)) * 100)
//
// Missing answers are excluded from both sum and count, never defaulted to a
// midpoint; defaulting would change the scale. A category with zero answered
// questions scores 0.
func Calculate(questions []models.Question, answers models.AnswerMap) models.DiscScore {
	sums := make(map[models.Category]int, len(models.Categories))
	counts := make(map[models.Category]int, len(models.Categories))

	for _, q := range questions {
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		sums[q.Category] += v
		counts[q.Category]++
	}

	var score models.DiscScore
	for _, c := range models.Categories {
		n := counts[c]
		if n == 0 {
			continue
		}
		pct := int(math.Round(float64(sums[c]-n) / float64(n*4) * 100))
		switch c {
		case models.CategoryDominance:
			score.D = pct
		case models.CategoryInfluence:
			score.I = pct
		case models.CategorySteadiness:
			score.S = pct
		case models.CategoryCompliance:
			score.C = pct
		}
	}
	return score
}

// Dominant returns the category with the strictly highest score. Ties resolve
// to the first category in D, I, S, C order; callers must not assume any
// other tie-break.
func Dominant(score models.DiscScore) models.Category {
	best := models.Categories[0]
	bestVal := score.Get(best)
	for _, c := range models.Categories[1:] {
		if v := score.Get(c); v > bestVal {
			best, bestVal = c, v
		}
	}
	return best
}
