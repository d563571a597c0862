package scoring

import (
	"testing"

	"github.com/traitforge/disc-engine/internal/models"
)

// fixedQuestions builds n questions per category, ids assigned sequentially
// in D, I, S, C order.
func fixedQuestions(perCategory int) []models.Question {
	var qs []models.Question
	id := 1
	for _, c := range models.Categories {
		for i := 0; i < perCategory; i++ {
			qs = append(qs, models.Question{ID: id, Category: c})
			id++
		}
	}
	return qs
}

func answerAll(qs []models.Question, value int) models.AnswerMap {
	m := make(models.AnswerMap, len(qs))
	for _, q := range qs {
		m[q.ID] = value
	}
	return m
}

func TestCalculateBounds(t *testing.T) {
	qs := fixedQuestions(5)
	for v := models.RatingMin; v <= models.RatingMax; v++ {
		score := Calculate(qs, answerAll(qs, v))
		if !score.InBounds() {
			t.Errorf("value %d produced out-of-bounds score %+v", v, score)
		}
	}
}

func TestCalculateAllMinimum(t *testing.T) {
	qs := fixedQuestions(5)
	score := Calculate(qs, answerAll(qs, 1))
	if score.D != 0 || score.I != 0 || score.S != 0 || score.C != 0 {
		t.Errorf("all-1 answers should score 0 everywhere, got %+v", score)
	}
}

func TestCalculateAllMaximum(t *testing.T) {
	qs := fixedQuestions(5)
	score := Calculate(qs, answerAll(qs, 5))
	if score.D != 100 || score.I != 100 || score.S != 100 || score.C != 100 {
		t.Errorf("all-5 answers should score 100 everywhere, got %+v", score)
	}
}

func TestCalculateMidpointIsFifty(t *testing.T) {
	qs := fixedQuestions(7)
	score := Calculate(qs, answerAll(qs, 3))
	for _, c := range models.Categories {
		if v := score.Get(c); v < 49 || v > 51 {
			t.Errorf("category %s: all-3 answers should score ~50, got %d", c, v)
		}
	}
}

func TestCalculateMissingAnswersExcluded(t *testing.T) {
	qs := fixedQuestions(4)

	// Answer only the D questions (ids 1..4) with 5; leave everything else
	// unanswered. Other categories must score 0 regardless.
	answers := models.AnswerMap{1: 5, 2: 5, 3: 5, 4: 5}
	score := Calculate(qs, answers)
	if score.D != 100 {
		t.Errorf("D should be 100, got %d", score.D)
	}
	if score.I != 0 || score.S != 0 || score.C != 0 {
		t.Errorf("unanswered categories should be 0, got %+v", score)
	}

	// A partially answered category uses only the recorded answers: one D
	// question answered 5 scores the same as all D questions answered 5.
	partial := Calculate(qs, models.AnswerMap{1: 5})
	if partial.D != 100 {
		t.Errorf("single 5 answer should normalize to 100, got %d", partial.D)
	}
}

func TestCalculateEmptyAnswers(t *testing.T) {
	qs := fixedQuestions(5)
	score := Calculate(qs, models.AnswerMap{})
	if score != (models.DiscScore{}) {
		t.Errorf("no answers should score all zeros, got %+v", score)
	}
}

func TestDominantTieBreak(t *testing.T) {
	score := models.DiscScore{D: 50, I: 50, S: 10, C: 10}
	if got := Dominant(score); got != models.CategoryDominance {
		t.Errorf("tie between D and I must resolve to D, got %s", got)
	}

	score = models.DiscScore{D: 10, I: 20, S: 20, C: 20}
	if got := Dominant(score); got != models.CategoryInfluence {
		t.Errorf("tie among I, S, C must resolve to I, got %s", got)
	}
}

func TestDominantStrictMaximum(t *testing.T) {
	score := models.DiscScore{D: 10, I: 20, S: 90, C: 40}
	if got := Dominant(score); got != models.CategorySteadiness {
		t.Errorf("expected S, got %s", got)
	}
}
