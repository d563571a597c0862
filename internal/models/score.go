package models

// DiscScore holds the four normalized trait scores, each in [0, 100].
// A DiscScore is only ever produced by the scoring engine from an AnswerMap;
// scores are never hand-edited or partially updated.
type DiscScore struct {
	D int `json:"d"`
	I int `json:"i"`
	S int `json:"s"`
	C int `json:"c"`
}

// Get returns the score for a category.
func (s DiscScore) Get(c Category) int {
	switch c {
	case CategoryDominance:
		return s.D
	case CategoryInfluence:
		return s.I
	case CategorySteadiness:
		return s.S
	case CategoryCompliance:
		return s.C
	}
	return 0
}

// InBounds reports whether every trait score is within [0, 100].
func (s DiscScore) InBounds() bool {
	for _, c := range Categories {
		v := s.Get(c)
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}
