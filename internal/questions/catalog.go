// Package questions owns the questionnaire catalog: a built-in DISC item set
// plus optional YAML catalogs loaded from a directory at startup.
package questions

import (
	"fmt"
	"sort"
	"sync"

	"github.com/traitforge/disc-engine/internal/models"
)

// Catalog is an immutable, validated question set. Built once at startup and
// shared read-only afterwards.
type Catalog struct {
	mu    sync.RWMutex
	items []models.Question
	byID  map[int]models.Question
}

// NewCatalog validates and indexes a question set. IDs must be unique and
// positive, categories valid, and every question must carry English text.
func NewCatalog(items []models.Question) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	byID := make(map[int]models.Question, len(items))
	for _, q := range items {
		if q.ID <= 0 {
			return nil, fmt.Errorf("question id %d: ids must be positive", q.ID)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		if !q.Category.Valid() {
			return nil, fmt.Errorf("question %d: invalid category %q", q.ID, q.Category)
		}
		if q.Text["en"] == "" {
			return nil, fmt.Errorf("question %d: missing English text", q.ID)
		}
		byID[q.ID] = q
	}

	sorted := make([]models.Question, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	return &Catalog{items: sorted, byID: byID}, nil
}

// Questions returns the full set in id order. The returned slice is shared;
// callers must not mutate it.
func (c *Catalog) Questions() []models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Get returns the question with the given id, or false.
func (c *Catalog) Get(id int) (models.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.byID[id]
	return q, ok
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Has reports whether id belongs to the catalog.
func (c *Catalog) Has(id int) bool {
	_, ok := c.Get(id)
	return ok
}
