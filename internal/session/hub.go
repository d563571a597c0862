package session

import (
	"sync"
	"time"

	"github.com/traitforge/disc-engine/internal/models"
	"github.com/traitforge/disc-engine/internal/questions"
)

// Hub is the per-user machine registry. Machines are created on demand and
// torn down explicitly, giving each session a defined initialization and
// teardown boundary instead of ambient global state.
type Hub struct {
	mu       sync.Mutex
	machines map[string]*Machine
	catalog  *questions.Catalog
	store    ResultStore
	opts     []Option
}

// NewHub creates an empty registry. opts apply to every machine it creates.
func NewHub(catalog *questions.Catalog, store ResultStore, opts ...Option) *Hub {
	return &Hub{
		machines: make(map[string]*Machine),
		catalog:  catalog,
		store:    store,
		opts:     opts,
	}
}

// Get returns the user's machine, or nil if none exists.
func (h *Hub) Get(userID string) *Machine {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machines[userID]
}

// GetOrCreate returns the user's machine, creating an idle one if needed.
func (h *Hub) GetOrCreate(userID string) *Machine {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.machines[userID]; ok {
		return m
	}
	m := NewMachine(userID, h.catalog, h.store, h.opts...)
	h.machines[userID] = m
	return m
}

// Remove tears down and discards the user's machine.
func (h *Hub) Remove(userID string) {
	h.mu.Lock()
	m := h.machines[userID]
	delete(h.machines, userID)
	h.mu.Unlock()

	if m != nil {
		m.Teardown()
	}
}

// Stale returns the user ids of machines that have been running longer than
// maxAge. Used by the cleanup worker to reap abandoned attempts.
func (h *Hub) Stale(maxAge time.Duration, now time.Time) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var stale []string
	for userID, m := range h.machines {
		if m.Phase() != models.SessionRunning {
			continue
		}
		if now.Sub(m.StartedAt()) > maxAge {
			stale = append(stale, userID)
		}
	}
	return stale
}

// Close tears down every machine.
func (h *Hub) Close() {
	h.mu.Lock()
	machines := make([]*Machine, 0, len(h.machines))
	for _, m := range h.machines {
		machines = append(machines, m)
	}
	h.machines = make(map[string]*Machine)
	h.mu.Unlock()

	for _, m := range machines {
		m.Teardown()
	}
}
