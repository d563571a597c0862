// Package cleanup reaps assessment sessions that have been running longer
// than the allowed maximum, cancelling their timers and freeing hub slots.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/traitforge/disc-engine/internal/session"
)

// Cleaner handles periodic teardown of abandoned sessions
type Cleaner struct {
	hub      *session.Hub
	interval time.Duration
	maxAge   time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(hub *session.Hub, interval, maxAge time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if maxAge <= 0 {
		maxAge = 2 * time.Hour
	}

	return &Cleaner{
		hub:      hub,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("session cleanup worker started", "interval", c.interval, "max_age", c.maxAge)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session cleanup worker stopped")
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup finds and tears down stale running sessions
func (c *Cleaner) cleanup() {
	slog.Debug("running session cleanup cycle")

	stale := c.hub.Stale(c.maxAge, time.Now())
	if len(stale) == 0 {
		slog.Debug("no stale sessions found")
		return
	}

	slog.Info("found stale sessions", "count", len(stale))

	for _, userID := range stale {
		c.hub.Remove(userID)
		slog.Info("stale session torn down", "user_id", userID)
	}
}
