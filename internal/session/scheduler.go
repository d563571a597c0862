package session

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled task. Safe to call more than once.
type CancelFunc func()

// Scheduler runs a callback at a fixed interval until cancelled. The machine
// keys its one-second timer tick to state transitions through this interface
// rather than recomputing elapsed time implicitly.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) CancelFunc
}

// TickerScheduler is the production Scheduler, backed by time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Schedule(interval time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
