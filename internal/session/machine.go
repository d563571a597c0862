// Package session owns the assessment attempt state machine: a timed,
// resumable question-answering flow that scores on submission and persists
// results through a ResultStore.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
	"github.com/traitforge/disc-engine/internal/questions"
	"github.com/traitforge/disc-engine/internal/scoring"
)

// ResultStore persists and retrieves assessment results. The server wires it
// to the database repository; SDK compositions wire it to the HTTP client.
type ResultStore interface {
	SaveResult(ctx context.Context, req models.SaveResultRequest) (*models.AssessmentResult, error)
	LatestResult(ctx context.Context, userID string) (*models.AssessmentResult, error)
}

// Machine drives one user's assessment attempt through
// idle → running → complete. All methods are safe for concurrent use; the
// timer tick and HTTP handlers share the same state.
type Machine struct {
	mu      sync.Mutex
	userID  string
	catalog *questions.Catalog
	store   ResultStore
	sched   Scheduler
	now     func() time.Time

	phase      models.SessionPhase
	answers    models.AnswerMap
	startTime  time.Time
	elapsed    int
	scores     *models.DiscScore
	cancelTick CancelFunc
}

// Option configures a Machine.
type Option func(*Machine)

// WithScheduler overrides the timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) { m.sched = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// NewMachine creates an idle machine for one user.
func NewMachine(userID string, catalog *questions.Catalog, store ResultStore, opts ...Option) *Machine {
	m := &Machine{
		userID:  userID,
		catalog: catalog,
		store:   store,
		sched:   TickerScheduler{},
		now:     time.Now,
		phase:   models.SessionIdle,
		answers: make(models.AnswerMap),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a fresh attempt: answers cleared, timer reset and running.
// Valid from any phase; a completed attempt is discarded.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTickLocked()
	m.phase = models.SessionRunning
	m.answers = make(models.AnswerMap)
	m.startTime = m.now()
	m.elapsed = 0
	m.scores = nil

	m.cancelTick = m.sched.Schedule(time.Second, m.tick)
}

// tick recomputes elapsed seconds from the wall clock. Only effective while
// running; a tick that fires during teardown is a no-op.
func (m *Machine) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != models.SessionRunning {
		return
	}
	m.elapsed = int(m.now().Sub(m.startTime) / time.Second)
}

// SaveAnswer upserts one rating. Valid only while running; idempotent for
// the same question id.
func (m *Machine) SaveAnswer(questionID, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != models.SessionRunning {
		return &apperrors.ValidationError{Message: "no assessment in progress"}
	}
	if !m.catalog.Has(questionID) {
		return &apperrors.ValidationError{Message: fmt.Sprintf("unknown question id %d", questionID)}
	}
	if value < models.RatingMin || value > models.RatingMax {
		return &apperrors.ValidationError{
			Message: fmt.Sprintf("answer value %d outside [%d, %d]", value, models.RatingMin, models.RatingMax),
		}
	}

	m.answers[questionID] = value
	return nil
}

// Complete reports whether every catalog question has a recorded answer.
func (m *Machine) Complete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.answers) == m.catalog.Len()
}

// Submit seals the attempt: validates completeness, computes scores, freezes
// the timer, and persists the result. Persistence is optimistic — a save
// failure is logged and swallowed, local completion stands (the user keeps
// their computed score even when the remote write failed).
func (m *Machine) Submit(ctx context.Context) (models.DiscScore, error) {
	m.mu.Lock()
	if m.phase != models.SessionRunning {
		m.mu.Unlock()
		return models.DiscScore{}, &apperrors.ValidationError{Message: "no assessment in progress"}
	}
	if len(m.answers) != m.catalog.Len() {
		missing := m.catalog.Len() - len(m.answers)
		m.mu.Unlock()
		return models.DiscScore{}, &apperrors.ValidationError{
			Message: fmt.Sprintf("%d questions unanswered", missing),
		}
	}
	m.mu.Unlock()

	return m.seal(ctx)
}

// SubmitPartial scores whatever answers exist without the completeness
// check. Degenerate path: unanswered questions are excluded from the scale,
// not defaulted.
func (m *Machine) SubmitPartial(ctx context.Context) (models.DiscScore, error) {
	m.mu.Lock()
	if m.phase != models.SessionRunning {
		m.mu.Unlock()
		return models.DiscScore{}, &apperrors.ValidationError{Message: "no assessment in progress"}
	}
	m.mu.Unlock()

	return m.seal(ctx)
}

func (m *Machine) seal(ctx context.Context) (models.DiscScore, error) {
	m.mu.Lock()
	score := scoring.Calculate(m.catalog.Questions(), m.answers)
	m.scores = &score
	m.phase = models.SessionComplete
	m.stopTickLocked()

	answers := make(models.AnswerMap, len(m.answers))
	for k, v := range m.answers {
		answers[k] = v
	}
	userID := m.userID
	m.mu.Unlock()

	if _, err := m.store.SaveResult(ctx, models.SaveResultRequest{
		UserID:  userID,
		Scores:  score,
		Answers: answers,
	}); err != nil {
		slog.Error("failed to persist assessment result",
			"user_id", userID,
			"error", err,
		)
	}

	return score, nil
}

// LoadLatest hydrates scores and completion from the most recent stored
// result. Best-effort: any failure, including not-found, leaves the machine
// unchanged and reports false. The timer is not restarted.
func (m *Machine) LoadLatest(ctx context.Context) bool {
	result, err := m.store.LatestResult(ctx, m.userID)
	if err != nil || result == nil {
		slog.Debug("no stored result to hydrate from", "user_id", m.userID, "error", err)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTickLocked()
	m.phase = models.SessionComplete
	scores := result.Scores
	m.scores = &scores
	if len(result.Answers) > 0 {
		m.answers = result.Answers
	}
	return true
}

// State returns a snapshot of the current machine state.
func (m *Machine) State() models.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := models.SessionState{
		Phase:          m.phase,
		Answers:        make(models.AnswerMap, len(m.answers)),
		ElapsedSeconds: m.elapsed,
		IsComplete:     m.phase == models.SessionComplete,
	}
	for k, v := range m.answers {
		state.Answers[k] = v
	}
	if m.phase != models.SessionIdle && !m.startTime.IsZero() {
		t := m.startTime
		state.StartTime = &t
	}
	if m.scores != nil {
		s := *m.scores
		state.Scores = &s
	}
	return state
}

// ElapsedSeconds returns the frozen-or-ticking timer value.
func (m *Machine) ElapsedSeconds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsed
}

// StartedAt returns the start of the current attempt (zero when idle).
func (m *Machine) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() models.SessionPhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Teardown cancels the timer and returns the machine to idle. Called when
// the owning scope is discarded.
func (m *Machine) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTickLocked()
	m.phase = models.SessionIdle
}

func (m *Machine) stopTickLocked() {
	if m.cancelTick != nil {
		m.cancelTick()
		m.cancelTick = nil
	}
}
