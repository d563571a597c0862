package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
	"github.com/traitforge/disc-engine/internal/questions"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeScheduler captures the scheduled tick so tests can fire it manually
// and observe cancellation.
type fakeScheduler struct {
	fn        func()
	cancelled bool
}

func (s *fakeScheduler) Schedule(interval time.Duration, fn func()) CancelFunc {
	s.fn = fn
	s.cancelled = false
	return func() { s.cancelled = true }
}

func (s *fakeScheduler) Fire() {
	if s.fn != nil && !s.cancelled {
		s.fn()
	}
}

// fakeStore records saves and serves a canned latest result.
type fakeStore struct {
	saved   []models.SaveResultRequest
	saveErr error
	latest  *models.AssessmentResult
	lastErr error
}

func (s *fakeStore) SaveResult(ctx context.Context, req models.SaveResultRequest) (*models.AssessmentResult, error) {
	s.saved = append(s.saved, req)
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return &models.AssessmentResult{UserID: req.UserID, Scores: req.Scores}, nil
}

func (s *fakeStore) LatestResult(ctx context.Context, userID string) (*models.AssessmentResult, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	return s.latest, nil
}

func newTestMachine(t *testing.T) (*Machine, *fakeScheduler, *fakeClock, *fakeStore) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	sched := &fakeScheduler{}
	store := &fakeStore{}
	m := NewMachine("user-1", questions.Default(), store,
		WithScheduler(sched), WithClock(clock.Now))
	return m, sched, clock, store
}

func answerEverything(t *testing.T, m *Machine, value int) {
	t.Helper()
	for _, q := range questions.Default().Questions() {
		if err := m.SaveAnswer(q.ID, value); err != nil {
			t.Fatalf("SaveAnswer(%d, %d): %v", q.ID, value, err)
		}
	}
}

func TestStartResetsState(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	m.Start()
	if err := m.SaveAnswer(1, 4); err != nil {
		t.Fatal(err)
	}

	m.Start()
	state := m.State()
	if state.Phase != models.SessionRunning {
		t.Errorf("expected running, got %s", state.Phase)
	}
	if len(state.Answers) != 0 {
		t.Errorf("restart should clear answers, got %d", len(state.Answers))
	}
	if state.ElapsedSeconds != 0 {
		t.Errorf("restart should reset timer, got %d", state.ElapsedSeconds)
	}
	if state.IsComplete {
		t.Error("restart should clear completion")
	}
}

func TestSaveAnswerValidation(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	// Not running yet.
	if err := m.SaveAnswer(1, 3); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error before start, got %v", err)
	}

	m.Start()

	if err := m.SaveAnswer(999, 3); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for unknown question, got %v", err)
	}
	if err := m.SaveAnswer(1, 0); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for value 0, got %v", err)
	}
	if err := m.SaveAnswer(1, 6); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for value 6, got %v", err)
	}

	// Idempotent upsert.
	if err := m.SaveAnswer(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveAnswer(1, 5); err != nil {
		t.Fatal(err)
	}
	if got := m.State().Answers[1]; got != 5 {
		t.Errorf("upsert should keep last value, got %d", got)
	}
}

func TestTimerMonotonicity(t *testing.T) {
	m, sched, clock, _ := newTestMachine(t)
	m.Start()

	prev := 0
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		sched.Fire()
		got := m.ElapsedSeconds()
		if got < prev {
			t.Fatalf("elapsed went backwards: %d -> %d", prev, got)
		}
		prev = got
	}
	if prev != 5 {
		t.Errorf("expected elapsed 5, got %d", prev)
	}
}

func TestTimerFrozenOnComplete(t *testing.T) {
	m, sched, clock, _ := newTestMachine(t)
	m.Start()
	answerEverything(t, m, 3)

	clock.Advance(10 * time.Second)
	sched.Fire()

	if _, err := m.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !sched.cancelled {
		t.Error("submission must cancel the timer tick")
	}

	frozen := m.ElapsedSeconds()
	clock.Advance(time.Minute)
	sched.Fire()
	if got := m.ElapsedSeconds(); got != frozen {
		t.Errorf("elapsed must freeze on completion: %d -> %d", frozen, got)
	}
}

func TestTeardownCancelsTimer(t *testing.T) {
	m, sched, _, _ := newTestMachine(t)
	m.Start()
	m.Teardown()
	if !sched.cancelled {
		t.Error("teardown must cancel the timer tick")
	}
}

func TestSubmitRequiresCompleteness(t *testing.T) {
	m, _, _, store := newTestMachine(t)
	m.Start()
	if err := m.SaveAnswer(1, 3); err != nil {
		t.Fatal(err)
	}

	_, err := m.Submit(context.Background())
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if m.State().IsComplete {
		t.Error("failed submission must not complete the session")
	}
	if len(store.saved) != 0 {
		t.Error("failed submission must not persist")
	}
}

func TestSubmitPartialScoresRecordedAnswers(t *testing.T) {
	m, _, _, _ := newTestMachine(t)
	m.Start()
	// Answer only question 1 (a D question) with the maximum.
	if err := m.SaveAnswer(1, 5); err != nil {
		t.Fatal(err)
	}

	score, err := m.SubmitPartial(context.Background())
	if err != nil {
		t.Fatalf("SubmitPartial: %v", err)
	}
	if score.D != 100 {
		t.Errorf("expected D=100 from single max answer, got %d", score.D)
	}
	if score.I != 0 || score.S != 0 || score.C != 0 {
		t.Errorf("unanswered categories must be 0, got %+v", score)
	}
}

func TestSubmitIsOptimistic(t *testing.T) {
	m, _, _, store := newTestMachine(t)
	store.saveErr = errors.New("connection refused")

	m.Start()
	answerEverything(t, m, 4)

	score, err := m.Submit(context.Background())
	if err != nil {
		t.Fatalf("save failure must not fail submission: %v", err)
	}
	if !m.State().IsComplete {
		t.Error("local completion must survive a failed remote save")
	}
	if score.D != 75 {
		t.Errorf("all-4 answers should score 75, got %d", score.D)
	}
	if len(store.saved) != 1 {
		t.Errorf("expected one save attempt, got %d", len(store.saved))
	}
}

func TestLoadLatest(t *testing.T) {
	m, _, _, store := newTestMachine(t)

	// Failure leaves state unchanged.
	store.lastErr = errors.New("boom")
	if m.LoadLatest(context.Background()) {
		t.Error("hydration should report false on error")
	}
	if m.State().Phase != models.SessionIdle {
		t.Error("failed hydration must leave state unchanged")
	}

	// Not-found leaves state unchanged too.
	store.lastErr = nil
	store.latest = nil
	if m.LoadLatest(context.Background()) {
		t.Error("hydration should report false on not-found")
	}

	store.latest = &models.AssessmentResult{
		UserID: "user-1",
		Scores: models.DiscScore{D: 80, I: 40, S: 30, C: 60},
	}
	if !m.LoadLatest(context.Background()) {
		t.Fatal("hydration should succeed")
	}
	state := m.State()
	if !state.IsComplete {
		t.Error("hydration must mark the session complete")
	}
	if state.Scores == nil || state.Scores.D != 80 {
		t.Errorf("hydration must populate scores, got %+v", state.Scores)
	}
	if state.ElapsedSeconds != 0 {
		t.Error("hydration must not restart the timer")
	}
}

func TestEndToEndThirtyQuestionsAtThree(t *testing.T) {
	m, sched, clock, store := newTestMachine(t)

	m.Start()
	for _, q := range questions.Default().Questions() {
		clock.Advance(2 * time.Second)
		sched.Fire()
		if err := m.SaveAnswer(q.ID, 3); err != nil {
			t.Fatalf("SaveAnswer(%d): %v", q.ID, err)
		}
	}

	if !m.Complete() {
		t.Fatal("all 30 questions answered, expected completeness")
	}

	score, err := m.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for _, c := range models.Categories {
		if v := score.Get(c); v < 49 || v > 51 {
			t.Errorf("category %s: expected ~50, got %d", c, v)
		}
	}
	if !m.State().IsComplete {
		t.Error("expected isComplete after submission")
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one persisted result, got %d", len(store.saved))
	}
	if len(store.saved[0].Answers) != 30 {
		t.Errorf("persisted payload should carry all 30 answers, got %d", len(store.saved[0].Answers))
	}
}

func TestHubLifecycle(t *testing.T) {
	store := &fakeStore{}
	clock := &fakeClock{t: time.Now()}
	hub := NewHub(questions.Default(), store, WithScheduler(&fakeScheduler{}), WithClock(clock.Now))

	m1 := hub.GetOrCreate("a")
	if hub.GetOrCreate("a") != m1 {
		t.Error("GetOrCreate must return the same machine per user")
	}
	if hub.Get("b") != nil {
		t.Error("Get must not create machines")
	}

	m1.Start()
	clock.Advance(2 * time.Hour)
	stale := hub.Stale(time.Hour, clock.Now())
	if len(stale) != 1 || stale[0] != "a" {
		t.Errorf("expected [a] stale, got %v", stale)
	}

	hub.Remove("a")
	if hub.Get("a") != nil {
		t.Error("Remove must discard the machine")
	}
}
