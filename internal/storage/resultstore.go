package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/traitforge/disc-engine/internal/models"
)

// ResultStore adapts Repository to the session engine's persistence
// interface, assigning ids and timestamps on save.
type ResultStore struct {
	repo Repository
}

// NewResultStore wraps a repository for use by session machines.
func NewResultStore(repo Repository) *ResultStore {
	return &ResultStore{repo: repo}
}

// SaveResult creates a new result record from a submission payload.
func (s *ResultStore) SaveResult(ctx context.Context, req models.SaveResultRequest) (*models.AssessmentResult, error) {
	result := &models.AssessmentResult{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Timestamp: time.Now().UTC(),
		Scores:    req.Scores,
		Answers:   req.Answers,
	}

	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	return result, nil
}

// LatestResult returns the user's most recent result, or (nil, nil).
func (s *ResultStore) LatestResult(ctx context.Context, userID string) (*models.AssessmentResult, error) {
	return s.repo.LatestResultByUser(ctx, userID)
}
