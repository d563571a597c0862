package storage

import (
	"context"

	"github.com/traitforge/disc-engine/internal/models"
)

// Repository defines the interface for user and result persistence.
// Not-found lookups return (nil, nil), never an error.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id string) error

	// Assessment results
	CreateResult(ctx context.Context, r *models.AssessmentResult) error
	GetResult(ctx context.Context, id string) (*models.AssessmentResult, error)
	LatestResultByUser(ctx context.Context, userID string) (*models.AssessmentResult, error)
	ListResultsByUser(ctx context.Context, userID string, limit, offset int) ([]*models.AssessmentResult, error)
	UpdateResultAnalysis(ctx context.Context, id string, a *models.Analysis) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
