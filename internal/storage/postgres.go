package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traitforge/disc-engine/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser inserts a new user record
func (r *PostgresRepository) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.CreatedAt,
		nullTime(u.LastLoginAt),
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, last_login_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByID retrieves a user by id
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, last_login_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}

	return &u, nil
}

// UpdateUserLastLogin stamps the user's last login time
func (r *PostgresRepository) UpdateUserLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// CreateResult inserts a new assessment result
func (r *PostgresRepository) CreateResult(ctx context.Context, res *models.AssessmentResult) error {
	answersJSON, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	var analysisJSON []byte
	if res.Analysis != nil {
		analysisJSON, err = json.Marshal(res.Analysis)
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
	}

	query := `
		INSERT INTO assessment_results (id, user_id, created_at, score_d, score_i, score_s, score_c, answers, analysis)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		res.ID,
		res.UserID,
		res.Timestamp,
		res.Scores.D,
		res.Scores.I,
		res.Scores.S,
		res.Scores.C,
		answersJSON,
		analysisJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}

	return nil
}

const resultColumns = `id, user_id, created_at, score_d, score_i, score_s, score_c, answers, analysis`

// GetResult retrieves a result by id
func (r *PostgresRepository) GetResult(ctx context.Context, id string) (*models.AssessmentResult, error) {
	query := fmt.Sprintf(`SELECT %s FROM assessment_results WHERE id = $1`, resultColumns)
	return r.scanResult(r.pool.QueryRow(ctx, query, id))
}

// LatestResultByUser retrieves the most recent result for a user
func (r *PostgresRepository) LatestResultByUser(ctx context.Context, userID string) (*models.AssessmentResult, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM assessment_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, resultColumns)
	return r.scanResult(r.pool.QueryRow(ctx, query, userID))
}

// ListResultsByUser retrieves a page of a user's results, newest first
func (r *PostgresRepository) ListResultsByUser(ctx context.Context, userID string, limit, offset int) ([]*models.AssessmentResult, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM assessment_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, resultColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.AssessmentResult
	for rows.Next() {
		res, err := r.scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

func (r *PostgresRepository) scanResult(row pgx.Row) (*models.AssessmentResult, error) {
	var res models.AssessmentResult
	var answersJSON, analysisJSON []byte

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Timestamp,
		&res.Scores.D,
		&res.Scores.I,
		&res.Scores.S,
		&res.Scores.C,
		&answersJSON,
		&analysisJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &res.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}

	if len(analysisJSON) > 0 {
		res.Analysis = &models.Analysis{}
		if err := json.Unmarshal(analysisJSON, res.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
	}

	return &res, nil
}

// UpdateResultAnalysis attaches (or replaces) the AI narrative on a result
func (r *PostgresRepository) UpdateResultAnalysis(ctx context.Context, id string, a *models.Analysis) error {
	analysisJSON, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `UPDATE assessment_results SET analysis = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, analysisJSON)
	if err != nil {
		return fmt.Errorf("failed to update analysis: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("result %s not found", id)
	}

	return nil
}

// Helpers

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
