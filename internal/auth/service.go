// Package auth issues and validates the access/refresh token pairs backing
// the assessment API. Tokens live in Redis keyed by fixed prefixes; this
// service is the only writer of token state.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/traitforge/disc-engine/internal/models"
	"github.com/traitforge/disc-engine/internal/storage"
)

const (
	accessKeyPrefix  = "auth:access:"
	refreshKeyPrefix = "auth:refresh:"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for unknown, expired, or revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Service authenticates users and manages token lifecycles.
type Service struct {
	client     *redis.Client
	repo       storage.Repository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService connects to Redis and returns a ready auth service.
func NewService(addr, password string, db int, repo storage.Repository, accessTTL, refreshTTL time.Duration) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Service{
		client:     client,
		repo:       repo,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("failed login attempt", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateUserLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to stamp last login", "user_id", user.ID, "error", err)
	}

	return &models.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token is consumed: a second refresh with the same token fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, err := s.client.GetDel(ctx, refreshKeyPrefix+refreshToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	pair, err := s.issuePair(ctx, userID)
	if err != nil {
		return nil, err
	}

	slog.Debug("token pair rotated", "user_id", userID)
	return pair, nil
}

// Validate resolves an access token to a user id.
func (s *Service) Validate(ctx context.Context, accessToken string) (string, error) {
	userID, err := s.client.Get(ctx, accessKeyPrefix+accessToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to look up access token: %w", err)
	}
	return userID, nil
}

// Logout revokes an access token immediately. Refresh tokens expire on
// their own TTL; the pair is already unusable for API calls.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if err := s.client.Del(ctx, accessKeyPrefix+accessToken).Err(); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

func (s *Service) issuePair(ctx context.Context, userID string) (*models.TokenPair, error) {
	access, err := generateToken()
	if err != nil {
		return nil, err
	}
	refresh, err := generateToken()
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, accessKeyPrefix+access, userID, s.accessTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}
	if err := s.client.Set(ctx, refreshKeyPrefix+refresh, userID, s.refreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// generateToken creates a cryptographically random 48-char hex token.
func generateToken() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HealthCheck verifies Redis connectivity.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Service) Close() error {
	return s.client.Close()
}
