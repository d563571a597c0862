// Package client is a Go SDK for the disc-engine API. It attaches bearer
// tokens from a TokenStore to every protected request and transparently
// refreshes the pair once when the server answers 401; a second 401 clears
// the stored tokens and surfaces apperrors.AuthExpiredError. It satisfies
// session.ResultStore, so a session.Machine can run against a remote engine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
)

// Client is a Go SDK for the disc-engine API.
type Client struct {
	baseURL    string
	tokens     TokenStore
	httpClient *http.Client

	// refreshMu serializes token refresh so concurrent 401s trigger a
	// single refresh call instead of a stampede.
	refreshMu sync.Mutex
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTokenStore sets the token persistence backend. Defaults to an
// in-memory store.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// NewClient creates a new disc-engine client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		tokens:  NewMemoryTokenStore(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a structured error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s - %s", e.StatusCode, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Auth operations

// Register creates a new account. Does not log in.
func (c *Client) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"name":     name,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var user models.User
	if err := c.doJSON(ctx, "POST", "/api/v1/auth/register", body, false, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair and stores it, replacing any
// previous pair.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp models.LoginResponse
	if err := c.doJSON(ctx, "POST", "/api/v1/auth/login", body, false, &resp); err != nil {
		return nil, err
	}

	if err := c.tokens.Save(&models.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}
	return &resp, nil
}

// Logout invalidates the server-side session and clears stored tokens.
// Tokens are cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, "POST", "/api/v1/auth/logout", nil, true, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// Catalog operations

// Questions retrieves the question catalog.
func (c *Client) Questions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := c.doJSON(ctx, "GET", "/api/v1/questions", nil, true, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Assessment operations. SaveResult and LatestResult satisfy
// session.ResultStore.

// SaveResult persists a completed assessment.
func (c *Client) SaveResult(ctx context.Context, req models.SaveResultRequest) (*models.AssessmentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.AssessmentResult
	if err := c.doJSON(ctx, "POST", "/api/v1/assessment/save", body, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestResult returns the authenticated user's most recent result, or
// (nil, nil) when none exists. The userID argument is accepted for
// session.ResultStore compatibility; the server resolves the user from the
// bearer token.
func (c *Client) LatestResult(ctx context.Context, userID string) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := c.doJSON(ctx, "GET", "/api/v1/assessment/get_latest", nil, true, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// ListResults returns the authenticated user's result history, newest first.
func (c *Client) ListResults(ctx context.Context) ([]*models.AssessmentResult, error) {
	var results []*models.AssessmentResult
	if err := c.doJSON(ctx, "GET", "/api/v1/assessment/list", nil, true, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ResultByID retrieves a single result owned by the authenticated user.
func (c *Client) ResultByID(ctx context.Context, id string) (*models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := c.doJSON(ctx, "GET", "/api/v1/assessment/"+id, nil, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateInsights asks the engine to attach an AI-generated analysis to the
// result and returns the updated record.
func (c *Client) GenerateInsights(ctx context.Context, id string, req models.GenerateInsightsRequest) (*models.AssessmentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result models.AssessmentResult
	if err := c.doJSON(ctx, "POST", "/api/v1/assessment/"+id+"/insights", body, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadReport fetches the rendered PDF for a result. Returns the document
// bytes and the server-suggested filename.
func (c *Client) DownloadReport(ctx context.Context, id string) ([]byte, string, error) {
	raw, header, err := c.doRequest(ctx, "GET", "/api/v1/assessment/"+id+"/report", nil, true, false)
	if err != nil {
		return nil, "", err
	}

	filename := "report.pdf"
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return raw, filename, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, "GET", "/health", nil, false, nil)
}

// doJSON performs a request and decodes the data field of the response
// envelope into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, authed bool, out interface{}) error {
	raw, _, err := c.doRequest(ctx, method, path, body, authed, false)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &apperrors.NetworkError{Err: err, StatusCode: http.StatusOK}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// doRequest performs one HTTP request. For authed requests a 401 triggers a
// single token refresh followed by one replay; the replay runs with isRetry
// set, so a second 401 clears the stored pair and fails with
// AuthExpiredError instead of refreshing again.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, authed, isRetry bool) ([]byte, http.Header, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if authed {
		pair, err := c.tokens.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load tokens: %w", err)
		}
		if pair != nil && pair.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &apperrors.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &apperrors.NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && authed {
		if isRetry {
			_ = c.tokens.Clear()
			return nil, nil, &apperrors.AuthExpiredError{}
		}
		if err := c.refresh(ctx); err != nil {
			return nil, nil, err
		}
		return c.doRequest(ctx, method, path, body, authed, true)
	}

	if resp.StatusCode >= 400 {
		return nil, nil, errorFromResponse(resp.StatusCode, raw)
	}
	return raw, resp.Header, nil
}

// refresh exchanges the stored refresh token for a new pair. Any failure is
// terminal for the session: the stored pair is cleared and AuthExpiredError
// is returned.
func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair, err := c.tokens.Load()
	if err != nil || pair == nil || pair.RefreshToken == "" {
		_ = c.tokens.Clear()
		return &apperrors.AuthExpiredError{Err: err}
	}

	body, err := json.Marshal(models.RefreshRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// isRetry is set so a 401 from the refresh endpoint itself cannot
	// trigger another refresh.
	raw, _, err := c.doRequest(ctx, "POST", "/api/v1/auth/refresh", body, false, true)
	if err != nil {
		_ = c.tokens.Clear()
		return &apperrors.AuthExpiredError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		_ = c.tokens.Clear()
		return &apperrors.AuthExpiredError{Err: err}
	}

	var next models.TokenPair
	if err := json.Unmarshal(env.Data, &next); err != nil || next.AccessToken == "" {
		_ = c.tokens.Clear()
		return &apperrors.AuthExpiredError{Err: err}
	}

	if err := c.tokens.Save(&next); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}
	return nil
}

// errorFromResponse maps a non-2xx body to an error. A structured envelope
// keeps its server-assigned code and message; anything else is a
// non-payload response and is reported as a NetworkError.
func errorFromResponse(status int, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		return &APIError{
			StatusCode: status,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
		}
	}
	return &apperrors.NetworkError{
		StatusCode: status,
		Message:    fmt.Sprintf("server returned non-payload response (status %d)", status),
	}
}
