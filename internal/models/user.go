package models

import "time"

// User is an account record. PasswordHash is a bcrypt digest and is never
// serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// TokenPair is an access/refresh token set. Overwritten on login and on
// refresh, cleared on logout or irrecoverable auth failure.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginRequest is the credentials payload for auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens plus the user record.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// RefreshRequest is the payload for auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
