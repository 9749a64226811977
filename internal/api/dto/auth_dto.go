package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest payload for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPairResponse carries an issued access/refresh token pair. Each token
// is independently decodable by the auth core.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// IdentityResponse echoes the authenticated identity back to the caller.
type IdentityResponse struct {
	UserID   int64  `json:"user_id"`
	Role     string `json:"role"`
	SchoolID int64  `json:"school_id"`
	PersonID *int64 `json:"person_id,omitempty"`
}
