package domain

import "time"

// TokenKind differentiates access tokens from refresh tokens. The two are
// never interchangeable: access tokens authorize API calls, refresh tokens
// authorize minting a new pair only.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Identity is the decoded subject attached to a request once its token has
// been validated. It lives only in the current request's scope.
type Identity struct {
	UserID   int64
	Role     Role
	SchoolID int64
	PersonID *int64
}

// TokenPair bundles the credentials returned by login and refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
