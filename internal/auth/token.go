package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/school-auth/internal/domain"
)

// Failure modes surfaced by token validation. Signature failures and
// corrupted tokens collapse into ErrTokenMalformed so callers cannot
// distinguish a foreign-signed token from a garbled one.
var (
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrInvalidRefresh = errors.New("auth: invalid refresh token")
)

// Claims describes the fixed JWT payload schema. Subject attributes are set
// at issuance and never mutated.
type Claims struct {
	UserID   int64            `json:"uid"`
	Role     domain.Role      `json:"rol"`
	SchoolID int64            `json:"sch"`
	PersonID *int64           `json:"pid,omitempty"`
	Kind     domain.TokenKind `json:"knd"`
	jwt.RegisteredClaims
}

// Identity converts the subject claims into a request identity.
func (c *Claims) Identity() *domain.Identity {
	return &domain.Identity{
		UserID:   c.UserID,
		Role:     c.Role,
		SchoolID: c.SchoolID,
		PersonID: c.PersonID,
	}
}

// TokenManager encodes, decodes and validates signed session tokens using a
// shared HMAC secret. It also mints access/refresh token pairs.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager with the given secret and lifetimes.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Encode serializes the identity plus standard fields and signs the result.
// Expiry is taken verbatim from expiresAt so callers control lifetime.
func (tm *TokenManager) Encode(identity *domain.Identity, kind domain.TokenKind, expiresAt time.Time) (string, error) {
	now := tm.now()
	claims := &Claims{
		UserID:   identity.UserID,
		Role:     identity.Role,
		SchoolID: identity.SchoolID,
		PersonID: identity.PersonID,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Decode verifies the signature and returns the embedded claims. It does not
// check expiry; callers apply their own expiry policy. Any parse or signature
// failure yields ErrTokenMalformed.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenMalformed
		}
		return tm.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Issuer != tm.issuer {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// Validate checks an access token end to end: signature, kind and expiry.
// Refresh tokens are rejected here; they never authorize API calls.
func (tm *TokenManager) Validate(tokenStr string) (*domain.Identity, error) {
	claims, err := tm.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Kind != domain.TokenKindAccess {
		return nil, ErrTokenMalformed
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(tm.now()) {
		return nil, ErrTokenExpired
	}
	return claims.Identity(), nil
}

// IssueAccessToken mints a short-lived token authorizing API calls.
func (tm *TokenManager) IssueAccessToken(identity *domain.Identity) (string, time.Time, error) {
	expiresAt := tm.now().Add(tm.accessTTL)
	token, err := tm.Encode(identity, domain.TokenKindAccess, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// IssueRefreshToken mints a long-lived token authorizing refresh only.
func (tm *TokenManager) IssueRefreshToken(identity *domain.Identity) (string, time.Time, error) {
	expiresAt := tm.now().Add(tm.refreshTTL)
	token, err := tm.Encode(identity, domain.TokenKindRefresh, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateRefreshToken decodes a refresh token and enforces kind and expiry.
// Access tokens are rejected even when otherwise well-formed.
func (tm *TokenManager) ValidateRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := tm.Decode(tokenStr)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.Kind != domain.TokenKindRefresh {
		return nil, ErrInvalidRefresh
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(tm.now()) {
		return nil, ErrInvalidRefresh
	}
	return claims, nil
}

// IssuePair mints a fresh access/refresh token pair for the identity.
func (tm *TokenManager) IssuePair(identity *domain.Identity) (*domain.TokenPair, error) {
	access, accessExp, err := tm.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tm.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}
