package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-auth/internal/domain"
)

const testSecret = "test-secret-key-1234567890-abcdef"
const testIssuer = "school-auth"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	return NewTokenManager(testSecret, testIssuer, 24*time.Hour, 30*24*time.Hour)
}

func testIdentity() *domain.Identity {
	personID := int64(42)
	return &domain.Identity{
		UserID:   7,
		Role:     domain.RoleTeacher,
		SchoolID: 3,
		PersonID: &personID,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tm := newTestManager(t)
	identity := testIdentity()

	token, err := tm.Encode(identity, domain.TokenKindAccess, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := tm.Decode(token)
	require.NoError(t, err)
	require.Equal(t, identity.UserID, claims.UserID)
	require.Equal(t, identity.Role, claims.Role)
	require.Equal(t, identity.SchoolID, claims.SchoolID)
	require.NotNil(t, claims.PersonID)
	require.Equal(t, *identity.PersonID, *claims.PersonID)
	require.Equal(t, domain.TokenKindAccess, claims.Kind)
	require.Equal(t, testIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestValidateReturnsIdentityBeforeExpiry(t *testing.T) {
	tm := newTestManager(t)
	identity := testIdentity()

	token, _, err := tm.IssueAccessToken(identity)
	require.NoError(t, err)

	got, err := tm.Validate(token)
	require.NoError(t, err)
	require.Equal(t, identity, got)
}

func TestValidateExpiredToken(t *testing.T) {
	tm := newTestManager(t)
	identity := testIdentity()

	token, err := tm.Encode(identity, domain.TokenKindAccess, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = tm.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsMalformedInput(t *testing.T) {
	tm := newTestManager(t)

	for _, token := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := tm.Validate(token)
		require.ErrorIs(t, err, ErrTokenMalformed, "input %q", token)
	}
}

func TestDecodeRejectsForeignIssuer(t *testing.T) {
	other := NewTokenManager(testSecret, "other-issuer", time.Hour, time.Hour)
	tm := newTestManager(t)

	token, err := other.Encode(testIdentity(), domain.TokenKindAccess, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = tm.Decode(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	other := NewTokenManager("another-secret-key-not-the-same-1", testIssuer, time.Hour, time.Hour)
	tm := newTestManager(t)

	token, err := other.Encode(testIdentity(), domain.TokenKindAccess, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = tm.Decode(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTamperedSignatureAlwaysFails(t *testing.T) {
	tm := newTestManager(t)

	token, err := tm.Encode(testIdentity(), domain.TokenKindAccess, time.Now().Add(time.Hour))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]

	// Flip every signature byte in turn. The final base64 character carries
	// unused bits that a lenient decoder ignores, so stop one short of it.
	for pos := 0; pos < len(sig)-1; pos++ {
		flipped := []byte(sig)
		flipped[pos] ^= 0x01
		tampered := parts[0] + "." + parts[1] + "." + string(flipped)

		_, err := tm.Decode(tampered)
		require.ErrorIs(t, err, ErrTokenMalformed, "flipped signature byte %d", pos)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	tm := newTestManager(t)
	identity := testIdentity()

	access, _, err := tm.IssueAccessToken(identity)
	require.NoError(t, err)
	refresh, _, err := tm.IssueRefreshToken(identity)
	require.NoError(t, err)

	t.Run("access token rejected by refresh path", func(t *testing.T) {
		_, err := tm.ValidateRefreshToken(access)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("refresh token rejected by access path", func(t *testing.T) {
		_, err := tm.Validate(refresh)
		require.ErrorIs(t, err, ErrTokenMalformed)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	tm := newTestManager(t)
	identity := testIdentity()

	refresh, _, err := tm.IssueRefreshToken(identity)
	require.NoError(t, err)

	claims, err := tm.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, identity.UserID, claims.UserID)
	require.Equal(t, domain.TokenKindRefresh, claims.Kind)
}

func TestValidateRefreshTokenExpired(t *testing.T) {
	tm := newTestManager(t)

	token, err := tm.Encode(testIdentity(), domain.TokenKindRefresh, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = tm.ValidateRefreshToken(token)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

// Exercises the full lifecycle: a pair issued at t works at t+1h, the access
// token is expired at t+25h, and the refresh token still mints a new pair
// good for another 24h.
func TestSessionLifecycle(t *testing.T) {
	tm := newTestManager(t)
	identity := &domain.Identity{UserID: 7, Role: domain.RoleTeacher, SchoolID: 1}

	start := time.Now()
	tm.now = func() time.Time { return start }

	pair, err := tm.IssuePair(identity)
	require.NoError(t, err)

	tm.now = func() time.Time { return start.Add(time.Hour) }
	got, err := tm.Validate(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTeacher, got.Role)

	tm.now = func() time.Time { return start.Add(25 * time.Hour) }
	_, err = tm.Validate(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)

	claims, err := tm.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	renewed, _, err := tm.IssueAccessToken(claims.Identity())
	require.NoError(t, err)

	tm.now = func() time.Time { return start.Add(48 * time.Hour) }
	got, err = tm.Validate(renewed)
	require.NoError(t, err)
	require.Equal(t, identity.UserID, got.UserID)
}
