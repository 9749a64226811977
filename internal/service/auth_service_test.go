package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-auth/internal/auth"
	"github.com/spec-kit/school-auth/internal/config"
	"github.com/spec-kit/school-auth/internal/domain"
	"github.com/spec-kit/school-auth/internal/repository"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func newTestService(t *testing.T) (*AuthService, *stubUserRepo) {
	t.Helper()

	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*domain.User{
		"teacher@school.example": {
			ID:           7,
			Name:         "Jordan Mills",
			Email:        "teacher@school.example",
			PasswordHash: hash,
			Role:         domain.RoleTeacher,
			SchoolID:     3,
			Status:       domain.UserStatusActive,
		},
	}}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret: "test-secret-key-1234567890-abcdef",
		Issuer:    "school-auth",
	}}

	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:       repo,
		RevocationRepo: repository.NewMemoryRevocationRepository(),
	})
	return svc, repo
}

func TestLoginIssuesDecodablePair(t *testing.T) {
	svc, _ := newTestService(t)

	user, pair, err := svc.Login(context.Background(), "teacher@school.example", "s3cret")
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	identity, err := svc.TokenManager().Validate(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTeacher, identity.Role)
	require.Equal(t, int64(3), identity.SchoolID)

	_, err = svc.TokenManager().ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "teacher@school.example", "wrong")
	require.Error(t, err)

	_, _, err = svc.Login(context.Background(), "nobody@school.example", "s3cret")
	require.Error(t, err)
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	svc, repo := newTestService(t)
	repo.users["teacher@school.example"].Status = domain.UserStatusSuspended

	_, _, err := svc.Login(context.Background(), "teacher@school.example", "s3cret")
	require.Error(t, err)
}

func TestRefreshRotatesPair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "teacher@school.example", "s3cret")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, renewed.AccessToken)

	// The rotated-out refresh token must not mint a second pair.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)

	// The new one still works.
	_, err = svc.Refresh(ctx, renewed.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "teacher@school.example", "s3cret")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.Error(t, err)
}

func TestRefreshRejectsSuspendedAccount(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "teacher@school.example", "s3cret")
	require.NoError(t, err)

	repo.users["teacher@school.example"].Status = domain.UserStatusSuspended

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "teacher@school.example", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)

	// Logout of an already-invalid token is a no-op.
	require.NoError(t, svc.Logout(ctx, "garbage"))
}
