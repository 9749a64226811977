package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth/internal/auth"
	"github.com/spec-kit/school-auth/internal/config"
	"github.com/spec-kit/school-auth/internal/domain"
	"github.com/spec-kit/school-auth/internal/events"
	"github.com/spec-kit/school-auth/internal/repository"
	apperrors "github.com/spec-kit/school-auth/pkg/util"
)

// AuthService coordinates login, refresh and logout flows.
type AuthService struct {
	users      repository.UserRepository
	revoked    repository.RevocationRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RevocationRepo repository.RevocationRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:   deps.UserRepo,
		revoked: deps.RevocationRepo,
		tokenMgr: auth.NewTokenManager(
			cfg.Auth.JWTSecret,
			cfg.Auth.Issuer,
			cfg.Auth.AccessTokenTTL(),
			cfg.Auth.RefreshTokenTTL(),
		),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Login authenticates credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, events.Event{Type: events.EventLoginFailed, Detail: events.DetailUnknownAccount})
			return nil, nil, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, nil, err
	}
	if user.Status != domain.UserStatusActive {
		s.publish(ctx, eventFor(events.EventLoginFailed, user, events.DetailAccountSuspended))
		return nil, nil, apperrors.NewUnauthorized("Account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publish(ctx, eventFor(events.EventLoginFailed, user, events.DetailBadPassword))
		return nil, nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	pair, err := s.tokenMgr.IssuePair(identityOf(user))
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, eventFor(events.EventLoginSucceeded, user, ""))
	return user, pair, nil
}

// Refresh validates a refresh token and rotates the pair. The presented
// token is revoked so it cannot mint twice; the account is re-checked so a
// suspension cuts the session short of the refresh token's 30 days.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.publish(ctx, events.Event{Type: events.EventRefreshRejected})
		return nil, apperrors.NewUnauthorized("Invalid refresh token")
	}

	if revoked, err := s.revoked.IsRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		s.publish(ctx, events.Event{Type: events.EventRefreshRejected, UserID: claims.UserID, SchoolID: claims.SchoolID, Role: claims.Role})
		return nil, apperrors.NewUnauthorized("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("Invalid refresh token")
		}
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewUnauthorized("Account suspended")
	}

	pair, err := s.tokenMgr.IssuePair(identityOf(user))
	if err != nil {
		return nil, err
	}

	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("failed to revoke rotated refresh token", zap.Error(err))
	}

	s.publish(ctx, eventFor(events.EventTokenRefreshed, user, ""))
	return pair, nil
}

// Logout revokes the presented refresh token. The access token keeps working
// until it expires; there is no access-token denylist.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		// Already invalid; logout is idempotent.
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Type: events.EventSessionRevoked, UserID: claims.UserID, SchoolID: claims.SchoolID, Role: claims.Role})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
}

func eventFor(eventType events.EventType, user *domain.User, detail string) events.Event {
	return events.Event{
		Type:     eventType,
		UserID:   user.ID,
		SchoolID: user.SchoolID,
		Role:     user.Role,
		Detail:   detail,
	}
}

func identityOf(user *domain.User) *domain.Identity {
	return &domain.Identity{
		UserID:   user.ID,
		Role:     user.Role,
		SchoolID: user.SchoolID,
		PersonID: user.PersonID,
	}
}
