package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/storage"
)

var (
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("user account is deactivated")
	ErrMissingToken         = errors.New("refresh token is required")
	ErrRefreshTokenNotFound = errors.New("invalid refresh token")
	ErrInvalidUserState     = errors.New("invalid user information")
)

// AuthService orchestrates the three session flows and is the only component
// that mutates the session store.
type AuthService struct {
	tokens   *TokenService
	users    storage.UserRepository
	sessions storage.SessionRepository
	log      *zap.SugaredLogger
}

func NewAuthService(tokens *TokenService, users storage.UserRepository, sessions storage.SessionRepository, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		tokens:   tokens,
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	pair, session, err := s.issueTokens(user.ID, user.Role, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Infow("user logged in", "userID", user.ID, "role", user.Role)
	return pair, nil
}

// Refresh rotates a refresh session: the presented value stops working in the
// same store operation that installs its replacement. The store lookup comes
// first, so arbitrary garbage never reaches signature verification.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	session, err := s.sessions.FindSession(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if _, err := s.tokens.ValidateRefreshToken(refreshToken); err != nil {
		return nil, err
	}

	// Re-fetch the owner: a user deleted, deactivated, or re-roled since
	// issuance must not keep operating through refresh.
	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	if user == nil || !user.Active || user.Role != session.Role {
		if delErr := s.sessions.DeleteSession(ctx, refreshToken); delErr != nil && !errors.Is(delErr, storage.ErrSessionNotFound) {
			s.log.Errorw("failed to drop stale session", "error", delErr, "userID", session.UserID)
		}
		s.log.Infow("refresh rejected, user state changed", "userID", session.UserID)
		return nil, ErrInvalidUserState
	}

	pair, newSession, err := s.issueTokens(user.ID, user.Role, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.sessions.ReplaceSession(ctx, refreshToken, newSession); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			// Lost a race against a concurrent rotation or revoke.
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("replace session: %w", err)
	}

	return pair, nil
}

// Revoke deletes a refresh session. An unknown token is reported rather than
// silently acknowledged, so a retried revoke of an already-removed token
// fails the same way a forged one does.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingToken
	}

	if err := s.sessions.DeleteSession(ctx, refreshToken); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return ErrRefreshTokenNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// RevokeAllForUser sweeps every outstanding session of one user, e.g. after
// an admin deactivates the account. Outstanding access tokens still run out
// on their own expiry.
func (s *AuthService) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	s.log.Infow("all sessions revoked", "userID", userID)
	return nil
}

func (s *AuthService) issueTokens(userID string, role models.Role, now time.Time) (*models.TokenPair, models.RefreshSession, error) {
	accessToken, expiresAt, err := s.tokens.CreateAccessToken(userID, role, now)
	if err != nil {
		return nil, models.RefreshSession{}, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.tokens.CreateRefreshToken(userID, role, now)
	if err != nil {
		return nil, models.RefreshSession{}, fmt.Errorf("create refresh token: %w", err)
	}

	pair := &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Unix(),
		UserID:       userID,
	}
	session := models.RefreshSession{
		RefreshToken: refreshToken,
		UserID:       userID,
		Role:         role,
	}
	return pair, session, nil
}
