package storage

import (
	"context"
	"errors"

	"github.com/classhub/authcore/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUserNotFound    = errors.New("user not found")
)

// SessionRepository is the registry of outstanding refresh sessions, keyed by
// token value. Implementations must serialize mutations: ReplaceSession is a
// compare-and-swap on the old token, so of two concurrent rotations of the
// same token exactly one wins and the loser sees ErrSessionNotFound.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.RefreshSession) error
	FindSession(ctx context.Context, refreshToken string) (*models.RefreshSession, error)
	ReplaceSession(ctx context.Context, oldToken string, session models.RefreshSession) error
	DeleteSession(ctx context.Context, refreshToken string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
}

// UserRepository is the narrow contract this core consumes from the external
// user store.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
