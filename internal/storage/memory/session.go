package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/storage"
)

// InMemorySessionManager keeps refresh sessions in a process-local map keyed
// by token value. A process restart invalidates every outstanding session;
// the redis repository exists for deployments that care.
type InMemorySessionManager struct {
	mu       sync.Mutex
	sessions map[string]models.RefreshSession
	log      *zap.SugaredLogger
}

func NewSessionRepository(log *zap.SugaredLogger) *InMemorySessionManager {
	return &InMemorySessionManager{
		sessions: make(map[string]models.RefreshSession),
		log:      log,
	}
}

func (m *InMemorySessionManager) CreateSession(_ context.Context, session models.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.RefreshToken] = session
	m.log.Debugw("session created", "userID", session.UserID, "role", session.Role)

	return nil
}

func (m *InMemorySessionManager) FindSession(_ context.Context, refreshToken string) (*models.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[refreshToken]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	return &session, nil
}

// ReplaceSession swaps oldToken for the new session under one lock, so the
// old value stops resolving in the same step that installs the new one.
func (m *InMemorySessionManager) ReplaceSession(_ context.Context, oldToken string, session models.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[oldToken]; !ok {
		return storage.ErrSessionNotFound
	}
	delete(m.sessions, oldToken)
	m.sessions[session.RefreshToken] = session
	m.log.Debugw("session rotated", "userID", session.UserID)

	return nil
}

func (m *InMemorySessionManager) DeleteSession(_ context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[refreshToken]; !ok {
		return storage.ErrSessionNotFound
	}
	delete(m.sessions, refreshToken)

	return nil
}

func (m *InMemorySessionManager) DeleteAllUserSessions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, token)
		}
	}

	return nil
}
