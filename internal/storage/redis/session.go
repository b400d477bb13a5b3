package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/classhub/authcore/internal/models"
	"github.com/classhub/authcore/internal/storage"
)

const (
	sessionKeyPrefix = "session:"
	userSetKeyPrefix = "user_sessions:"
)

// SessionRepository is the durable SessionStore backing. Keys carry the
// refresh TTL so abandoned sessions age out on their own.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userSetKey(userID string) string {
	return userSetKeyPrefix + userID
}

func (r *SessionRepository) CreateSession(ctx context.Context, session models.RefreshSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.RefreshToken), payload, r.ttl)
	pipe.SAdd(ctx, userSetKey(session.UserID), session.RefreshToken)
	pipe.Expire(ctx, userSetKey(session.UserID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindSession(ctx context.Context, refreshToken string) (*models.RefreshSession, error) {
	payload, err := r.client.Get(ctx, sessionKey(refreshToken)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session models.RefreshSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// ReplaceSession rotates oldToken to the new session under WATCH. If another
// request rotates or revokes the same token first, the transaction aborts and
// the caller sees ErrSessionNotFound.
func (r *SessionRepository) ReplaceSession(ctx context.Context, oldToken string, session models.RefreshSession) error {
	oldKey := sessionKey(oldToken)

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		if err := tx.Get(ctx, oldKey).Err(); errors.Is(err, redis.Nil) {
			return storage.ErrSessionNotFound
		} else if err != nil {
			return fmt.Errorf("get old session: %w", err)
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, oldKey)
			pipe.SRem(ctx, userSetKey(session.UserID), oldToken)
			pipe.Set(ctx, sessionKey(session.RefreshToken), payload, r.ttl)
			pipe.SAdd(ctx, userSetKey(session.UserID), session.RefreshToken)
			pipe.Expire(ctx, userSetKey(session.UserID), r.ttl)
			return nil
		})
		return err
	}

	err = r.client.Watch(ctx, txf, oldKey)
	if errors.Is(err, redis.TxFailedErr) {
		return storage.ErrSessionNotFound
	}
	return err
}

func (r *SessionRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	session, err := r.FindSession(ctx, refreshToken)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(refreshToken))
	pipe.SRem(ctx, userSetKey(session.UserID), refreshToken)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteAllUserSessions(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userSetKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
