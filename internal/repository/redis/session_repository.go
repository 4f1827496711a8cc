package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"nextGamePoints/domain"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores dashboard sessions as JSON documents that expire
// on their own after ttl of inactivity.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	// key format: "session:{session_id}"
	return sessionKeyPrefix + id
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = r.client.Set(ctx, sessionKey(session.ID), jsonData, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

// SaveKeepTTL overwrites an existing session and keeps the key's remaining TTL.
func (r *SessionRepository) SaveKeepTTL(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = r.client.SetArgs(ctx, sessionKey(session.ID), jsonData, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err != nil {
		if err == redis.Nil {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires keys by itself.
func (r *SessionRepository) PurgeExpired(ctx context.Context) (int, error) {
	return 0, nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	ids, err := r.IDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (r *SessionRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), sessionKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return ids, nil
}
