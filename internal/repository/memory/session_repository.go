package memory

import (
	"context"
	"fmt"
	"nextGamePoints/domain"
	"sync"
	"time"
)

type sessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionRepository keeps dashboard sessions in process memory. Every save
// pushes the expiry forward by ttl.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = sessionEntry{
		session:   session.Clone(),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

// SaveKeepTTL replaces a stored session but leaves its expiry untouched.
func (r *SessionRepository) SaveKeepTTL(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[session.ID]
	if !ok || !r.now().Before(entry.expiresAt) {
		return domain.ErrSessionNotFound
	}
	entry.session = session.Clone()
	r.sessions[session.ID] = entry
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || !r.now().Before(entry.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}

	s := entry.session.Clone()
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// PurgeExpired drops sessions past their ttl and returns how many were removed.
func (r *SessionRepository) PurgeExpired(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}

func (r *SessionRepository) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}
