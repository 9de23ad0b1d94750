package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/domain"
)

// SessionStore is a Redis-backed implementation of app.SessionRepository.
// Live sessions (with their tickers and subscribers) stay in a local map; every
// Put also writes the session snapshot to Redis so another process, or this one
// after a restart, can resume the attempt until the TTL runs out.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(ctx context.Context, session *app.Session) error {
	payload, err := json.Marshal(session.State())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID()), payload, s.ttl).Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) LoadSnapshot(ctx context.Context, sessionID string) (app.SessionState, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.SessionState{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return app.SessionState{}, err
	}
	var state app.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return app.SessionState{}, fmt.Errorf("decode snapshot %s: %w", sessionID, err)
	}
	return state, nil
}

// Detach forgets the live session but keeps its snapshot so it can be resumed.
func (s *SessionStore) Detach(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.Detach(sessionID)
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
