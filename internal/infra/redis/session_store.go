package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"heresy-trivia-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions themselves stay in process memory (timers and subscriber
// channels cannot cross the wire); Redis marks liveness so operators can
// see active games and a future multi-instance router could steer clients.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.GameSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.GameSession),
	}
}

func (s *SessionStore) Put(session *app.GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.PlayerID(), s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.GameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "game:session:" + sessionID
}
