// Package redis holds the Redis-backed infrastructure: session liveness
// markers, pack caching, the replicated live-session document store, and
// the winnings leaderboard.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ismailukman/millionaire-live/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - It still keeps a local in-memory map of sessions to reuse the
//     in-process snapshot/broadcast machinery.
//   - Redis marks session liveness so operators can enumerate running games
//     across instances; cross-instance state flows through the document
//     store, not through this marker.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
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

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), "1", s.ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

// Touch refreshes the liveness marker for a running session.
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	return s.client.Set(ctx, s.key(id), "1", s.ttl).Err()
}

func (s *SessionStore) key(id string) string {
	return "game:session:" + id
}
