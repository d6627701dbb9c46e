package memory

import (
	"time"

	"kviz/internal/app"

	"github.com/patrickmn/go-cache"
)

// SessionStore is an in-memory implementation of app.SessionRepository. A session
// expires ttl after it could at the latest have finished, and is abandoned on
// eviction, so a running session is never evicted.
type SessionStore struct {
	ttl      time.Duration
	sessions *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	c := cache.New(ttl, ttl/2+time.Second)
	c.OnEvicted(func(_ string, v interface{}) {
		if session, ok := v.(*app.Session); ok {
			session.Abandon()
		}
	})
	return &SessionStore{ttl: ttl, sessions: c}
}

func (s *SessionStore) Save(session *app.Session) {
	s.sessions.Set(session.ID(), session, s.ttl+session.MaxDuration())
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	v, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*app.Session), true
}

func (s *SessionStore) Delete(sessionID string) {
	s.sessions.Delete(sessionID)
}

// Len reports how many sessions are live.
func (s *SessionStore) Len() int {
	return s.sessions.ItemCount()
}
