package memory

import (
	"context"
	"time"

	"darwinian-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ store.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Expired sessions are purged every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	// Store a copy so callers cannot mutate cached state without saving
	cp := *session
	cp.History = append([]store.Exchange(nil), session.History...)
	r.cache.Set(session.ID, &cp, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		cp := *x.(*store.Session)
		cp.History = append([]store.Exchange(nil), cp.History...)
		return &cp, nil
	}
	return nil, store.ErrSessionNotFound
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
