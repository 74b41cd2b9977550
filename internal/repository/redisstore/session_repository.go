package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darwinian-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "darwin:session:"

// SessionRepository keeps sessions in Redis so several API instances can
// serve the same session.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ store.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("redis decode session: %w", err)
	}

	// Sliding expiration, like the in-memory store refreshes on save
	r.client.Expire(ctx, keyPrefix+sessionID, r.ttl)
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}
