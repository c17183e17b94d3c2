// Package session provides the redis-backed shopper session store. A session
// is a bag of JSON values keyed under one redis hash per session ID; its
// lifetime is the cookie/TTL window. Concurrent mutation of the same session
// is serialized here per operation; callers that read-modify-write (the cart
// handlers) rely on the serving layer handling one request per session at a
// time.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storefront_backend/platform/config"
)

// ContextKey is the gin context key holding the *Session.
const ContextKey = "session"

// Store issues and loads shopper sessions.
type Store struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewStore creates a session store over the given redis client.
func NewStore(client *redis.Client, cfg config.SessionConfig) *Store {
	return &Store{
		client:     client,
		cookieName: cfg.GetSessionCookieName(),
		ttl:        cfg.GetSessionTTL(),
		secure:     cfg.GetSessionCookieSecure(),
	}
}

// Session is a handle on one shopper's server-side state.
type Session struct {
	ID    string
	store *Store
}

func (s *Store) key(sid string) string {
	return "session:" + sid
}

// Middleware ensures the request carries a session cookie and attaches the
// Session handle to the gin context. A new session ID is issued when the
// cookie is absent; the server-side hash is created lazily on first Set.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(s.cookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(s.cookieName, sid, int(s.ttl.Seconds()), "/", "", s.secure, true)
		}
		c.Set(ContextKey, &Session{ID: sid, store: s})
		c.Next()
	}
}

// FromContext extracts the Session attached by Middleware.
func FromContext(c *gin.Context) (*Session, bool) {
	value, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*Session)
	return sess, ok
}

// Open returns a session handle for a known ID without cookie handling,
// used by background consumers and tests.
func (s *Store) Open(id string) *Session {
	return &Session{ID: id, store: s}
}

// Get loads the JSON value stored under key into dest. The boolean reports
// whether the key was present.
func (sess *Session) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := sess.store.client.HGet(ctx, sess.store.key(sess.ID), key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session get %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("session decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key as JSON and refreshes the session TTL.
func (sess *Session) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session encode %q: %w", key, err)
	}

	redisKey := sess.store.key(sess.ID)
	pipe := sess.store.client.TxPipeline()
	pipe.HSet(ctx, redisKey, key, raw)
	pipe.Expire(ctx, redisKey, sess.store.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (sess *Session) Delete(ctx context.Context, key string) error {
	if err := sess.store.client.HDel(ctx, sess.store.key(sess.ID), key).Err(); err != nil {
		return fmt.Errorf("session delete %q: %w", key, err)
	}
	return nil
}

// PopString atomically reads and removes a string value, used for
// flash-style values that must survive exactly one render.
func (sess *Session) PopString(ctx context.Context, key string) (string, error) {
	var value string
	found, err := sess.Get(ctx, key, &value)
	if err != nil || !found {
		return "", err
	}
	if err := sess.Delete(ctx, key); err != nil {
		return "", err
	}
	return value, nil
}
