package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"blogplatform/internal/model"
)

const (
	// sessionKeyPrefix is the key prefix for server-side session records
	sessionKeyPrefix = "session:"

	// flashKeySuffix is appended to a session key for its flash message list
	flashKeySuffix = ":flash"
)

// Store is the server-side session store. The browser only ever holds a
// signed token referencing a session ID; the binding to a user lives here.
// Sessions with user ID 0 are anonymous (pre-login, carrying flashes only).
type Store interface {
	// Create opens a new session bound to userID and returns the signed
	// cookie token for it. userID 0 creates an anonymous session.
	Create(ctx context.Context, userID int64) (string, error)

	// UserID resolves a cookie token to the session's user ID.
	// Returns model.ErrSessionNotFound for expired, destroyed or forged tokens.
	UserID(ctx context.Context, token string) (int64, error)

	// Destroy invalidates the session referenced by the token.
	// Idempotent: destroying a dead session is not an error.
	Destroy(ctx context.Context, token string) error

	// AddFlash queues a one-shot status message on the session.
	AddFlash(ctx context.Context, token string, flash model.Flash) error

	// PopFlashes returns and clears the session's queued flashes.
	PopFlashes(ctx context.Context, token string) ([]model.Flash, error)
}

// RedisStore implements Store using Redis string/list records with a TTL.
type RedisStore struct {
	client *redis.Client
	secret string
	maxAge time.Duration
}

// NewRedisStore creates a Store backed by Redis. secret signs the cookie
// tokens, maxAge bounds both the token and the server-side record.
func NewRedisStore(client *redis.Client, secret string, maxAge time.Duration) *RedisStore {
	return &RedisStore{client: client, secret: secret, maxAge: maxAge}
}

func sessionKey(sid string) string {
	return sessionKeyPrefix + sid
}

func flashKey(sid string) string {
	return sessionKeyPrefix + sid + flashKeySuffix
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.New().String()

	err := s.client.Set(ctx, sessionKey(sid), strconv.FormatInt(userID, 10), s.maxAge).Err()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	token, err := signToken(s.secret, sid, s.maxAge)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return token, nil
}

func (s *RedisStore) UserID(ctx context.Context, token string) (int64, error) {
	sid, err := parseToken(s.secret, token)
	if err != nil {
		return 0, model.ErrSessionNotFound
	}

	val, err := s.client.Get(ctx, sessionKey(sid)).Result()
	if err == redis.Nil {
		return 0, model.ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse session user id: %w", err)
	}

	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	sid, err := parseToken(s.secret, token)
	if err != nil {
		// A token we cannot verify references no live session. Nothing to do.
		return nil
	}

	if err := s.client.Del(ctx, sessionKey(sid), flashKey(sid)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	return nil
}

func (s *RedisStore) AddFlash(ctx context.Context, token string, flash model.Flash) error {
	sid, err := parseToken(s.secret, token)
	if err != nil {
		return model.ErrSessionNotFound
	}

	data, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, flashKey(sid), data)
	pipe.Expire(ctx, flashKey(sid), s.maxAge)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue flash: %w", err)
	}

	return nil
}

func (s *RedisStore) PopFlashes(ctx context.Context, token string) ([]model.Flash, error) {
	sid, err := parseToken(s.secret, token)
	if err != nil {
		return nil, model.ErrSessionNotFound
	}

	key := flashKey(sid)

	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}

	raw := rangeCmd.Val()
	flashes := make([]model.Flash, 0, len(raw))
	for _, item := range raw {
		var f model.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			return nil, fmt.Errorf("unmarshal flash: %w", err)
		}
		flashes = append(flashes, f)
	}

	return flashes, nil
}
