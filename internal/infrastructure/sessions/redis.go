// Package sessions persists per-browser-session state in Redis: one access
// token and one cached user per session ID, nothing else durable.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventtogether/webapp/internal/core/domain"
)

const (
	defaultTTL     = 24 * time.Hour
	connectTimeout = 5 * time.Second
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr string
	DB   int
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Store implements ports.SessionStore and ports.FlashStore on Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wraps a Redis client. A ttl <= 0 falls back to the default
// session lifetime.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func tokenKey(sid string) string { return "sess:" + sid + ":token" }
func userKey(sid string) string  { return "sess:" + sid + ":user" }
func flashKey(sid string) string { return "sess:" + sid + ":flash" }

func (s *Store) SaveToken(ctx context.Context, sid, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	if err := s.client.Set(ctx, tokenKey(sid), token, ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Store) Token(ctx context.Context, sid string) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// SaveUser caches the user for as long as the token lives, so a cached
// profile can never outlive its session.
func (s *Store) SaveUser(ctx context.Context, sid string, user *domain.User) error {
	buf, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	ttl, err := s.client.TTL(ctx, tokenKey(sid)).Result()
	if err != nil || ttl <= 0 {
		ttl = s.ttl
	}
	if err := s.client.Set(ctx, userKey(sid), buf, ttl).Err(); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Store) User(ctx context.Context, sid string) (*domain.User, error) {
	buf, err := s.client.Get(ctx, userKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(buf, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (s *Store) Destroy(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, tokenKey(sid), userKey(sid)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// SaveFlash stores one transient notice; Redis expiry replaces the UI
// timer that would clear it client-side.
func (s *Store) SaveFlash(ctx context.Context, sid, message string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	if err := s.client.Set(ctx, flashKey(sid), message, ttl).Err(); err != nil {
		return fmt.Errorf("save flash: %w", err)
	}
	return nil
}

// Flash returns and consumes the pending notice.
func (s *Store) Flash(ctx context.Context, sid string) (string, error) {
	message, err := s.client.GetDel(ctx, flashKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load flash: %w", err)
	}
	return message, nil
}
