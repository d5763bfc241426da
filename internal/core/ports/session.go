package ports

import (
	"context"
	"time"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// SessionStore persists the per-browser-session state: exactly one token
// string under a fixed key per session, plus the cached user projection.
// No other durable client-side state exists.
type SessionStore interface {
	// SaveToken stores the access token for a session. A ttl <= 0 means
	// the store's default lifetime.
	SaveToken(ctx context.Context, sid, token string, ttl time.Duration) error
	// Token returns the stored token, or "" when the session has none.
	Token(ctx context.Context, sid string) (string, error)
	// SaveUser caches the fetched user alongside the token so pages do
	// not re-fetch the profile on every request.
	SaveUser(ctx context.Context, sid string, user *domain.User) error
	// User returns the cached user, or nil when none is cached.
	User(ctx context.Context, sid string) (*domain.User, error)
	// Destroy removes token and cached user. Destroying an absent
	// session is not an error.
	Destroy(ctx context.Context, sid string) error
}

// FlashStore holds one transient notice per session, expiring on its own
// after a short delay so stale messages never outlive the view that
// produced them.
type FlashStore interface {
	SaveFlash(ctx context.Context, sid, message string, ttl time.Duration) error
	// Flash returns and consumes the pending message, "" when none.
	Flash(ctx context.Context, sid string) (string, error)
}

// SessionService is the single source of truth for "who is logged in",
// exposed to every page through the request context.
type SessionService interface {
	// Resolve materialises the session for a request. A token that fails
	// to resolve to a profile destroys the session and yields a guest;
	// Resolve itself never fails.
	Resolve(ctx context.Context, sid string) domain.Session
	// Login exchanges credentials for a token, persists it, then fetches
	// the profile. It succeeds only if both calls succeed and leaves no
	// partial state behind on failure.
	Login(ctx context.Context, sid, email, password string) (*domain.User, error)
	// Register creates an account upstream. It does not log the user in.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Logout destroys the session. Idempotent, no upstream call.
	Logout(ctx context.Context, sid string) error
	// UpdateProfile writes a partial profile update upstream and merges
	// it into the cached user, avoiding a redundant re-fetch.
	UpdateProfile(ctx context.Context, sid string, changes domain.ProfileChanges) (*domain.User, error)
}
