package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
	"github.com/eventtogether/webapp/internal/metrics"
)

// SessionService implements the auth lifecycle over a token store and the
// upstream account API.
type SessionService struct {
	store      ports.SessionStore
	api        ports.AccountAPI
	defaultTTL time.Duration
	log        zerolog.Logger
}

func NewSessionService(store ports.SessionStore, api ports.AccountAPI, defaultTTL time.Duration, log zerolog.Logger) *SessionService {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &SessionService{store: store, api: api, defaultTTL: defaultTTL, log: log}
}

// Resolve materialises the session for a request. No token means guest. A
// token that fails to resolve to a profile is assumed invalid rather than
// retried: the session is destroyed and the visitor continues as guest.
func (s *SessionService) Resolve(ctx context.Context, sid string) domain.Session {
	sess := domain.Session{ID: sid}

	token, err := s.store.Token(ctx, sid)
	if err != nil {
		s.log.Warn().Err(err).Str("sid", sid).Msg("session store unreachable, treating as guest")
		return sess
	}
	if token == "" {
		return sess
	}

	if user, err := s.store.User(ctx, sid); err == nil && user != nil {
		sess.User = user
		return sess
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		s.log.Info().Err(err).Str("sid", sid).Msg("stored token failed to resolve, logging out")
		_ = s.store.Destroy(ctx, sid)
		return sess
	}

	if err := s.store.SaveUser(ctx, sid, user); err != nil {
		s.log.Warn().Err(err).Str("sid", sid).Msg("failed to cache user")
	}
	sess.User = user
	return sess
}

// Login exchanges credentials for a token, persists it, then fetches the
// profile. The profile fetch must succeed before Login reports success; on
// its failure the freshly persisted token is rolled back so no partial
// session remains.
func (s *SessionService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("credentials").Inc()
		return nil, err
	}

	if err := s.store.SaveToken(ctx, sid, token, s.sessionTTL(token)); err != nil {
		return nil, err
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("profile").Inc()
		_ = s.store.Destroy(ctx, sid)
		return nil, err
	}

	if err := s.store.SaveUser(ctx, sid, user); err != nil {
		s.log.Warn().Err(err).Str("sid", sid).Msg("failed to cache user after login")
	}

	metrics.SessionsStartedTotal.Inc()
	s.log.Info().Str("sid", sid).Str("role", string(user.Role)).Msg("login succeeded")
	return user, nil
}

// Register creates the account upstream. No auto-login.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.api.Register(ctx, in)
}

// Logout destroys the session. Safe to call on an already-anonymous
// session.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	return s.store.Destroy(ctx, sid)
}

// UpdateProfile writes the partial update upstream, then shallow-merges it
// into the cached user so pages see the change without a re-fetch. When no
// user is cached the merge is a no-op and the upstream representation is
// returned as-is.
func (s *SessionService) UpdateProfile(ctx context.Context, sid string, changes domain.ProfileChanges) (*domain.User, error) {
	token, err := s.store.Token(ctx, sid)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	updated, err := s.api.UpdateProfile(ctx, token, changes)
	if err != nil {
		return nil, err
	}

	cached, err := s.store.User(ctx, sid)
	if err != nil || cached == nil {
		return updated, nil
	}

	merged := cached.Merge(changes)
	if err := s.store.SaveUser(ctx, sid, &merged); err != nil {
		s.log.Warn().Err(err).Str("sid", sid).Msg("failed to cache merged user")
	}
	return &merged, nil
}

// sessionTTL aligns the session lifetime with the token's exp claim so the
// store forgets the token around the time the backend stops accepting it.
// The token is not verified here; only the backend can do that.
func (s *SessionService) sessionTTL(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.defaultTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.defaultTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return s.defaultTTL
	}
	return ttl
}
