package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
)

type stubStore struct {
	tokens map[string]string
	ttls   map[string]time.Duration
	users  map[string]*domain.User
}

func newStubStore() *stubStore {
	return &stubStore{
		tokens: make(map[string]string),
		ttls:   make(map[string]time.Duration),
		users:  make(map[string]*domain.User),
	}
}

func (s *stubStore) SaveToken(_ context.Context, sid, token string, ttl time.Duration) error {
	s.tokens[sid] = token
	s.ttls[sid] = ttl
	return nil
}

func (s *stubStore) Token(_ context.Context, sid string) (string, error) {
	return s.tokens[sid], nil
}

func (s *stubStore) SaveUser(_ context.Context, sid string, user *domain.User) error {
	clone := *user
	s.users[sid] = &clone
	return nil
}

func (s *stubStore) User(_ context.Context, sid string) (*domain.User, error) {
	u := s.users[sid]
	if u == nil {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *stubStore) Destroy(_ context.Context, sid string) error {
	delete(s.tokens, sid)
	delete(s.ttls, sid)
	delete(s.users, sid)
	return nil
}

type stubAPI struct {
	loginToken string
	loginErr   error
	profile    *domain.User
	profileErr error
	updated    *domain.User
	updateErr  error
	calls      []string
}

func (a *stubAPI) Login(_ context.Context, _, _ string) (string, error) {
	a.calls = append(a.calls, "login")
	return a.loginToken, a.loginErr
}

func (a *stubAPI) Register(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
	a.calls = append(a.calls, "register")
	return a.profile, a.profileErr
}

func (a *stubAPI) Profile(_ context.Context, _ string) (*domain.User, error) {
	a.calls = append(a.calls, "profile")
	if a.profileErr != nil {
		return nil, a.profileErr
	}
	clone := *a.profile
	return &clone, nil
}

func (a *stubAPI) UpdateProfile(_ context.Context, _ string, _ domain.ProfileChanges) (*domain.User, error) {
	a.calls = append(a.calls, "update")
	if a.updateErr != nil {
		return nil, a.updateErr
	}
	clone := *a.updated
	return &clone, nil
}

func alice() *domain.User {
	return &domain.User{ID: 1, Email: "a@b.com", Name: "Y", Role: domain.RoleUser}
}

func newService(store *stubStore, api *stubAPI) *SessionService {
	return NewSessionService(store, api, time.Hour, zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	store := newStubStore()
	api := &stubAPI{loginToken: "tok-123", profile: alice()}
	svc := newService(store, api)

	user, err := svc.Login(context.Background(), "sid", "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != 1 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if store.tokens["sid"] != "tok-123" {
		t.Fatalf("persisted token = %q, want the token the login call returned", store.tokens["sid"])
	}
	// The profile fetch must complete before Login resolves.
	if len(api.calls) != 2 || api.calls[0] != "login" || api.calls[1] != "profile" {
		t.Fatalf("unexpected call sequence: %v", api.calls)
	}

	sess := svc.Resolve(context.Background(), "sid")
	if !sess.Authenticated() {
		t.Fatalf("session must be authenticated after login")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	store := newStubStore()
	api := &stubAPI{loginErr: &domain.APIError{Status: 401, Detail: "Incorrect email or password"}}
	svc := newService(store, api)

	_, err := svc.Login(context.Background(), "sid", "a@b.com", "wrong")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := domain.ErrorMessage(err, "Login failed"); got != "Incorrect email or password" {
		t.Fatalf("message = %q, want backend detail", got)
	}
	if store.tokens["sid"] != "" {
		t.Fatalf("no token must be stored on credential failure")
	}
}

// A token that was persisted but whose profile fetch failed must be rolled
// back: no partial success state.
func TestLogin_ProfileFetchFails(t *testing.T) {
	store := newStubStore()
	api := &stubAPI{loginToken: "tok-123", profileErr: errors.New("boom")}
	svc := newService(store, api)

	user, err := svc.Login(context.Background(), "sid", "a@b.com", "secret")
	if err == nil {
		t.Fatalf("expected error")
	}
	if user != nil {
		t.Fatalf("no user on failed login")
	}
	if store.tokens["sid"] != "" {
		t.Fatalf("token must be rolled back when the profile fetch fails")
	}
	if sess := svc.Resolve(context.Background(), "sid"); sess.Authenticated() {
		t.Fatalf("session must stay unauthenticated")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := newStubStore()
	api := &stubAPI{loginToken: "tok", profile: alice()}
	svc := newService(store, api)

	if _, err := svc.Login(context.Background(), "sid", "a@b.com", "s"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Logout(context.Background(), "sid"); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := svc.Logout(context.Background(), "sid"); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if sess := svc.Resolve(context.Background(), "sid"); sess.Authenticated() {
		t.Fatalf("user must be gone after logout")
	}
	if store.tokens["sid"] != "" {
		t.Fatalf("token must be gone after logout")
	}
}

func TestResolve_NoToken(t *testing.T) {
	svc := newService(newStubStore(), &stubAPI{})
	sess := svc.Resolve(context.Background(), "sid")
	if sess.Authenticated() {
		t.Fatalf("anonymous session must be unauthenticated")
	}
	if sess.Role() != domain.RoleGuest {
		t.Fatalf("anonymous role = %s, want guest", sess.Role())
	}
}

func TestResolve_CachedUserSkipsProfileFetch(t *testing.T) {
	store := newStubStore()
	store.tokens["sid"] = "tok"
	store.users["sid"] = alice()
	api := &stubAPI{}
	svc := newService(store, api)

	sess := svc.Resolve(context.Background(), "sid")
	if !sess.Authenticated() {
		t.Fatalf("cached user must authenticate the session")
	}
	if len(api.calls) != 0 {
		t.Fatalf("no upstream call expected, got %v", api.calls)
	}
}

// A stored token that fails to resolve is treated as invalid: the session
// is destroyed rather than retried.
func TestResolve_StaleTokenForcesLogout(t *testing.T) {
	store := newStubStore()
	store.tokens["sid"] = "stale"
	api := &stubAPI{profileErr: &domain.APIError{Status: 401}}
	svc := newService(store, api)

	sess := svc.Resolve(context.Background(), "sid")
	if sess.Authenticated() {
		t.Fatalf("stale token must not authenticate")
	}
	if store.tokens["sid"] != "" {
		t.Fatalf("stale token must be removed")
	}
}

func TestUpdateProfile_MergesCachedUser(t *testing.T) {
	store := newStubStore()
	store.tokens["sid"] = "tok"
	store.users["sid"] = alice()
	name := "X"
	api := &stubAPI{updated: &domain.User{ID: 1, Email: "a@b.com", Name: name, Role: domain.RoleUser}}
	svc := newService(store, api)

	merged, err := svc.UpdateProfile(context.Background(), "sid", domain.ProfileChanges{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	want := domain.User{ID: 1, Email: "a@b.com", Name: "X", Role: domain.RoleUser}
	if *merged != want {
		t.Fatalf("merged user = %+v, want %+v", *merged, want)
	}
	if got := store.users["sid"]; *got != want {
		t.Fatalf("cached user = %+v, want %+v", *got, want)
	}
}

func TestUpdateProfile_NoCachedUserIsMergeNoop(t *testing.T) {
	store := newStubStore()
	store.tokens["sid"] = "tok"
	name := "X"
	api := &stubAPI{updated: &domain.User{ID: 1, Name: name, Role: domain.RoleUser}}
	svc := newService(store, api)

	if _, err := svc.UpdateProfile(context.Background(), "sid", domain.ProfileChanges{Name: &name}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if store.users["sid"] != nil {
		t.Fatalf("merge must be a no-op when no user is cached")
	}
}

func TestUpdateProfile_Unauthenticated(t *testing.T) {
	svc := newService(newStubStore(), &stubAPI{})
	name := "X"
	_, err := svc.UpdateProfile(context.Background(), "sid", domain.ProfileChanges{Name: &name})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLogin_SessionTTLFollowsTokenExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("building token: %v", err)
	}

	store := newStubStore()
	api := &stubAPI{loginToken: token, profile: alice()}
	svc := newService(store, api)

	if _, err := svc.Login(context.Background(), "sid", "a@b.com", "s"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	ttl := store.ttls["sid"]
	if ttl <= 29*time.Minute || ttl > 30*time.Minute {
		t.Fatalf("session ttl = %v, want about 30m from the token exp claim", ttl)
	}
}

func TestLogin_OpaqueTokenGetsDefaultTTL(t *testing.T) {
	store := newStubStore()
	api := &stubAPI{loginToken: "not-a-jwt", profile: alice()}
	svc := newService(store, api)

	if _, err := svc.Login(context.Background(), "sid", "a@b.com", "s"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if ttl := store.ttls["sid"]; ttl != time.Hour {
		t.Fatalf("session ttl = %v, want the configured default", ttl)
	}
}
