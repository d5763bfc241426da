package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL}, zerolog.Nop()), srv
}

func TestBearerAttachment(t *testing.T) {
	var got string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"email":"a@b.com","name":"A","role":"user"}`))
	})

	if _, err := client.WithToken("tok-1").Profile(context.Background()); err != nil {
		t.Fatalf("profile call failed: %v", err)
	}
	if got != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want bearer token", got)
	}
}

func TestNoBearerWithoutToken(t *testing.T) {
	var got string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	if _, err := client.Events(context.Background(), EventFilter{}); err != nil {
		t.Fatalf("events call failed: %v", err)
	}
	if got != "" {
		t.Fatalf("unauthenticated request must carry no Authorization header, got %q", got)
	}
}

func TestLogin_SendsFormEncodedCredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "a@b.com" || r.PostFormValue("password") != "s3cret" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-9","token_type":"bearer"}`))
	})

	token, err := client.Login(context.Background(), "a@b.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "tok-9" {
		t.Fatalf("token = %q, want tok-9", token)
	}
}

// Any 401 must fire the expiry hook before the caller sees the error,
// regardless of which endpoint produced it.
func TestUnauthorizedInterceptor(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized)
	})

	fired := false
	bound := client.WithToken("expired").OnAuthExpired(func() { fired = true })

	_, err := bound.Groups(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if !fired {
		t.Fatalf("expiry hook must fire on 401")
	}

	fired = false
	err = bound.JoinGroup(context.Background(), 7)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated from a different endpoint, got %v", err)
	}
	if !fired {
		t.Fatalf("expiry hook must fire for every 401, not just some endpoints")
	}
}

func TestErrorDetailExtraction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	})

	_, err := client.Register(context.Background(), ports.RegisterInput{Email: "a@b.com", Password: "x"})
	var ae *domain.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Status != http.StatusConflict || ae.Detail != "Email already registered" {
		t.Fatalf("unexpected APIError: %+v", ae)
	}
	if got := domain.ErrorMessage(err, "Registration failed"); got != "Email already registered" {
		t.Fatalf("message = %q", got)
	}
}

func TestErrorWithoutDetailFallsBack(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("plain text panic page"))
	})

	_, err := client.Event(context.Background(), 5)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := domain.ErrorMessage(err, "Something broke"); got != "Something broke" {
		t.Fatalf("message = %q, want the generic fallback", got)
	}
}

// The update surface mirrors the backend's editable resources one method
// per endpoint; each request must hit the right method and path and decode
// the returned representation.
func TestUpdateEndpoints(t *testing.T) {
	var method, path string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"updated"}`))
	})
	authed := client.WithToken("tok")
	ctx := context.Background()

	cases := []struct {
		name       string
		call       func() error
		wantMethod string
		wantPath   string
	}{
		{
			"UpdateGroup",
			func() error {
				group, err := authed.UpdateGroup(ctx, 7, GroupInput{Name: "updated", MaxMembers: 5})
				if err == nil && group.Name != "updated" {
					t.Errorf("group name = %q", group.Name)
				}
				return err
			},
			http.MethodPut, "/groups/7",
		},
		{
			"UpdateCategory",
			func() error {
				_, err := authed.UpdateCategory(ctx, 7, CategoryInput{Name: "updated"})
				return err
			},
			http.MethodPut, "/categories/7",
		},
		{
			"AdminUser",
			func() error {
				_, err := authed.AdminUser(ctx, 7)
				return err
			},
			http.MethodGet, "/admin/users/7",
		},
		{
			"AdminUpdateEvent",
			func() error {
				_, err := authed.AdminUpdateEvent(ctx, 7, EventInput{Title: "updated"})
				return err
			},
			http.MethodPut, "/admin/events/7",
		},
		{
			"AdminUpdateGroup",
			func() error {
				_, err := authed.AdminUpdateGroup(ctx, 7, GroupInput{Name: "updated"})
				return err
			},
			http.MethodPut, "/admin/groups/7",
		},
	}
	for _, tc := range cases {
		if err := tc.call(); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if method != tc.wantMethod || path != tc.wantPath {
			t.Fatalf("%s: sent %s %s, want %s %s", tc.name, method, path, tc.wantMethod, tc.wantPath)
		}
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Event not found"}`))
	})

	_, err := client.Event(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
