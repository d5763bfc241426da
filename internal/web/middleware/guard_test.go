package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventtogether/webapp/internal/core/domain"
)

func invoke(t *testing.T, mw echo.MiddlewareFunc, target string, sess *domain.Session) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(ctxSession, *sess)
	}

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, reached
}

func TestRequireAuth_RedirectsAnonymousToLogin(t *testing.T) {
	rec, reached := invoke(t, RequireAuth(), "/profile", nil)

	if reached {
		t.Fatalf("handler must not run for anonymous visitors")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fprofile" {
		t.Fatalf("Location = %q, want login with escaped return path", loc)
	}
}

func TestRequireAuth_KeepsQueryInReturnPath(t *testing.T) {
	rec, _ := invoke(t, RequireAuth(), "/events/new?category=3", nil)

	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fevents%2Fnew%3Fcategory%3D3" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	sess := domain.Session{ID: "s1", User: &domain.User{ID: 1, Role: domain.RoleUser}}
	rec, reached := invoke(t, RequireAuth(), "/profile", &sess)

	if !reached {
		t.Fatalf("authenticated visitor must reach the handler")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireRoles_SilentlyRedirectsHome(t *testing.T) {
	sess := domain.Session{ID: "s1", User: &domain.User{ID: 1, Role: domain.RoleUser}}
	rec, reached := invoke(t, RequireRoles(domain.RoleModerator, domain.RoleAdmin), "/admin", &sess)

	if reached {
		t.Fatalf("plain user must not reach admin handlers")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("denied role must redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireRoles_AllowsListedRoles(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleModerator, domain.RoleAdmin} {
		sess := domain.Session{ID: "s1", User: &domain.User{ID: 1, Role: role}}
		_, reached := invoke(t, RequireRoles(domain.RoleModerator, domain.RoleAdmin), "/admin", &sess)
		if !reached {
			t.Fatalf("role %s must reach admin handlers", role)
		}
	}
}

func TestSafeNext(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "/"},
		{"/events/3", "/events/3"},
		{"/login?next=/x", "/login?next=/x"},
		{"https://evil.example/", "/"},
		{"//evil.example/", "/"},
		{"javascript:alert(1)", "/"},
	}
	for _, tc := range cases {
		if got := SafeNext(tc.in); got != tc.want {
			t.Errorf("SafeNext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
