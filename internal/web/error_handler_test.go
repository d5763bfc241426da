package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/web/view"
)

func newErrorEcho(t *testing.T, err error) *echo.Echo {
	t.Helper()

	renderer, rerr := view.New()
	if rerr != nil {
		t.Fatalf("renderer: %v", rerr)
	}
	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(echo.Context) error { return err })
	return e
}

func TestErrorHandler_UnauthenticatedRedirectsToLogin(t *testing.T) {
	e := newErrorEcho(t, &domain.APIError{Status: http.StatusUnauthorized, Detail: "Could not validate credentials"})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q, want /login", loc)
	}
}

func TestErrorHandler_ForbiddenRedirectsHome(t *testing.T) {
	e := newErrorEcho(t, domain.ErrForbidden)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("Location = %q, want /", loc)
	}
}

func TestErrorHandler_NotFoundRendersErrorPage(t *testing.T) {
	e := newErrorEcho(t, &domain.APIError{Status: http.StatusNotFound, Detail: "Event not found"})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "That page or record does not exist.") {
		t.Fatalf("expected the not-found message on the error page")
	}
}

func TestErrorHandler_UpstreamFailureBecomesBadGateway(t *testing.T) {
	e := newErrorEcho(t, &domain.APIError{Status: http.StatusInternalServerError, Detail: "boom"})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("expected the upstream detail on the error page")
	}
}
