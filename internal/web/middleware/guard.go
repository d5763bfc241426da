package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/rbac"
)

// RequireAuth redirects unauthenticated visitors to the login page,
// carrying the originally requested location so login can return them
// afterwards. Must run after Session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentSession(c).Authenticated() {
				return c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			}
			return next(c)
		}
	}
}

// RequireRoles redirects visitors whose role is not in the allow-list to
// the home page. The denial is silent: no error is surfaced. Must run
// after RequireAuth.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rbac.HasRole(CurrentSession(c).Role(), allowed...) {
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}

// SafeNext validates a post-login return path taken from the next query
// parameter. Only same-origin absolute paths are accepted; anything else
// falls back to the home page.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
