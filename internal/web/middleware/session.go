package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/metrics"
)

const (
	ctxSession = "session"
	ctxAPI     = "api"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName string
	Secure     bool
}

// Session resolves the session cookie into a domain.Session and a
// token-bound upstream client for every request. Visitors without a cookie
// get a fresh session ID; the session stays anonymous until login.
//
// The bound client carries the 401 interceptor: any upstream 401 destroys
// the session before the calling handler sees the error.
func Session(svc ports.SessionService, store ports.SessionStore, client *upstream.Client, opts SessionOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			sid := ""
			if cookie, err := c.Cookie(opts.CookieName); err == nil {
				sid = cookie.Value
			}
			if _, err := uuid.Parse(sid); err != nil {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     opts.CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := svc.Resolve(ctx, sid)

			token, _ := store.Token(ctx, sid)
			bound := client.WithToken(token).OnAuthExpired(func() {
				_ = svc.Logout(ctx, sid)
				metrics.SessionsEndedTotal.WithLabelValues("expired").Inc()
			})

			c.Set(ctxSession, sess)
			c.Set(ctxAPI, bound)
			return next(c)
		}
	}
}

// CurrentSession returns the session resolved by the Session middleware,
// an anonymous session when the middleware did not run.
func CurrentSession(c echo.Context) domain.Session {
	sess, _ := c.Get(ctxSession).(domain.Session)
	return sess
}

// API returns the token-bound upstream client for this request.
func API(c echo.Context) *upstream.Client {
	client, _ := c.Get(ctxAPI).(*upstream.Client)
	return client
}
