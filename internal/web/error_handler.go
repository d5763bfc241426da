package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/web/middleware"
	"github.com/eventtogether/webapp/internal/web/view"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends any not-authenticated failure to the login page. The session
//     is already gone by the time this runs — the upstream client's 401
//     interceptor fires first.
//   - Maps forbidden to a silent redirect home, matching the route guard.
//   - Renders everything else as an error page without leaking internals.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			_ = c.Redirect(http.StatusFound, "/login")
			return
		case errors.Is(err, domain.ErrForbidden):
			_ = c.Redirect(http.StatusFound, "/")
			return
		}

		code, message := resolveError(err, log, c)
		p := view.Page{
			Title:   http.StatusText(code),
			Session: middleware.CurrentSession(c),
			Error:   message,
		}
		if renderErr := c.Render(code, "error", p); renderErr != nil {
			_ = c.String(code, message)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, "That page or record does not exist."
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ae *domain.APIError
	if errors.As(err, &ae) {
		return http.StatusBadGateway, ae.Message("The server could not complete your request.")
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
