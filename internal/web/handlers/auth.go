package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
	"github.com/eventtogether/webapp/internal/metrics"
	"github.com/eventtogether/webapp/internal/web/middleware"
)

// AuthHandler serves the login and registration pages and the logout
// action.
type AuthHandler struct {
	sessions ports.SessionService
	log      zerolog.Logger
}

func NewAuthHandler(sessions ports.SessionService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, log: log}
}

func (h *AuthHandler) ShowLogin(c echo.Context) error {
	p := page(c, "Log in")
	p.Form["next"] = url.QueryEscape(c.QueryParam("next"))
	return c.Render(http.StatusOK, "login", p)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	p := page(c, "Log in")
	p.Form["email"] = form.Email
	p.Form["next"] = url.QueryEscape(c.QueryParam("next"))

	if p.Fields = validateForm(form); len(p.Fields) > 0 {
		return c.Render(http.StatusBadRequest, "login", p)
	}

	sid := middleware.CurrentSession(c).ID
	_, err := h.sessions.Login(c.Request().Context(), sid, form.Email, form.Password)
	if err != nil {
		p.Error = domain.ErrorMessage(err, "Login failed")
		return c.Render(http.StatusUnauthorized, "login", p)
	}

	return c.Redirect(http.StatusFound, middleware.SafeNext(c.QueryParam("next")))
}

func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return c.Render(http.StatusOK, "register", page(c, "Sign up"))
}

func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	p := page(c, "Sign up")
	p.Form["name"] = form.Name
	p.Form["email"] = form.Email

	if p.Fields = validateForm(form); len(p.Fields) > 0 {
		return c.Render(http.StatusBadRequest, "register", p)
	}

	_, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
	})
	if err != nil {
		p.Error = domain.ErrorMessage(err, "Registration failed")
		return c.Render(http.StatusUnprocessableEntity, "register", p)
	}

	// No auto-login: the success page sends the visitor to /login after a
	// short pause.
	return c.Render(http.StatusCreated, "register_success", page(c, "Account created"))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sid := middleware.CurrentSession(c).ID
	if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
		h.log.Warn().Err(err).Str("sid", sid).Msg("logout failed to reach session store")
	}
	metrics.SessionsEndedTotal.WithLabelValues("logout").Inc()
	return c.Redirect(http.StatusFound, "/")
}
