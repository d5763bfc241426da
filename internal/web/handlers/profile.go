package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
	"github.com/eventtogether/webapp/internal/metrics"
	"github.com/eventtogether/webapp/internal/web/middleware"
)

// ProfileHandler serves the own-profile page. All routes require auth.
type ProfileHandler struct {
	sessions ports.SessionService
	log      zerolog.Logger
}

func NewProfileHandler(sessions ports.SessionService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, log: log}
}

func (h *ProfileHandler) Show(c echo.Context) error {
	user := middleware.CurrentSession(c).User
	p := page(c, "Your profile")
	p.Form["name"] = user.Name
	p.Form["about"] = user.About
	p.Form["avatar_url"] = user.AvatarURL
	return c.Render(http.StatusOK, "profile", p)
}

func (h *ProfileHandler) Update(c echo.Context) error {
	var form profileForm
	_ = c.Bind(&form)

	p := page(c, "Your profile")
	p.Form["name"] = form.Name
	p.Form["about"] = form.About
	p.Form["avatar_url"] = form.AvatarURL

	if p.Fields = validateForm(form); len(p.Fields) > 0 {
		return c.Render(http.StatusBadRequest, "profile", p)
	}

	sess := middleware.CurrentSession(c)
	updated, err := h.sessions.UpdateProfile(c.Request().Context(), sess.ID, domain.ProfileChanges{
		Name:      &form.Name,
		About:     &form.About,
		AvatarURL: &form.AvatarURL,
	})
	if err != nil {
		p.Error = domain.ErrorMessage(err, "Could not save your profile")
		return c.Render(http.StatusUnprocessableEntity, "profile", p)
	}

	p.Session.User = updated
	p.Flash = "Profile saved."
	return c.Render(http.StatusOK, "profile", p)
}

// Delete removes the account upstream and ends the session.
func (h *ProfileHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	sess := middleware.CurrentSession(c)

	if err := middleware.API(c).DeleteProfile(ctx); err != nil {
		p := page(c, "Your profile")
		p.Error = domain.ErrorMessage(err, "Could not delete your account")
		user := sess.User
		p.Form["name"] = user.Name
		p.Form["about"] = user.About
		p.Form["avatar_url"] = user.AvatarURL
		return c.Render(http.StatusUnprocessableEntity, "profile", p)
	}

	if err := h.sessions.Logout(ctx, sess.ID); err != nil {
		h.log.Warn().Err(err).Str("sid", sess.ID).Msg("logout after account deletion failed")
	}
	metrics.SessionsEndedTotal.WithLabelValues("logout").Inc()
	return c.Redirect(http.StatusFound, "/")
}
