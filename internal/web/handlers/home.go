package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/web/middleware"
)

const homePreviewSize = 6

// HomeHandler serves the landing page: a preview of upcoming events and
// active groups. Both lookups are best-effort; the page renders with
// whatever arrived.
type HomeHandler struct {
	log zerolog.Logger
}

func NewHomeHandler(log zerolog.Logger) *HomeHandler {
	return &HomeHandler{log: log}
}

type homeData struct {
	Events []domain.Event
	Groups []domain.Group
}

func (h *HomeHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	api := middleware.API(c)

	var data homeData
	events, err := api.Events(ctx, upstream.EventFilter{})
	if err != nil {
		h.log.Warn().Err(err).Msg("event preview lookup failed")
	}
	for _, e := range events {
		if e.Upcoming() {
			data.Events = append(data.Events, e)
		}
		if len(data.Events) == homePreviewSize {
			break
		}
	}

	groups, err := api.Groups(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("group preview lookup failed")
	}
	if len(groups) > homePreviewSize {
		groups = groups[:homePreviewSize]
	}
	data.Groups = groups

	p := page(c, "Home")
	p.Data = data
	return c.Render(http.StatusOK, "home", p)
}
