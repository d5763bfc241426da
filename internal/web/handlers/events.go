package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/rbac"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/web/middleware"
	"github.com/eventtogether/webapp/internal/web/view"
)

// EventsHandler serves event browsing and the create/edit/delete forms.
type EventsHandler struct {
	log zerolog.Logger
}

func NewEventsHandler(log zerolog.Logger) *EventsHandler {
	return &EventsHandler{log: log}
}

type eventListData struct {
	Events     []domain.Event
	Categories []domain.Category
	Search     string
}

func (h *EventsHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	api := middleware.API(c)

	filter := upstream.EventFilter{Search: c.QueryParam("search")}
	if id, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64); err == nil {
		filter.CategoryID = id
	}

	events, err := api.Events(ctx, filter)
	if err != nil {
		return err
	}
	// The filter bar degrades to "all categories" if the lookup fails.
	categories, err := api.Categories(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("category lookup failed")
	}

	p := page(c, "Events")
	p.Data = eventListData{Events: events, Categories: categories, Search: filter.Search}
	return c.Render(http.StatusOK, "events", p)
}

type eventDetailData struct {
	Event     *domain.Event
	Groups    []domain.Group
	CanEdit   bool
	CanDelete bool
}

func (h *EventsHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such event")
	}
	ctx := c.Request().Context()
	api := middleware.API(c)

	event, err := api.Event(ctx, id)
	if err != nil {
		return err
	}
	groups, err := api.EventGroups(ctx, id)
	if err != nil {
		h.log.Warn().Err(err).Int64("event_id", id).Msg("event groups lookup failed")
	}

	sess := middleware.CurrentSession(c)
	owner := sess.Authenticated() && event.OrganizerName == sess.User.Name

	p := page(c, event.Title)
	p.Data = eventDetailData{
		Event:     event,
		Groups:    groups,
		CanEdit:   rbac.CanEditEvent(sess.Role(), owner),
		CanDelete: rbac.CanDeleteEvent(sess.Role(), owner),
	}
	return c.Render(http.StatusOK, "event_detail", p)
}

type eventFormData struct {
	Categories []domain.Category
	Action     string
}

func (h *EventsHandler) New(c echo.Context) error {
	categories, err := middleware.API(c).Categories(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("category lookup failed")
	}
	p := page(c, "Create event")
	p.Data = eventFormData{Categories: categories, Action: "/events"}
	return c.Render(http.StatusOK, "event_form", p)
}

func (h *EventsHandler) Create(c echo.Context) error {
	form, when, p, ok := h.bindEventForm(c, "Create event", "/events")
	if !ok {
		return c.Render(http.StatusBadRequest, "event_form", p)
	}

	sess := middleware.CurrentSession(c)
	_, err := middleware.API(c).CreateEvent(c.Request().Context(), upstream.EventInput{
		Title:           form.Title,
		Description:     form.Description,
		Date:            when,
		Location:        form.Location,
		Price:           form.Price,
		MaxParticipants: form.MaxParticipants,
		CategoryID:      form.CategoryID,
		OrganizerName:   sess.User.Name,
	})
	if err != nil {
		p.Error = domain.ErrorMessage(err, "Could not create the event")
		return c.Render(http.StatusUnprocessableEntity, "event_form", p)
	}
	return c.Redirect(http.StatusFound, "/events")
}

func (h *EventsHandler) Edit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such event")
	}
	ctx := c.Request().Context()
	api := middleware.API(c)

	event, err := api.Event(ctx, id)
	if err != nil {
		return err
	}
	if !h.mayEdit(c, event) {
		return c.Redirect(http.StatusFound, "/events")
	}
	categories, err := api.Categories(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("category lookup failed")
	}

	p := page(c, "Edit event")
	p.Data = eventFormData{Categories: categories, Action: "/events/" + c.Param("id")}
	p.Form["title"] = event.Title
	p.Form["description"] = event.Description
	p.Form["date"] = event.Date.Format(dateLayout)
	p.Form["location"] = event.Location
	p.Form["price"] = strconv.FormatFloat(event.Price, 'f', -1, 64)
	p.Form["max_participants"] = strconv.Itoa(event.MaxParticipants)
	return c.Render(http.StatusOK, "event_form", p)
}

func (h *EventsHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such event")
	}
	ctx := c.Request().Context()
	api := middleware.API(c)

	event, err := api.Event(ctx, id)
	if err != nil {
		return err
	}
	if !h.mayEdit(c, event) {
		return c.Redirect(http.StatusFound, "/events")
	}

	form, when, p, ok := h.bindEventForm(c, "Edit event", "/events/"+c.Param("id"))
	if !ok {
		return c.Render(http.StatusBadRequest, "event_form", p)
	}

	_, err = api.UpdateEvent(ctx, id, upstream.EventInput{
		Title:           form.Title,
		Description:     form.Description,
		Date:            when,
		Location:        form.Location,
		Price:           form.Price,
		MaxParticipants: form.MaxParticipants,
		CategoryID:      form.CategoryID,
		OrganizerName:   event.OrganizerName,
	})
	if err != nil {
		p.Error = domain.ErrorMessage(err, "Could not update the event")
		return c.Render(http.StatusUnprocessableEntity, "event_form", p)
	}
	return c.Redirect(http.StatusFound, "/events/"+c.Param("id"))
}

func (h *EventsHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such event")
	}
	ctx := c.Request().Context()
	api := middleware.API(c)

	event, err := api.Event(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if event != nil {
		sess := middleware.CurrentSession(c)
		owner := sess.Authenticated() && event.OrganizerName == sess.User.Name
		if !rbac.CanDeleteEvent(sess.Role(), owner) {
			return c.Redirect(http.StatusFound, "/events")
		}
		if err := api.DeleteEvent(ctx, id); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusFound, "/events")
}

// bindEventForm binds and validates the shared create/edit form. ok is
// false when validation failed; the returned page is then ready to
// re-render with inline errors, and no upstream call has been made.
func (h *EventsHandler) bindEventForm(c echo.Context, title, action string) (eventForm, time.Time, view.Page, bool) {
	var form eventForm
	_ = c.Bind(&form)

	p := page(c, title)
	p.Data = eventFormData{Action: action}
	p.Form["title"] = form.Title
	p.Form["description"] = form.Description
	p.Form["date"] = form.Date
	p.Form["location"] = form.Location
	p.Form["price"] = strconv.FormatFloat(form.Price, 'f', -1, 64)
	p.Form["max_participants"] = strconv.Itoa(form.MaxParticipants)

	p.Fields = validateForm(form)
	when, msg := form.parseDate(time.Now())
	if msg != "" {
		p.Fields["date"] = msg
	}
	return form, when, p, len(p.Fields) == 0
}

func (h *EventsHandler) mayEdit(c echo.Context, event *domain.Event) bool {
	sess := middleware.CurrentSession(c)
	owner := sess.Authenticated() && event.OrganizerName == sess.User.Name
	return rbac.CanEditEvent(sess.Role(), owner)
}
