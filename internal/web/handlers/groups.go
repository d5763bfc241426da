package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/web/middleware"
)

// flashTTL is how long a membership-action notice stays visible before
// clearing itself.
const flashTTL = 3 * time.Second

// GroupsHandler serves group browsing, creation, and membership actions.
type GroupsHandler struct {
	flash ports.FlashStore
	log   zerolog.Logger
}

func NewGroupsHandler(flash ports.FlashStore, log zerolog.Logger) *GroupsHandler {
	return &GroupsHandler{flash: flash, log: log}
}

type groupListData struct {
	Groups []domain.Group
}

func (h *GroupsHandler) List(c echo.Context) error {
	groups, err := middleware.API(c).Groups(c.Request().Context())
	if err != nil {
		return err
	}
	p := page(c, "Groups")
	p.Data = groupListData{Groups: groups}
	return c.Render(http.StatusOK, "groups", p)
}

type groupDetailData struct {
	Group  *domain.Group
	Member bool
}

func (h *GroupsHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such group")
	}
	ctx := c.Request().Context()
	api := middleware.API(c)
	sess := middleware.CurrentSession(c)

	group, err := api.Group(ctx, id)
	if err != nil {
		return err
	}

	member := false
	if sess.Authenticated() {
		member, err = api.CheckMembership(ctx, id)
		if err != nil {
			h.log.Warn().Err(err).Int64("group_id", id).Msg("membership check failed")
		}
	}

	p := page(c, group.Name)
	if flash, err := h.flash.Flash(ctx, sess.ID); err == nil {
		p.Flash = flash
	}
	p.Data = groupDetailData{Group: group, Member: member}
	return c.Render(http.StatusOK, "group_detail", p)
}

type groupFormData struct {
	Events []domain.Event
}

func (h *GroupsHandler) New(c echo.Context) error {
	events, err := middleware.API(c).Events(c.Request().Context(), upstream.EventFilter{})
	if err != nil {
		h.log.Warn().Err(err).Msg("event lookup for group form failed")
	}
	p := page(c, "Start a group")
	p.Data = groupFormData{Events: events}
	return c.Render(http.StatusOK, "group_form", p)
}

func (h *GroupsHandler) Create(c echo.Context) error {
	var form groupForm
	_ = c.Bind(&form)

	p := page(c, "Start a group")
	p.Data = groupFormData{}
	p.Form["name"] = form.Name
	p.Form["description"] = form.Description
	p.Form["max_members"] = strconv.Itoa(form.MaxMembers)

	if p.Fields = validateForm(form); len(p.Fields) > 0 {
		return c.Render(http.StatusBadRequest, "group_form", p)
	}

	group, err := middleware.API(c).CreateGroup(c.Request().Context(), upstream.GroupInput{
		EventID:     form.EventID,
		Name:        form.Name,
		Description: form.Description,
		MaxMembers:  form.MaxMembers,
	})
	if err != nil {
		p.Error = domain.ErrorMessage(err, "Could not create the group")
		return c.Render(http.StatusUnprocessableEntity, "group_form", p)
	}
	return c.Redirect(http.StatusFound, "/groups/"+strconv.FormatInt(group.ID, 10))
}

// Join and Leave redirect back to the group page; failures become a
// transient flash notice there rather than an error page.

func (h *GroupsHandler) Join(c echo.Context) error {
	return h.membershipAction(c, "join", middleware.API(c).JoinGroup)
}

func (h *GroupsHandler) Leave(c echo.Context) error {
	return h.membershipAction(c, "leave", middleware.API(c).LeaveGroup)
}

func (h *GroupsHandler) membershipAction(c echo.Context, verb string, action func(ctx context.Context, id int64) error) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such group")
	}
	ctx := c.Request().Context()
	sess := middleware.CurrentSession(c)

	if err := action(ctx, id); err != nil {
		message := domain.ErrorMessage(err, "Could not "+verb+" the group")
		if saveErr := h.flash.SaveFlash(ctx, sess.ID, message, flashTTL); saveErr != nil {
			h.log.Warn().Err(saveErr).Str("sid", sess.ID).Msg("failed to save flash")
		}
	}
	return c.Redirect(http.StatusFound, "/groups/"+c.Param("id"))
}
