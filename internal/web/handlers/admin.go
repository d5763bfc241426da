package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/rbac"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/web/middleware"
)

// AdminHandler serves the admin panel. Page-level access is gated by the
// moderator/admin role allow-list in the router; individual actions
// re-check the fine-grained permission and deny silently, mirroring the
// page-level behaviour.
type AdminHandler struct {
	log zerolog.Logger
}

func NewAdminHandler(log zerolog.Logger) *AdminHandler {
	return &AdminHandler{log: log}
}

type adminData struct {
	Users      []upstream.AdminUser
	Events     []domain.Event
	Groups     []domain.Group
	Categories []domain.Category
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	api := middleware.API(c)
	sess := middleware.CurrentSession(c)

	var data adminData
	var err error

	if rbac.HasPermission(sess.Role(), rbac.PermViewUsers) {
		if data.Users, err = api.AdminUsers(ctx); err != nil {
			return err
		}
	}
	if data.Events, err = api.AdminEvents(ctx); err != nil {
		return err
	}
	if data.Groups, err = api.AdminGroups(ctx); err != nil {
		return err
	}
	if data.Categories, err = api.Categories(ctx); err != nil {
		h.log.Warn().Err(err).Msg("category lookup failed")
	}

	p := page(c, "Admin panel")
	p.Data = data
	return c.Render(http.StatusOK, "admin", p)
}

func (h *AdminHandler) SetUserRole(c echo.Context) error {
	if !h.allowed(c, rbac.PermManageRoles) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	role := domain.Role(c.FormValue("role"))
	if !rbac.HasRole(role, domain.RoleUser, domain.RoleModerator, domain.RoleAdmin) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}
	if _, err := middleware.API(c).AdminUpdateUser(c.Request().Context(), id, upstream.AdminUserUpdate{Role: &role}); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) ToggleUserActive(c echo.Context) error {
	if !h.allowed(c, rbac.PermBanUser) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := middleware.API(c).AdminToggleUserActive(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if !h.allowed(c, rbac.PermDeleteUser) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := middleware.API(c).AdminDeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	if !h.allowed(c, rbac.PermDeleteEvent) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := middleware.API(c).AdminDeleteEvent(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) DeleteGroup(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := middleware.API(c).AdminDeleteGroup(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) ToggleGroupStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := middleware.API(c).AdminToggleGroupStatus(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	if !h.allowed(c, rbac.PermManageCategories) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	name := c.FormValue("name")
	if name == "" {
		return c.Redirect(http.StatusFound, "/admin")
	}
	_, err := middleware.API(c).CreateCategory(c.Request().Context(), upstream.CategoryInput{
		Name:        name,
		Description: c.FormValue("description"),
	})
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	if !h.allowed(c, rbac.PermManageCategories) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := middleware.API(c).DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) allowed(c echo.Context, perm rbac.Permission) bool {
	return rbac.HasPermission(middleware.CurrentSession(c).Role(), perm)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
