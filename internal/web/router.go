// Package web wires the Echo application: routes, middleware, rendering,
// and the central error handler.
package web

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/web/assets"
	"github.com/eventtogether/webapp/internal/web/handlers"
	"github.com/eventtogether/webapp/internal/web/middleware"
	"github.com/eventtogether/webapp/internal/web/view"
)

// Deps carries everything the router needs, wired in main.
type Deps struct {
	Client   *upstream.Client
	Store    ports.SessionStore
	Flash    ports.FlashStore
	Sessions ports.SessionService
	Redis    *redis.Client
	Cookie   middleware.SessionOptions
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes
// registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	renderer, err := view.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("eventtogether"))

	// Session resolution runs on every page request but is skipped for
	// probes, metrics, and static assets.
	sessionMW := middleware.Session(d.Sessions, d.Store, d.Client, d.Cookie)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		withSession := sessionMW(next)
		return func(c echo.Context) error {
			if operational(c.Request().URL.Path) {
				return next(c)
			}
			return withSession(c)
		}
	})

	// --- Handlers ---
	home := handlers.NewHomeHandler(d.Log)
	auth := handlers.NewAuthHandler(d.Sessions, d.Log)
	events := handlers.NewEventsHandler(d.Log)
	groups := handlers.NewGroupsHandler(d.Flash, d.Log)
	profile := handlers.NewProfileHandler(d.Sessions, d.Log)
	admin := handlers.NewAdminHandler(d.Log)
	health := handlers.NewHealthHandler()
	ready := handlers.NewReadinessHandler(d.Redis, d.Client)

	requireAuth := middleware.RequireAuth()
	staffOnly := middleware.RequireRoles(domain.RoleModerator, domain.RoleAdmin)

	// --- Public pages ---
	e.GET("/", home.Home)
	e.GET("/login", auth.ShowLogin)
	e.POST("/login", auth.Login)
	e.GET("/register", auth.ShowRegister)
	e.POST("/register", auth.Register)
	e.GET("/logout", auth.Logout)

	e.GET("/events", events.List)
	e.GET("/events/new", events.New, requireAuth)
	e.GET("/events/:id", events.Detail)
	e.GET("/events/:id/edit", events.Edit, requireAuth)
	e.GET("/groups", groups.List)
	e.GET("/groups/new", groups.New, requireAuth)
	e.GET("/groups/:id", groups.Detail)

	// --- Authenticated actions ---
	e.POST("/events", events.Create, requireAuth)
	e.POST("/events/:id", events.Update, requireAuth)
	e.POST("/events/:id/delete", events.Delete, requireAuth)
	e.POST("/groups", groups.Create, requireAuth)
	e.POST("/groups/:id/join", groups.Join, requireAuth)
	e.POST("/groups/:id/leave", groups.Leave, requireAuth)

	e.GET("/profile", profile.Show, requireAuth)
	e.POST("/profile", profile.Update, requireAuth)
	e.POST("/profile/delete", profile.Delete, requireAuth)

	// --- Admin panel (moderator/admin only) ---
	adm := e.Group("/admin", requireAuth, staffOnly)
	adm.GET("", admin.Dashboard)
	adm.POST("/users/:id/role", admin.SetUserRole)
	adm.POST("/users/:id/toggle-active", admin.ToggleUserActive)
	adm.POST("/users/:id/delete", admin.DeleteUser)
	adm.POST("/events/:id/delete", admin.DeleteEvent)
	adm.POST("/groups/:id/delete", admin.DeleteGroup)
	adm.POST("/groups/:id/toggle-status", admin.ToggleGroupStatus)
	adm.POST("/categories", admin.CreateCategory)
	adm.POST("/categories/:id/delete", admin.DeleteCategory)

	// --- Operational endpoints (no session resolution) ---
	e.GET("/healthz", health.Liveness)
	e.GET("/healthz/ready", ready.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	e.StaticFS("/static", echo.MustSubFS(assets.FS, "files"))

	return e, nil
}

// operational reports whether a path should skip session resolution.
func operational(path string) bool {
	return path == "/metrics" ||
		strings.HasPrefix(path, "/healthz") ||
		strings.HasPrefix(path, "/static")
}
