package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/eventtogether/webapp/internal/web/middleware"
	"github.com/eventtogether/webapp/internal/web/view"
)

// page builds the common template envelope for the current request.
func page(c echo.Context, title string) view.Page {
	return view.Page{
		Title:   title,
		Session: middleware.CurrentSession(c),
		Fields:  map[string]string{},
		Form:    map[string]string{},
	}
}
