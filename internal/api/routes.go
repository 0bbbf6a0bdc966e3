package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/service"
)

// NewServer builds an echo instance with every cookieprobe route
// registered under a flat namespace (no "/api/v1" prefix).
func NewServer(svc *service.CookieService, history hostapi.HistoryProvider) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	g := e.Group("")
	NewCookieHandler(svc, history).RegisterRoutes(g)

	return e
}
