package ipc

import (
	"github.com/labstack/echo/v4"
	"github.com/matjam/beambar/internal/middleware"
)

func RegisterRoutes(e *echo.Echo, manager ManagerInterface) {
	e.GET("/status", statusHandler(manager))
	e.POST("/stop", stopHandler(manager))
}

func NewEcho(manager ManagerInterface) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CharmLog())

	RegisterRoutes(e, manager)
	return e
}
