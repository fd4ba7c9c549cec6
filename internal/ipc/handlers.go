package ipc

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/matjam/beambar"
	"github.com/spf13/viper"
)

// GET /status
func statusHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, StatusResponse{
			Status:  "ok",
			Message: "beambar is running",
			Version: strings.Trim(beambar.Version, "\n\r "),
			PID:     os.Getpid(),
			Socket:  SocketPath(),
			Config:  viper.ConfigFileUsed(),
			Script:  m.Script(),
			Bar:     m.Status(),
		}, "  ")
	}
}

// POST /stop
func stopHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.EnqueueCommand(Command{Type: CommandStop})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}
