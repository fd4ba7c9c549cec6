// Package middleware holds echo middleware shared by the control socket.
package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs each request at debug level.
func CharmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			log.Debug("ipc request",
				"method", req.Method,
				"uri", req.RequestURI,
				"status", res.Status,
				"latency", time.Since(start),
			)
			return nil
		}
	}
}
