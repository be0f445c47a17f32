package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// size of pages of users and groups when requests do not specify.
const defaultPageSize = 20

// Pinger checks a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
}

// HealthHandler pings each backend. It responds 503 when one of them is down.
func HealthHandler(backends map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := Health{Status: "ok", Backends: map[string]string{}}
		code := http.StatusOK
		for name, p := range backends {
			if err := p.Ping(c.Request().Context()); err != nil {
				c.Logger().Warnf("health: %s is down: %s", name, err)
				h.Backends[name] = "down"
				h.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			h.Backends[name] = "up"
		}
		return c.JSON(code, h)
	}
}
