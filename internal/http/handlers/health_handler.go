package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store   Pinger
	Started time.Time
}

// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	status, db, code := "ok", "connected", fiber.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		status, db, code = "degraded", "disconnected", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": db,
		"uptime":   int64(time.Since(h.Started).Seconds()),
	})
}
