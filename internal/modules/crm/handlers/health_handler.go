package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger checks a storage connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	serviceName string
	aiProvider  string
	db          Pinger
}

// NewHealthHandler creates the liveness handler. db may be nil.
func NewHealthHandler(serviceName, aiProvider string, db Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, aiProvider: aiProvider, db: db}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	database := "disabled"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		database = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			database = "unreachable"
		}
	}

	return c.JSON(fiber.Map{
		"status":     "ok",
		"service":    h.serviceName,
		"aiProvider": h.aiProvider,
		"database":   database,
	})
}
