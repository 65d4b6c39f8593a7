package handlers

import (
	"errors"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors to status codes
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPhoneTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrClientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func invalidClientID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid client id"})
}

// normalizeStatus accepts any letter case; empty stays empty
func normalizeStatus(raw engagement.Status) (engagement.Status, error) {
	if raw == "" {
		return "", nil
	}
	return engagement.ParseStatus(string(raw))
}
