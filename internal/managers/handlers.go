package managers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Directory *Directory
}

// GET /api/managers
func (h *Handlers) List(c *fiber.Ctx) error {
	managers, err := h.Directory.ListActive(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list managers")
		status := fiber.StatusBadGateway
		if errors.Is(err, ErrNotConfigured) {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": managers})
}
