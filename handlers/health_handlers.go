package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Health reports service liveness and whether the dataset session is
// serving. A failed bootstrap shows up here as status "error" until
// the process is restarted.
func (h *ApplicationHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	if !h.Search.Ready() {
		status = "error"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      status,
		"environment": h.Environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
