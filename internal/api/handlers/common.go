package handlers

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/internal/api/presenters"
	"Markit-Pantry/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// failure renders err with the status its kind maps to. Unexpected errors
// are logged and replaced by a generic one so internals never reach the client.
func failure(c *fiber.Ctx, message string, err error) error {
	status := presenters.StatusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s: %v", c.Method(), c.Path(), message, err)
		err = domain.ErrStorage
	}
	return presenters.ErrorResponse(c, status, message, err)
}

func currentUsername(c *fiber.Ctx) string {
	username, _ := c.Locals(middleware.UsernameKey).(string)
	return username
}
