package middleware

import (
	"errors"

	"bookclub/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// responseStatus is the status the client will see. Errors returned by
// later handlers are rendered by the app's ErrorHandler only after the
// middleware chain unwinds.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.Status(err)
}
