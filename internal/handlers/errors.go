package handlers

import (
	"errors"
	"net/http"

	"bookclub/internal/apperr"
	"bookclub/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// ErrorHandler renders every error returned by a handler as
// {error, message, errors?}. Internal failures are logged; in production
// their message is replaced by a generic one.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := apperr.Status(err)
		message := err.Error()
		var fields map[string]string

		var fe *fiber.Error
		var ae *apperr.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
			message = fe.Message
		case errors.As(err, &ae):
			message = ae.Message
			fields = ae.Fields
		}

		if status >= fiber.StatusInternalServerError {
			rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
			logging.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request failed")
			if production {
				message = "internal server error"
			} else {
				message = err.Error()
			}
		}

		body := fiber.Map{
			"error":   http.StatusText(status),
			"message": message,
		}
		if len(fields) > 0 {
			body["errors"] = fields
		}
		return c.Status(status).JSON(body)
	}
}
