package middleware

import (
	"time"

	"bookclub/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request. It must run after the requestid
// middleware.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := responseStatus(c, err)

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logging.Error()
		case status >= fiber.StatusBadRequest:
			event = logging.Warn()
		default:
			event = logging.Info()
		}

		rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		event.
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}
