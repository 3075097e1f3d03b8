package middleware

import (
	"strconv"
	"time"

	"bookclub/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// PrometheusMetrics records request counts and latency by matched route.
func PrometheusMetrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.TrackActiveRequest(true)
		defer m.TrackActiveRequest(false)

		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if c.Route().Method == "USE" || route == "" {
			route = "unmatched"
		}
		m.RecordAPIRequest(c.Method(), route, strconv.Itoa(responseStatus(c, err)), time.Since(start))
		return err
	}
}
