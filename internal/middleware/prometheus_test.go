package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookclub/internal/apperr"
	"bookclub/internal/metrics"
	"bookclub/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetricsLabelsByRoute(t *testing.T) {
	m := metrics.New()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperr.Status(err))
		},
	})
	app.Use(middleware.PrometheusMetrics(m))
	app.Get("/clubs/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "gone" {
			return apperr.NotFound("club")
		}
		return c.SendStatus(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "gone"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/clubs/"+id, nil), -1)
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("GET", "/clubs/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("GET", "/clubs/:id", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.APIActiveRequests))
}
