// Package server assembles the Fiber application: middleware, repositories,
// services and routes.
package server

import (
	"strings"
	"time"

	"bookclub/internal/config"
	"bookclub/internal/handlers"
	"bookclub/internal/metrics"
	"bookclub/internal/middleware"
	"bookclub/internal/repositories"
	"bookclub/internal/services"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the collaborators the application is built from. Events and
// Verifier are optional.
type Deps struct {
	DB       *gorm.DB
	Events   services.EventPublisher
	Verifier services.IDTokenVerifier
	Metrics  *metrics.Metrics
}

// New builds the application for cfg.
func New(cfg config.Config, deps Deps) *fiber.App {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	app := fiber.New(fiber.Config{
		AppName:               "bookclub",
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          handlers.ErrorHandler(cfg.IsProduction()),
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.PrometheusMetrics(deps.Metrics))
	app.Use(corsMiddleware(cfg.CORSOrigins))
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	app.Get("/health", healthHandler(deps.DB))
	app.Get("/metrics", deps.Metrics.Handler())

	userRepo := repositories.NewGORMUserRepository(deps.DB)
	clubRepo := repositories.NewGORMClubRepository(deps.DB)
	bookRepo := repositories.NewGORMBookRepository(deps.DB)
	meetingRepo := repositories.NewGORMMeetingRepository(deps.DB)
	postRepo := repositories.NewGORMPostRepository(deps.DB)
	progressRepo := repositories.NewGORMProgressRepository(deps.DB)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	if deps.Verifier != nil {
		authService.WithIDTokenVerifier(deps.Verifier)
	}
	clubService := services.NewClubService(clubRepo, deps.Events)
	bookService := services.NewBookService(bookRepo)
	meetingService := services.NewMeetingService(meetingRepo, clubRepo, deps.Events)
	postService := services.NewPostService(postRepo, clubRepo, deps.Events)
	progressService := services.NewProgressService(progressRepo, bookRepo, clubRepo, deps.Events, deps.Metrics)

	requireAuth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService, cfg.IsProduction()).RegisterRoutes(app, authLimiter(cfg.AuthRateLimit))
	handlers.NewClubHandler(clubService).RegisterRoutes(app, requireAuth)
	handlers.NewBookHandler(bookService).RegisterRoutes(app, requireAuth)
	handlers.NewMeetingHandler(meetingService).RegisterRoutes(app, requireAuth)
	handlers.NewPostHandler(postService).RegisterRoutes(app, requireAuth)
	handlers.NewProgressHandler(progressService).RegisterRoutes(app, requireAuth)

	return app
}

func corsMiddleware(origins []string) fiber.Handler {
	if len(origins) == 0 {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}

// authLimiter limits credential attempts per client IP and minute. A
// non-positive max disables it.
func authLimiter(max int) fiber.Handler {
	if max <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Too Many Requests",
				"message": "too many attempts, please try again later",
			})
		},
	})
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"database": "down",
				"time":     time.Now().Format(time.RFC3339),
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"database": "up",
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
