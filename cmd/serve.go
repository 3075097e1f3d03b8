package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookclub/internal/database"
	"bookclub/internal/logging"
	"bookclub/internal/server"
	"bookclub/internal/services"
	"bookclub/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	db, err := database.Open(databaseOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Warn().Err(err).Msg("error closing database")
		}
	}()

	deps := server.Deps{DB: db}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		deps.Events = mqClient
		logging.Info().Str("exchange", rabbitmq.DefaultExchange).Msg("publishing events to RabbitMQ")
	}

	if cfg.GoogleClientID != "" {
		deps.Verifier = services.GoogleVerifier{ClientID: cfg.GoogleClientID}
	}

	app := server.New(cfg, deps)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		errCh <- app.Listen(cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	if err := app.Shutdown(); err != nil {
		logging.Error().Err(err).Msg("error during shutdown")
	}
	logging.Info().Msg("server gracefully stopped")
	return nil
}
