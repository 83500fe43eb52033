package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/devcheck/devcheck-be/internal/api"
	"github.com/devcheck/devcheck-be/internal/config"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Superuser.Create {
		if err := bootstrapSuperuser(ctx, services.NewUserService(db), cfg.Superuser); err != nil {
			return err
		}
	}
	svc := api.NewServices(db)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           api.NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exiting")
	return nil
}

// bootstrapSuperuser creates the configured admin account on first start.
func bootstrapSuperuser(ctx context.Context, users *services.UserService, su config.SuperuserConfig) error {
	created, err := users.EnsureSuperuser(ctx, su.Username, su.Email, su.Password)
	if err != nil {
		return fmt.Errorf("creating superuser: %w", err)
	}
	if created {
		log.Info().Str("username", su.Username).Msg("Superuser created")
	} else {
		log.Info().Str("username", su.Username).Msg("Superuser already exists")
	}
	return nil
}
