package main

import (
	"climblog/climbing-app/internal/api"
	"climblog/climbing-app/internal/service"
	"climblog/climbing-app/internal/storage"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Info("starting climbing app server", zap.String("address", cfg.Server.Address), zap.String("driver", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer repos.close()

	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3, logger)
	if err != nil {
		return err
	}

	up, down := cfg.Uploads.UploadURLExpiry, cfg.Uploads.DownloadURLExpiry
	services := api.Services{
		Auth:     service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Profiles: service.NewProfileService(repos.users, repos.sessions, repos.climbs, repos.uploads, fileStorage, up, down, logger),
		Sessions: service.NewSessionService(repos.users, repos.sessions, repos.climbs, fileStorage, down, logger),
		Climbs:   service.NewClimbService(repos.users, repos.sessions, repos.climbs, repos.uploads, fileStorage, up, down, logger),
		Stats:    service.NewStatsService(repos.users, repos.sessions, repos.climbs),
	}

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(services, cfg.Server.CORSOrigins, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Info("server listening", zap.String("address", cfg.Server.Address))

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// The server has shutdownTimeout to finish the requests it is handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exiting")
	return nil
}
