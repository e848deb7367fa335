package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anime-shed/spectral-inspector-go/internal/config"
	"github.com/anime-shed/spectral-inspector-go/internal/container"
	"github.com/anime-shed/spectral-inspector-go/internal/logger"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the spectral analysis HTTP API",
		Example: `  # Start server with settings from the environment
  spectral serve

  # Override the port
  spectral serve --port 9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port != "" {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger.Configure(cfg.Log.Level, cfg.Log.Format)

			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize container: %w", err)
			}
			defer c.Close()

			server := &http.Server{
				Addr:         cfg.ServerAddress(),
				Handler:      c.Handler(),
				ReadTimeout:  cfg.RequestTimeout,
				WriteTimeout: cfg.RequestTimeout,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.WithFields(logrus.Fields{
					"address": cfg.ServerAddress(),
					"timeout": cfg.RequestTimeout,
				}).Info("Starting HTTP server")

				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for interrupt or server error
			select {
			case <-cmd.Context().Done():
				logger.Info("Shutting down server...")

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := server.Shutdown(ctx); err != nil {
					logger.WithError(err).Error("Server forced to shutdown")
					return err
				}
				logger.Info("Server exited")
				return nil
			case err := <-serverErr:
				return fmt.Errorf("server failed: %w", err)
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
