package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/limitdiff/internal/web"
)

func newServeCmd(pf *parseFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison HTTP API",
		Long: `Serve exposes parse and compare over HTTP. Server, limits, rate limiting
and API keys are configured through environment variables (SERVER_*,
COMPARE_*, RATE_LIMIT_*, API_KEYS, REQUIRE_API_KEY, TRUSTED_PROXIES).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, pf, os.Stdout)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			slog.Info("configuration loaded",
				"port", cfg.Server.Port,
				"compare_max_concurrent", cfg.Compare.MaxConcurrent,
				"compare_max_file_size", cfg.Compare.MaxFileSize,
				"rate_limit_enabled", cfg.Rate.Enabled,
				"require_api_key", cfg.Security.RequireAPIKey,
			)

			service := newService(cfg)
			server := web.NewServer(cfg, service)

			// Graceful shutdown
			done := make(chan error, 1)
			go func() {
				<-cmd.Context().Done()
				slog.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()

				if status := service.Limiter().Status(); status.Active > 0 {
					slog.Info("waiting for comparisons to complete", "active", status.Active)
				}
				done <- server.Shutdown(shutdownCtx)
			}()

			if err := server.Start(); err != nil {
				return err
			}
			if err := <-done; err != nil {
				slog.Error("shutdown error", "error", err)
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides SERVER_PORT)")
	return cmd
}
