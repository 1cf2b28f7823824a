// Package cmd - serve command
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reservation-analysis/api"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/logging"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis over HTTP",
	Long: `Start an HTTP server exposing:

  GET /api/reservation-analysis[?subscriptionId=...]
  GET /health
  GET /version

The subscription defaults to the configured one.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(eng, api.Options{
		Version:               Version,
		DefaultSubscriptionID: cfg.Azure.SubscriptionID,
		RequestTimeout:        cfg.Server.RequestTimeout(),
	}, logging.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("starting server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("source", cfg.Analysis.Source),
		zap.String("version", Version),
	)
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}
