// Package main - Entry point for the reservation analysis server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"reservation-analysis/api"
	"reservation-analysis/clouds"
	"reservation-analysis/core/engine"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgFile := flag.String("config", "", "config file (.hcl, .yaml or .json)")
	addr := flag.String("addr", "", "server address (overrides config)")
	flag.Parse()

	if err := run(*cfgFile, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile, addr string) error {
	_ = godotenv.Load()

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	source, _, err := clouds.FromConfig(cfg, logging.Logger)
	if err != nil {
		return err
	}
	eng := engine.NewEngine(source, engine.ConfigFromAnalysis(cfg.Analysis), logging.Logger)

	server := api.NewServer(eng, api.Options{
		Version:               version,
		DefaultSubscriptionID: cfg.Azure.SubscriptionID,
		RequestTimeout:        cfg.Server.RequestTimeout(),
	}, logging.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("reservation analysis server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("source", source.Name()),
		zap.String("version", version),
	)
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}
