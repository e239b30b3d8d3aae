package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	intelmesh "github.com/intelmesh/intelmesh-go"
	"github.com/intelmesh/intelmesh-go/internal/config"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "imctl",
		Short: "imctl — command line client for the IntelMesh threat intelligence API",
		Long:  "imctl registers observable entities and observations in an IntelMesh deployment and queries its forecasts: attribute values, relationships and links.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		entityCmd(),
		observationCmd(),
		forecastCmd(),
		vocabCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newClient(logger *slog.Logger) (*intelmesh.Client, error) {
	return intelmesh.New(intelmesh.Config{
		APIURL: cfg.API.URL,
		APIKey: cfg.API.Key,
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		},
		Logger: logger,
	})
}

// parseForecastAt turns a --at flag value into forecast options, nil when the
// flag was not given.
func parseForecastAt(at string) (*time.Time, error) {
	if at == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("parsing --at: want RFC3339, got %q", at)
	}
	return &t, nil
}
