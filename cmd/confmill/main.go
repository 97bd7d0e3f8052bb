// Command confmill exports a Confluence space as Markdown files.
//
// Site credentials come from the environment (CONFLUENCE_USER,
// CONFLUENCE_TOKEN); everything else from the YAML config, with a few
// flag overrides. When no config file exists, CONFLUENCE_URL and SPACE
// from the environment are used instead.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/confmill/confmill/confluence"
	"github.com/confmill/confmill/export"
	"github.com/confmill/confmill/store"
)

func main() {
	var (
		configPath = flag.String("config", "confmill.yaml", "path to YAML config file")
		space      = flag.String("space", "", "space key (overrides config)")
		output     = flag.String("output", "", "output directory (overrides config)")
		full       = flag.Bool("full", false, "re-export every page, ignoring stored state")
		logLevel   = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *space != "" {
		cfg.Space = *space
	}
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *full {
		cfg.Incremental = false
	}
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := confluence.New(confluence.Config{
		BaseURL:  cfg.BaseURL,
		Username: os.Getenv("CONFLUENCE_USER"),
		APIToken: os.Getenv("CONFLUENCE_TOKEN"),
		Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
	})

	var state *store.Store
	if cfg.StateDB != "" {
		state, err = store.Open(cfg.StateDB)
		if err != nil {
			slog.Error("open state db", "error", err)
			os.Exit(1)
		}
		defer state.Close()
	}

	stats, err := export.New(*cfg, client, state).ExportSpace(ctx)
	if err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
	slog.Info("export complete",
		"space", cfg.Space,
		"pages", stats.Pages,
		"exported", stats.Exported,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"attachments", stats.Attachments,
	)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}

// loadConfig reads the YAML file when present, otherwise falls back to the
// environment for site and space.
func loadConfig(path string) (*export.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return export.LoadConfig(path)
	}
	cfg := export.DefaultConfig()
	cfg.BaseURL = os.Getenv("CONFLUENCE_URL")
	cfg.Space = os.Getenv("SPACE")
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
