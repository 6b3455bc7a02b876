package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/kinlink-docs/internal/config"
	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/db"
	"github.com/ziadkadry99/kinlink-docs/internal/site"
)

// dbFile is the SQLite file kept under data_dir.
const dbFile = "kinlink.db"

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `kinlink-docs init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs always go to stderr so that
// stdout stays free for command output and the MCP protocol.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadContent reads content_dir, or the embedded content when it is unset.
func loadContent(cfg *config.Config) (*content.Site, error) {
	fsys := content.Embedded()
	if cfg.ContentDir != "" {
		fsys = content.Source(cfg.ContentDir)
	}
	src, err := content.Load(fsys, cfg.Locales)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return src, nil
}

// openDB opens the database under data_dir, creating the directory.
func openDB(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// newSite loads content and builds a site over database.
func newSite(ctx context.Context, cfg *config.Config, database *db.DB, log *slog.Logger) (*site.Site, error) {
	src, err := loadContent(cfg)
	if err != nil {
		return nil, err
	}
	return site.New(ctx, cfg, src, database, log)
}
