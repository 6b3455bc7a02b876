package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/kinlink-docs/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation site with live tab sessions",
	Long: `Starts the documentation server: localized pages, the search and examples
APIs, copy statistics and the websocket endpoint that highlights code blocks
as tab panels are shown. With watch enabled, edits under content_dir reload
the site and every open browser.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("watch", false, "reload when content_dir changes (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch, _ = cmd.Flags().GetBool("watch")
	}
	open, _ := cmd.Flags().GetBool("open")
	log := newLogger(cfg)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	s, err := newSite(ctx, cfg, database, log)
	if err != nil {
		return err
	}

	if cfg.Watch {
		if cfg.ContentDir == "" {
			log.Warn("watch ignored: content is embedded, set content_dir to watch a directory")
		} else {
			w, err := watch.New(cfg.ContentDir, func(paths []string) error {
				src, err := loadContent(cfg)
				if err != nil {
					return err
				}
				return s.Reload(ctx, src)
			}, log.With("component", "watch"))
			if err != nil {
				return fmt.Errorf("watching %s: %w", cfg.ContentDir, err)
			}
			w.Start()
			defer w.Stop()
			log.Info("watching content", "dir", cfg.ContentDir)
		}
	}

	fmt.Fprintf(os.Stderr, "kinlink-docs %s serving at http://localhost:%d (press Ctrl+C to stop)\n", Version, cfg.Port)
	fmt.Fprintf(os.Stderr, "  Locales: %v (default %s, prefix %s)\n", cfg.Locales, cfg.DefaultLocale, cfg.LocalePrefix)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())

	return s.Serve(ctx, fmt.Sprintf(":%d", cfg.Port), open)
}
