package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/kinlink-docs/internal/db"
	mcpserver "github.com/ziadkadry99/kinlink-docs/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing documentation search, pages and code samples to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.OpenMemory()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		s, err := newSite(context.Background(), cfg, database, newLogger(cfg))
		if err != nil {
			return err
		}
		defer s.Hub().Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "kinlink-docs MCP server started on stdio (locales=%v, samples=%d)\n",
			cfg.Locales, len(s.Content().Samples()))

		srv := mcpserver.NewServer(s, cfg.DefaultLocale)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
