package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/kinlink-docs/internal/db"
	"github.com/ziadkadry99/kinlink-docs/internal/progress"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the documentation as a static website",
	Long:  `Renders every route of every locale to static HTML with all tab panels highlighted, plus assets and a JSON search index.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	ctx := context.Background()
	log := newLogger(cfg)

	// The index only feeds this build, so it lives in memory.
	database, err := db.OpenMemory()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	s, err := newSite(ctx, cfg, database, log)
	if err != nil {
		return err
	}
	defer s.Hub().Close()

	pageCount, err := s.Build(ctx, outputDir, progress.NewReporter("Rendering pages"))
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}

	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)
	return nil
}
