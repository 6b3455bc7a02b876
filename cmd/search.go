package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/kinlink-docs/internal/db"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the documentation from the terminal",
	Long:  `Indexes the documentation of one locale and prints the pages whose title, description or body contain the query.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", search.DefaultLimit, "maximum number of results")
	searchCmd.Flags().String("locale", "", "locale to search (defaults to default_locale)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	locale, _ := cmd.Flags().GetString("locale")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if locale == "" {
		locale = cfg.DefaultLocale
	}

	database, err := db.OpenMemory()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	s, err := newSite(ctx, cfg, database, newLogger(cfg))
	if err != nil {
		return err
	}
	defer s.Hub().Close()

	if !s.Router().Supported(locale) {
		return fmt.Errorf("locale %q is not enabled", locale)
	}

	hits, err := s.Index().Search(ctx, locale, query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	for i := range hits {
		hits[i].Route = s.Router().LocalizedPath(locale, hits[i].Route)
	}

	if jsonOutput {
		if hits == nil {
			hits = []search.Hit{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	printHits(hits)
	return nil
}

func printHits(hits []search.Hit) {
	fmt.Printf("Found %d results:\n\n", len(hits))
	for i, h := range hits {
		section := ""
		if h.Section != "" {
			section = fmt.Sprintf(" (%s)", h.Section)
		}

		fmt.Printf("  %d. %s%s\n", i+1, h.Title, section)
		fmt.Printf("     %s\n", h.Route)
		switch {
		case h.Snippet != "":
			fmt.Printf("     %s\n\n", truncate(h.Snippet, 120))
		case h.Description != "":
			fmt.Printf("     %s\n\n", truncate(h.Description, 120))
		default:
			fmt.Println()
		}
	}
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
