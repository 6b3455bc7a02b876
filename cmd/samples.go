package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ziadkadry99/kinlink-docs/internal/config"
	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/copybutton"
	"github.com/ziadkadry99/kinlink-docs/internal/copystats"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Browse the code-sample gallery",
}

var samplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every code sample",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := samplesContent()
		if err != nil {
			return err
		}
		samples := src.Samples()
		if len(samples) == 0 {
			fmt.Println("No samples found.")
			return nil
		}
		width := 0
		for _, s := range samples {
			width = max(width, len(s.Name))
		}
		for _, s := range samples {
			fmt.Printf("  %-*s  %-10s  %s\n", width, s.Name, s.Language, s.Title)
		}
		return nil
	},
}

var samplesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print the source of a code sample",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := samplesContent()
		if err != nil {
			return err
		}
		sample, err := src.Sample(args[0])
		if err != nil {
			return fmt.Errorf("%w\nRun `kinlink-docs samples list` to see the available samples", err)
		}
		fmt.Print(sample.Source)
		if !strings.HasSuffix(sample.Source, "\n") {
			fmt.Println()
		}
		return nil
	},
}

var samplesCopyCmd = &cobra.Command{
	Use:   "copy [name]",
	Short: "Copy a code sample to the terminal clipboard",
	Long: `Copies the full source of a code sample to the clipboard using the OSC 52
terminal escape sequence. The terminal emulator must allow clipboard
access; over SSH the sample lands on the local machine's clipboard.
When the clipboard is unavailable a notice is printed and the command
still exits successfully.`,
	Args: cobra.ExactArgs(1),
	RunE: runSamplesCopy,
}

func init() {
	samplesCmd.AddCommand(samplesListCmd, samplesShowCmd, samplesCopyCmd)
	rootCmd.AddCommand(samplesCmd)
}

func samplesContent() (*content.Site, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return loadContent(cfg)
}

func runSamplesCopy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	src, err := loadContent(cfg)
	if err != nil {
		return err
	}
	sample, err := src.Sample(args[0])
	if err != nil {
		return fmt.Errorf("%w\nRun `kinlink-docs samples list` to see the available samples", err)
	}

	var clipboard copybutton.Clipboard
	if term.IsTerminal(int(os.Stdout.Fd())) {
		clipboard = copybutton.NewOSC52(os.Stdout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Copy.WriteTimeout)
	defer cancel()

	ok := copySample(ctx, os.Stderr, sample, clipboard,
		copybutton.WithResetAfter(cfg.Copy.ResetAfter),
		copybutton.WithLogger(log.With("component", "copy")),
	)
	recordCLICopy(cfg, sample, ok)
	return nil
}

// copySample clicks a button bound to sample and reports the outcome on w.
// A failed write is not an error: like the page button, the copy is simply
// not confirmed.
func copySample(ctx context.Context, w io.Writer, sample content.Sample, clipboard copybutton.Clipboard, opts ...copybutton.Option) bool {
	button := copybutton.New(sample.Source, clipboard, opts...)
	defer button.Close()

	if !button.Click(ctx) {
		fmt.Fprintf(w, "Could not copy %s to the clipboard; run `kinlink-docs samples show %s` instead\n",
			sample.Filename, sample.Name)
		return false
	}
	lines := strings.Count(strings.TrimRight(sample.Source, "\n"), "\n") + 1
	fmt.Fprintf(w, "Copied %s (%d lines) to the clipboard\n", sample.Filename, lines)
	return true
}

// recordCLICopy adds the attempt to the copy statistics. Failures are
// logged and otherwise ignored.
func recordCLICopy(cfg *config.Config, sample content.Sample, success bool) {
	log := newLogger(cfg)
	database, err := openDB(cfg)
	if err != nil {
		log.Debug("copy statistics unavailable", "error", err)
		return
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = copystats.NewStore(database).Record(ctx, copystats.Event{
		Sample:   sample.Name,
		Language: sample.Language,
		Source:   copystats.SourceCLI,
		Success:  success,
	})
	if err != nil {
		log.Debug("recording copy", "error", err)
	}
}
