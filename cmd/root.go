package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kinlink-docs",
	Short: "Bilingual developer documentation for KinLink",
	Long: `kinlink-docs serves and exports the KinLink developer documentation in
English and Chinese. Code samples are highlighted lazily as tab panels
become visible, and every sample carries a copy button. The code-sample
gallery is also reachable from the terminal and from AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".kinlink.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
