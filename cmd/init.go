package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/kinlink-docs/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize kinlink-docs configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure locales, highlighting and the server, and writes the result to the config file (default .kinlink.yml).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
