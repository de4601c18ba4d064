// Command voicegit serves the voice-to-commit-message dashboard and API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "voicegit",
		Short:         "Turn spoken change descriptions into conventional commit messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("VOICEGIT_CONFIG"), "path to a TOML config file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newGenerateCmd(&configPath),
		newExportCmd(&configPath),
	)
	return rootCmd
}
