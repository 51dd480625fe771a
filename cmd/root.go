// Package cmd implements CLI commands using cobra.
package cmd

import (
	"github.com/spf13/cobra"
)

var configFile string

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "airlink",
	Short: "Airlink - receive side of a radio-link file transfer",
	Long: `Airlink captures link-layer frames from a monitoring interface or a
savefile, verifies the sender, reorders and validates data blocks, and
streams the reconstructed file to a sink while accounting for loss and
corruption.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (default ./airlink.yaml, /etc/airlink/airlink.yaml)")

	rootCmd.AddCommand(captureCmd)
}
