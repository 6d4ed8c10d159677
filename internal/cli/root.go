package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Personal expense tracker",
	Long:  "Track expenses in a spreadsheet-backed ledger: web UI, CSV export, and an audit worker.",
	RunE:  runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
