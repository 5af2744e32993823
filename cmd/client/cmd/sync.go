// cmd/client/cmd/sync.go
package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Submit locally queued punches to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		pending, err := app.Reconciler().Pending()
		if err != nil {
			return fmt.Errorf("failed to read local queue: %w", err)
		}

		if pending == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}

		if !app.Monitor().IsOnline() {
			return fmt.Errorf("server is unreachable, try again later")
		}

		fmt.Printf("Syncing %d record(s)...\n", pending)
		start := time.Now()

		report, err := app.Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		duration := time.Since(start).Round(time.Millisecond)

		if report.Synced > 0 {
			color.Green("✓ Synced %d record(s) in %v", report.Synced, duration)
		}
		if report.Failed > 0 {
			color.Yellow("⚠ %d record(s) not synced:", report.Failed)
			for _, msg := range report.Errors {
				fmt.Printf("  • %s\n", msg)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
