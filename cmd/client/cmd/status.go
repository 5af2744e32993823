// cmd/client/cmd/status.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"punchclock/internal/domain/punch"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's punches and what comes next",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("=== Today ===")

		online := app.Monitor().IsOnline()
		if online {
			color.Green("Server: reachable")
		} else {
			color.Yellow("Server: unreachable (working offline)")
		}

		if online {
			records, err := app.Today(cmd.Context())
			if err != nil {
				color.Yellow("Could not fetch today's records: %v", err)
			} else {
				if len(records) == 0 {
					fmt.Println("No punches recorded today.")
				}
				for _, rec := range records {
					line := fmt.Sprintf("  %s  %-12s %s",
						rec.Timestamp.Local().Format("15:04:05"),
						rec.Type.DisplayName(),
						rec.Device)
					if rec.Location != nil {
						line += "  " + rec.Location.String()
					}
					fmt.Println(line)
				}

				if next, ok := punch.NextAction(records); ok {
					fmt.Printf("\nNext: %s\n", next.DisplayName())
				} else {
					fmt.Println("\nDay complete.")
				}
			}
		}

		pending, err := app.Clock().Pending()
		if err != nil {
			return fmt.Errorf("failed to read local queue: %w", err)
		}

		if pending > 0 {
			color.Yellow("\nPending sync: %d record(s)", pending)
		} else {
			fmt.Println("\nPending sync: none")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
