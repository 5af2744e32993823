// cmd/client/cmd/punch.go
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"punchclock/internal/domain/punch"
)

var device string

func punchCommand(use, short string, typ punch.Type) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			dev := cfg.Device
			if device != "" {
				dev = device
			}
			if err := punch.Device(dev).Validate(); err != nil {
				return fmt.Errorf("invalid device %q: %w", dev, err)
			}

			rec, err := app.Clock().RecordEntry(cmd.Context(), typ, punch.Device(dev))
			if err != nil {
				return err
			}

			when := rec.Timestamp.Format("15:04:05")
			if rec.Synced {
				color.Green("✓ %s recorded at %s", rec.Type.DisplayName(), when)
				if next, ok, err := app.NextAction(cmd.Context()); err == nil {
					if ok {
						fmt.Printf("Next: %s\n", next.DisplayName())
					} else {
						fmt.Println("Day complete.")
					}
				}
			} else {
				color.Yellow("● %s recorded at %s (saved locally, will sync)", rec.Type.DisplayName(), when)
			}

			return nil
		},
	}
}

func init() {
	checkIn := punchCommand("check-in", "Record the start of the workday", punch.TypeCheckIn)
	breakStart := punchCommand("break-start", "Record the start of a break", punch.TypeBreakStart)
	breakEnd := punchCommand("break-end", "Record the end of a break", punch.TypeBreakEnd)
	checkOut := punchCommand("check-out", "Record the end of the workday", punch.TypeCheckOut)

	for _, c := range []*cobra.Command{checkIn, breakStart, breakEnd, checkOut} {
		c.Flags().StringVarP(&device, "device", "d", "", "device kind: web, mobile, totem or qrcode")
		rootCmd.AddCommand(c)
	}
}
