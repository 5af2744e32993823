// cmd/client/cmd/watch.go
package cmd

import (
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run in the foreground, syncing whenever the server is reachable",
	Long: `Watch keeps the client running: it polls server reachability,
drains the local queue on every offline-to-online transition and runs a
periodic safety-net sync. Stop it with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer app.Shutdown()
		return app.Run()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
