// cmd/client/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"punchclock/internal/app/client"
	"punchclock/internal/app/client/config"
	"punchclock/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
	userID    string
	offline   bool
)

var rootCmd = &cobra.Command{
	Use:   "punchclock",
	Short: "Punchclock - employee time clock",
	Long: `Punchclock records check-ins, breaks and check-outs, working
with or without a network connection.

Punches made while offline are stored locally and submitted to the
server as soon as it becomes reachable again. A punch is never lost
and never duplicated.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if userID != "" {
		cfg.UserID = userID
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// One probe up front so the facade knows whether to try the
	// server directly. --offline skips it and forces local queueing.
	if !offline {
		app.CheckConnection(cmd.Context())
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "punchclock server address")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "employee identifier")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "skip the connectivity probe and queue locally")
}
