// Package main is the entry point for the organiser CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	ephemeral  bool // keep state in memory only
}

func rootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:          "organiser",
		Short:        "Personal organiser: tasks, journal, finances, cycles and chat",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTUI(cmd.Context(), g)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to organiser.toml (default: search upwards from the working directory)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")
	root.PersistentFlags().BoolVar(&g.ephemeral, "ephemeral", false, "keep state in memory and write nothing to disk")

	root.AddCommand(
		tuiCmd(&g),
		initCmd(),
		statusCmd(&g),
		taskCmd(&g),
		journalCmd(&g),
		financeCmd(&g),
		periodCmd(&g),
		chatCmd(&g),
		exportCmd(&g),
		remindCmd(&g),
	)
	return root
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
