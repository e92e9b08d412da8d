package cmd

import (
	"github.com/spf13/cobra"

	"ccswitch/config"
	"ccswitch/internal/tui"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "ccswitch",
	Short: "Provider configuration manager for Claude Code and Codex",
	Long: `ccswitch keeps a library of API provider configurations and switches the
live Claude Code and Codex CLI files between them. Run without a
subcommand for the interactive interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}
		return tui.Run(mgr)
	},
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`ccswitch {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)
	return rootCmd.Execute()
}
