package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/config"
	"ccswitch/config/models"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all provider configurations",
	Long:  "List all saved provider configurations with their endpoints and active markers",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}

		summaries := mgr.ListSummaries()
		if len(summaries) == 0 {
			fmt.Println("No configurations available")
			return nil
		}

		fmt.Println("Available configurations:")
		for _, s := range summaries {
			fmt.Printf("  %s\n", s.Name)
			printEndpoint("claude", s.Claude)
			printEndpoint("codex", s.Codex)
			if s.Snapshot != nil {
				printSnapshot(s.Snapshot)
			}
		}
		fmt.Println("\n* indicates the endpoint currently written to the CLI files")
		return nil
	},
}

func printEndpoint(label string, ep *models.EndpointSummary) {
	if ep == nil {
		return
	}
	marker := " "
	if ep.IsActive {
		marker = "*"
	}
	creds := "no credentials"
	if ep.HasCredentials {
		creds = "credentials set"
	}
	fmt.Printf("  %s %-6s %s (%s)\n", marker, label, ep.BaseURL, creds)
}

func printSnapshot(snap *models.Snapshot) {
	switch snap.State {
	case models.SnapshotAuth:
		fmt.Println("      status: authentication expired")
	case models.SnapshotError:
		fmt.Printf("      status: error (%s)\n", snap.Message)
	default:
		line := "      status:"
		if snap.Balance != "" {
			line += " balance " + snap.Balance
		}
		if snap.Usage != "" {
			line += " used " + snap.Usage
		}
		if snap.Total != "" {
			line += " total " + snap.Total
		}
		fmt.Println(line)
	}
}
