package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ccswitch/config"
	"ccswitch/config/models"
)

func init() {
	rootCmd.AddCommand(useCmd)
}

var useCmd = &cobra.Command{
	Use:   "use <name> [claude|codex]",
	Short: "Activate a configuration for an endpoint",
	Long: `Write the named configuration's content into the live CLI files.
Without an endpoint argument, every endpoint the configuration defines
is activated.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}

		id, rec, err := findByName(mgr, args[0])
		if err != nil {
			return err
		}

		var kinds []models.EndpointKind
		if len(args) == 2 {
			kind := models.EndpointKind(args[1])
			if !kind.Valid() {
				return fmt.Errorf("unknown endpoint %q, expected claude or codex", args[1])
			}
			kinds = append(kinds, kind)
		} else {
			if rec.Claude != nil {
				kinds = append(kinds, models.EndpointClaude)
			}
			if rec.Codex != nil {
				kinds = append(kinds, models.EndpointCodex)
			}
		}

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		for _, kind := range kinds {
			if err := mgr.SetActive(id, kind); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("✓ %s now active for %s", rec.Name, kind)))
		}
		return nil
	},
}

// findByName resolves a configuration by its display name.
func findByName(mgr *config.Manager, name string) (string, models.ProviderRecord, error) {
	for _, s := range mgr.ListSummaries() {
		if s.Name == name {
			rec, err := mgr.GetDetail(s.ID)
			return s.ID, rec, err
		}
	}
	return "", models.ProviderRecord{}, fmt.Errorf("configuration '%s' not found", name)
}
