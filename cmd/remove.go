package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ccswitch/config"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a provider configuration",
	Long: `Delete the named configuration from the store. The live CLI files are
left untouched, so the external CLIs keep working until the next switch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}

		id, rec, err := findByName(mgr, args[0])
		if err != nil {
			return err
		}
		if err := mgr.Delete(id); err != nil {
			return err
		}

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("✓ Removed configuration: %s", rec.Name)))
		return nil
	},
}
