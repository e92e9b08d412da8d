package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/config"
	"ccswitch/config/models"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [name]",
	Short: "Fetch provider balance information",
	Long: `Query the configured balance endpoints and print the normalized
results. With a name argument only that configuration is queried,
otherwise all of them are, one after another.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if len(args) == 1 {
			id, rec, err := findByName(mgr, args[0])
			if err != nil {
				return err
			}
			snap, err := mgr.RefreshStatus(ctx, id)
			if err != nil {
				return err
			}
			printStatus(rec.Name, snap)
			return nil
		}

		mgr.RefreshAll(ctx)
		for _, s := range mgr.ListSummaries() {
			if s.Snapshot != nil {
				printStatus(s.Name, *s.Snapshot)
			}
		}
		return nil
	},
}

func printStatus(name string, snap models.Snapshot) {
	switch snap.State {
	case models.SnapshotAuth:
		fmt.Printf("%s: authentication expired\n", name)
	case models.SnapshotError:
		fmt.Printf("%s: %s\n", name, snap.Message)
	default:
		fmt.Printf("%s: balance %s, used %s, total %s\n",
			name, orDash(snap.Balance), orDash(snap.Usage), orDash(snap.Total))
	}
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
