package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"ccswitch/config"
	"ccswitch/config/models"
	"ccswitch/internal/tomledit"
	"ccswitch/internal/utils"
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().String("claude-base-url", "", "Anthropic-compatible base URL for the Claude endpoint")
	addCmd.Flags().String("claude-token", "", "Auth token for the Claude endpoint")
	addCmd.Flags().String("codex-base-url", "", "OpenAI-compatible base URL for the Codex endpoint")
	addCmd.Flags().String("codex-key", "", "API key for the Codex endpoint")
	addCmd.Flags().String("website", "", "Provider console URL")
	addCmd.Flags().String("status-url", "", "Balance query URL")
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a provider configuration from flags",
	Long: `Add a provider configuration without the interactive interface. The
Claude settings document and Codex file pair are generated from the
given base URLs and credentials; at least one endpoint is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}

		claudeBase, _ := cmd.Flags().GetString("claude-base-url")
		claudeToken, _ := cmd.Flags().GetString("claude-token")
		codexBase, _ := cmd.Flags().GetString("codex-base-url")
		codexKey, _ := cmd.Flags().GetString("codex-key")
		website, _ := cmd.Flags().GetString("website")
		statusURL, _ := cmd.Flags().GetString("status-url")

		rec := models.ProviderRecord{Name: args[0], Website: website}
		if statusURL != "" {
			rec.Status = &models.StatusConfig{URL: statusURL}
		}

		if claudeBase != "" || claudeToken != "" {
			settings, err := sjson.Set("{}", "env.ANTHROPIC_AUTH_TOKEN", claudeToken)
			if err != nil {
				return err
			}
			settings, err = sjson.Set(settings, "env.ANTHROPIC_BASE_URL", claudeBase)
			if err != nil {
				return err
			}
			rec.Claude = &models.ClaudeConfig{SettingsJSON: settings}
		}

		if codexBase != "" || codexKey != "" {
			auth, err := sjson.Set("{}", "OPENAI_API_KEY", codexKey)
			if err != nil {
				return err
			}
			rec.Codex = &models.CodexConfig{
				AuthJSON:   auth,
				ConfigTOML: tomledit.MergeBaseURL(codexBase, ""),
			}
		}

		added, err := mgr.Add(rec)
		if err != nil {
			return err
		}

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		secret := claudeToken
		if secret == "" {
			secret = codexKey
		}
		fmt.Fprintln(os.Stderr, successStyle.Render(
			fmt.Sprintf("✓ Added configuration: %s (credential %s)", added.Name, utils.MaskSecret(secret))))
		return nil
	},
}
