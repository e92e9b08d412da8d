// Package templates ships the bundled provider presets. They are inputs in
// ProviderRecord shape without ids; the user fills in the credentials.
package templates

import (
	"fmt"

	"github.com/samber/lo"

	"ccswitch/config/models"
)

const claudeSettingsTemplate = `{
  "env": {
    "ANTHROPIC_AUTH_TOKEN": "",
    "ANTHROPIC_BASE_URL": "%s"
  }
}`

const codexAuthTemplate = `{
  "OPENAI_API_KEY": ""
}`

// presets is the static template list. All() hands out copies so callers
// can fill them in without mutating the bundled data.
var presets = []models.ProviderRecord{
	{
		Name:    "DeepSeek",
		Website: "https://platform.deepseek.com",
		Claude: &models.ClaudeConfig{
			SettingsJSON: claudeSettings("https://api.deepseek.com/anthropic"),
		},
		Status: &models.StatusConfig{
			URL: "https://api.deepseek.com/user/balance",
		},
	},
	{
		Name:    "Kimi",
		Website: "https://platform.moonshot.cn",
		Claude: &models.ClaudeConfig{
			SettingsJSON: claudeSettings("https://api.moonshot.cn/anthropic"),
		},
	},
	{
		Name:    "GLM",
		Website: "https://open.bigmodel.cn",
		Claude: &models.ClaudeConfig{
			SettingsJSON: claudeSettings("https://open.bigmodel.cn/api/anthropic"),
		},
	},
	{
		Name:    "88Code",
		Website: "https://www.88code.org",
		Claude: &models.ClaudeConfig{
			SettingsJSON: claudeSettings("https://www.88code.org/api"),
		},
		Codex: &models.CodexConfig{
			AuthJSON: codexAuthTemplate,
			ConfigTOML: `model_provider = "88code"
model = "gpt-5-codex"

[model_providers.88code]
name = "88code"
base_url = "https://www.88code.org/openai/v1"
wire_api = "responses"
`,
		},
		Status: &models.StatusConfig{
			URL: "https://www.88code.org/admin-api/cc-admin/system/usage",
		},
	},
}

func claudeSettings(baseURL string) string {
	// The template keeps the token blank; validation rejects the record
	// until the user fills it in.
	return fmt.Sprintf(claudeSettingsTemplate, baseURL)
}

// All returns the preset list as independent copies.
func All() []models.ProviderRecord {
	return lo.Map(presets, func(rec models.ProviderRecord, _ int) models.ProviderRecord {
		return rec.Clone()
	})
}
