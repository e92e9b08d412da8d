package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"ccswitch/config/clifiles"
	"ccswitch/config/models"
	"ccswitch/config/validation"
)

func claudeSettings(baseURL, token string) string {
	return `{"env":{"ANTHROPIC_AUTH_TOKEN":"` + token + `","ANTHROPIC_BASE_URL":"` + baseURL + `"}}`
}

func codexPair(baseURL, key string) *models.CodexConfig {
	return &models.CodexConfig{
		AuthJSON: `{"OPENAI_API_KEY":"` + key + `"}`,
		ConfigTOML: `model_provider = "p"

[model_providers.p]
base_url = "` + baseURL + `"
`,
	}
}

func testRecord(name, baseURL string) models.ProviderRecord {
	return models.ProviderRecord{
		Name:   name,
		Claude: &models.ClaudeConfig{SettingsJSON: claudeSettings(baseURL, "sk-"+name)},
	}
}

// setupManager creates a Manager over a temp directory.
func setupManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManagerWithPaths(clifiles.Under(t.TempDir()))
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestManagerAddListDelete(t *testing.T) {
	m := setupManager(t)

	added, err := m.Add(testRecord("alpha", "https://alpha.example.com"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("add must assign an id")
	}

	if _, err := m.Add(testRecord("beta", "https://beta.example.com")); err != nil {
		t.Fatalf("add: %v", err)
	}

	summaries := m.ListSummaries()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Name != "alpha" || summaries[1].Name != "beta" {
		t.Errorf("store order not preserved: %s, %s", summaries[0].Name, summaries[1].Name)
	}
	if summaries[0].Claude == nil {
		t.Fatal("claude endpoint summary missing")
	}
	if summaries[0].Claude.BaseURL != "https://alpha.example.com" {
		t.Errorf("base URL = %q", summaries[0].Claude.BaseURL)
	}
	if !summaries[0].Claude.HasCredentials {
		t.Error("credentials present but not reported")
	}

	if err := m.Delete(added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(m.ListSummaries()); got != 1 {
		t.Errorf("expected 1 summary after delete, got %d", got)
	}
	if err := m.Delete(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestManagerRejectsInvalidInput(t *testing.T) {
	m := setupManager(t)

	if _, err := m.Add(testRecord("dup", "https://a.example.com")); err != nil {
		t.Fatal(err)
	}

	var verr *validation.Error
	_, err := m.Add(testRecord("dup", "https://b.example.com"))
	if !errors.As(err, &verr) {
		t.Errorf("duplicate name should be a validation error, got %v", err)
	}

	_, err = m.Add(models.ProviderRecord{Name: "empty"})
	if !errors.As(err, &verr) {
		t.Errorf("endpoint-less record should be a validation error, got %v", err)
	}
}

func TestManagerSummariesCarryNoSecrets(t *testing.T) {
	m := setupManager(t)
	rec := testRecord("secret", "https://s.example.com")
	rec.Status = &models.StatusConfig{URL: "https://s.example.com/api", Authorization: "Bearer very-secret"}
	if _, err := m.Add(rec); err != nil {
		t.Fatal(err)
	}

	for _, s := range m.ListSummaries() {
		if strings.Contains(s.Claude.BaseURL, "sk-secret") {
			t.Error("token leaked into summary")
		}
		if s.Snapshot != nil {
			t.Error("no snapshot expected before refresh")
		}
		if !s.HasStatus {
			t.Error("status presence flag missing")
		}
	}
}

func TestManagerSetActiveWritesFiles(t *testing.T) {
	m := setupManager(t)

	rec := testRecord("prov", "https://prov.example.com")
	rec.Codex = codexPair("https://prov.example.com/v1", "sk-codex")
	added, err := m.Add(rec)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.SetActive(added.ID, models.EndpointClaude); err != nil {
		t.Fatalf("set active claude: %v", err)
	}
	if err := m.SetActive(added.ID, models.EndpointCodex); err != nil {
		t.Fatalf("set active codex: %v", err)
	}

	data, err := os.ReadFile(m.Paths().ClaudeSettings)
	if err != nil {
		t.Fatalf("claude settings not written: %v", err)
	}
	if got := gjson.GetBytes(data, "env.ANTHROPIC_BASE_URL").String(); got != "https://prov.example.com" {
		t.Errorf("written base URL = %q", got)
	}
	if _, err := os.Stat(m.Paths().CodexConfig); err != nil {
		t.Errorf("codex config not written: %v", err)
	}

	flags := m.ActiveFlags()
	if flags.ClaudeID != added.ID || flags.CodexID != added.ID {
		t.Errorf("flags = %+v", flags)
	}

	// A fresh manager over the same directories infers the same active
	// record purely from file content.
	fresh := NewManagerWithPaths(m.Paths())
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	freshFlags := fresh.ActiveFlags()
	if freshFlags.ClaudeID != added.ID || freshFlags.CodexID != added.ID {
		t.Errorf("fresh manager flags = %+v", freshFlags)
	}
}

func TestManagerSetActiveMissingEndpoint(t *testing.T) {
	m := setupManager(t)
	added, err := m.Add(testRecord("claude-only", "https://c.example.com"))
	if err != nil {
		t.Fatal(err)
	}

	err = m.SetActive(added.ID, models.EndpointCodex)
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("expected ErrEndpointNotConfigured, got %v", err)
	}
	if err := m.SetActive("no-such-id", models.EndpointClaude); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManagerUpdateHotReloadsActiveRecord(t *testing.T) {
	m := setupManager(t)

	added, err := m.Add(testRecord("live", "https://old.example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetActive(added.ID, models.EndpointClaude); err != nil {
		t.Fatal(err)
	}

	edited := added.Clone()
	edited.Claude.SettingsJSON = claudeSettings("https://new.example.com", "sk-live")
	hot, err := m.Update(added.ID, edited)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !hot {
		t.Error("editing the active record must report a hot reload")
	}

	data, _ := os.ReadFile(m.Paths().ClaudeSettings)
	if got := gjson.GetBytes(data, "env.ANTHROPIC_BASE_URL").String(); got != "https://new.example.com" {
		t.Errorf("live file not rewritten, base URL = %q", got)
	}
}

func TestManagerUpdateInactiveRecordTouchesNoFiles(t *testing.T) {
	m := setupManager(t)

	added, err := m.Add(testRecord("idle", "https://idle.example.com"))
	if err != nil {
		t.Fatal(err)
	}

	edited := added.Clone()
	edited.Claude.SettingsJSON = claudeSettings("https://idle2.example.com", "sk-idle")
	hot, err := m.Update(added.ID, edited)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if hot {
		t.Error("inactive record must not hot reload")
	}
	if _, err := os.Stat(m.Paths().ClaudeSettings); !os.IsNotExist(err) {
		t.Error("claude settings must not be written for an inactive record")
	}
}

func TestManagerDeleteClearsFlagsButKeepsFiles(t *testing.T) {
	m := setupManager(t)

	added, err := m.Add(testRecord("gone", "https://gone.example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetActive(added.ID, models.EndpointClaude); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(added.ID); err != nil {
		t.Fatal(err)
	}
	if flags := m.ActiveFlags(); flags.ClaudeID != "" {
		t.Errorf("flag not cleared: %+v", flags)
	}
	// The live CLI file keeps working for the external CLI.
	if _, err := os.Stat(m.Paths().ClaudeSettings); err != nil {
		t.Errorf("external file must survive deletion: %v", err)
	}
}

func TestManagerNormalizesLegacyStoreFile(t *testing.T) {
	paths := clifiles.Under(t.TempDir())

	legacy := `{
		"version": 7,
		"configs": [{
			"id": "legacy-id",
			"name": "legacy",
			"claude": {"settingsJson": ` + jsonQuote(claudeSettings("https://l.example.com", "sk-l")) + `},
			"futureField": {"keep": true}
		}]
	}`
	if err := os.MkdirAll(filepath.Dir(paths.Store), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.Store, []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	m := NewManagerWithPaths(paths)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	// Any persisting operation rewrites the file with the current version
	// stamp and keeps unknown record fields.
	if _, err := m.Add(testRecord("new", "https://n.example.com")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(paths.Store)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "version").Int(); got != models.StoreVersion {
		t.Errorf("version = %d, want %d", got, models.StoreVersion)
	}
	if !gjson.GetBytes(data, `configs.0.futureField.keep`).Bool() {
		t.Error("unknown field dropped on rewrite")
	}
}

func jsonQuote(s string) string {
	return strconv.Quote(s)
}

func TestManagerUnreadableStoreStartsEmpty(t *testing.T) {
	paths := clifiles.Under(t.TempDir())
	if err := os.MkdirAll(filepath.Dir(paths.Store), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.Store, []byte("{ corrupt"), 0600); err != nil {
		t.Fatal(err)
	}

	m := NewManagerWithPaths(paths)
	if err := m.Load(); err != nil {
		t.Fatalf("load over a corrupt store must not fail: %v", err)
	}
	if got := len(m.ListSummaries()); got != 0 {
		t.Errorf("expected empty store, got %d records", got)
	}
}
