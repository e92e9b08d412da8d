// Package detect infers which stored record is "active" for each endpoint
// type. Nothing on disk points at the active record; activation writes are
// last-write-wins against files owned by the external CLIs, so comparing
// file content against each record's derived connection identity is the only
// source of truth that survives a process restart.
package detect

import (
	"github.com/tidwall/gjson"

	"ccswitch/config/clifiles"
	"ccswitch/config/models"
	"ccswitch/internal/tomledit"
)

// ActiveFlags holds the two in-memory active slots. Empty means no record
// currently matches the external files for that endpoint type.
type ActiveFlags struct {
	ClaudeID string
	CodexID  string
}

// identity is a connection tuple: where requests go and with which secret.
// Two records with identical tuples are indistinguishable; store order
// breaks the tie.
type identity struct {
	baseURL string
	secret  string
}

// ClaudeIdentity derives the connection tuple from a Claude settings
// document. ok is false when either env key is missing or blank.
func ClaudeIdentity(settingsJSON string) (baseURL, token string, ok bool) {
	doc := gjson.Parse(settingsJSON)
	baseURL = doc.Get("env.ANTHROPIC_BASE_URL").String()
	token = doc.Get("env.ANTHROPIC_AUTH_TOKEN").String()
	return baseURL, token, baseURL != "" && token != ""
}

// CodexIdentity derives the connection tuple from a Codex auth document and
// config TOML pair.
func CodexIdentity(authJSON, configTOML string) (baseURL, apiKey string, ok bool) {
	apiKey = gjson.Get(authJSON, "OPENAI_API_KEY").String()
	baseURL, found := tomledit.ExtractBaseURL(configTOML)
	return baseURL, apiKey, found && apiKey != ""
}

// Detector reads the external file pairs and matches them against stored
// records.
type Detector struct {
	paths clifiles.Paths
}

// New creates a Detector over the given file locations.
func New(paths clifiles.Paths) *Detector {
	return &Detector{paths: paths}
}

// externalClaude reads the live Claude settings document and derives its
// identity. present is false when the file is absent or carries no usable
// identity; that skips detection rather than failing it.
func (d *Detector) externalClaude() (identity, bool, error) {
	content, exists, err := clifiles.ReadIfExists(d.paths.ClaudeSettings)
	if err != nil || !exists {
		return identity{}, false, err
	}
	base, token, ok := ClaudeIdentity(content)
	if !ok {
		return identity{}, false, nil
	}
	return identity{baseURL: base, secret: token}, true, nil
}

// externalCodex reads the live Codex file pair. Both files must be present
// to yield an identity.
func (d *Detector) externalCodex() (identity, bool, error) {
	auth, authExists, err := clifiles.ReadIfExists(d.paths.CodexAuth)
	if err != nil {
		return identity{}, false, err
	}
	cfg, cfgExists, err := clifiles.ReadIfExists(d.paths.CodexConfig)
	if err != nil {
		return identity{}, false, err
	}
	if !authExists || !cfgExists {
		return identity{}, false, nil
	}
	base, key, ok := CodexIdentity(auth, cfg)
	if !ok {
		return identity{}, false, nil
	}
	return identity{baseURL: base, secret: key}, true, nil
}

func recordClaudeIdentity(rec models.ProviderRecord) (identity, bool) {
	if rec.Claude == nil {
		return identity{}, false
	}
	base, token, ok := ClaudeIdentity(rec.Claude.SettingsJSON)
	return identity{baseURL: base, secret: token}, ok
}

func recordCodexIdentity(rec models.ProviderRecord) (identity, bool) {
	if rec.Codex == nil {
		return identity{}, false
	}
	base, key, ok := CodexIdentity(rec.Codex.AuthJSON, rec.Codex.ConfigTOML)
	return identity{baseURL: base, secret: key}, ok
}

// DetectAll recomputes both active slots from scratch. For each endpoint
// type the first record in store order whose identity equals the external
// identity wins the slot; absent external files simply leave the slot empty.
func (d *Detector) DetectAll(records []models.ProviderRecord) (ActiveFlags, error) {
	var flags ActiveFlags

	claudeExt, claudePresent, err := d.externalClaude()
	if err != nil {
		return flags, err
	}
	codexExt, codexPresent, err := d.externalCodex()
	if err != nil {
		return flags, err
	}

	for _, rec := range records {
		if claudePresent && flags.ClaudeID == "" {
			if id, ok := recordClaudeIdentity(rec); ok && id == claudeExt {
				flags.ClaudeID = rec.ID
			}
		}
		if codexPresent && flags.CodexID == "" {
			if id, ok := recordCodexIdentity(rec); ok && id == codexExt {
				flags.CodexID = rec.ID
			}
		}
	}
	return flags, nil
}

// DetectOne re-evaluates the slots for a single record after it was added or
// updated. It claims a slot when the record now matches the external state
// and releases a slot the record held but no longer matches; it never moves
// a slot to a different record.
func (d *Detector) DetectOne(rec models.ProviderRecord, flags ActiveFlags) (ActiveFlags, error) {
	claudeExt, claudePresent, err := d.externalClaude()
	if err != nil {
		return flags, err
	}
	codexExt, codexPresent, err := d.externalCodex()
	if err != nil {
		return flags, err
	}

	claudeMatches := false
	if claudePresent {
		if id, ok := recordClaudeIdentity(rec); ok && id == claudeExt {
			claudeMatches = true
		}
	}
	if claudeMatches {
		flags.ClaudeID = rec.ID
	} else if flags.ClaudeID == rec.ID {
		flags.ClaudeID = ""
	}

	codexMatches := false
	if codexPresent {
		if id, ok := recordCodexIdentity(rec); ok && id == codexExt {
			codexMatches = true
		}
	}
	if codexMatches {
		flags.CodexID = rec.ID
	} else if flags.CodexID == rec.ID {
		flags.CodexID = ""
	}

	return flags, nil
}
