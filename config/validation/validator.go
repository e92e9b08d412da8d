// Package validation checks provider records before they reach the store.
// Validation fails fast: an invalid input never causes a partial write.
package validation

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ccswitch/config/models"
	"ccswitch/internal/tomledit"
	"ccswitch/internal/utils"
)

// Error is a user-input problem. Its message is surfaced to the user
// verbatim and is never persisted.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// Errorf builds a validation Error.
func Errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Normalize trims user input in place and collapses the status block to nil
// when every one of its four fields is blank. A single non-blank field keeps
// the whole block.
func Normalize(rec *models.ProviderRecord) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Website = strings.TrimSpace(rec.Website)
	if rec.Status != nil {
		rec.Status.URL = strings.TrimSpace(rec.Status.URL)
		rec.Status.Authorization = strings.TrimSpace(rec.Status.Authorization)
		rec.Status.UserID = strings.TrimSpace(rec.Status.UserID)
		rec.Status.Cookie = strings.TrimSpace(rec.Status.Cookie)
		if rec.Status.IsZero() {
			rec.Status = nil
		}
	}
}

// Validator validates provider records.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRecord checks rec against the store invariants. existing is the
// current record list for the uniqueness check; selfID (empty on add)
// excludes the record being edited from that check.
func (v *Validator) ValidateRecord(rec models.ProviderRecord, existing []models.ProviderRecord, selfID string) error {
	if rec.Name == "" {
		return Errorf("name cannot be empty")
	}
	for _, other := range existing {
		if other.ID != selfID && other.Name == rec.Name {
			return Errorf("configuration '%s' already exists", rec.Name)
		}
	}

	if rec.Website != "" && !utils.ValidateURL(rec.Website) {
		return Errorf("invalid website URL: %s", rec.Website)
	}

	if rec.Claude == nil && rec.Codex == nil {
		return Errorf("at least one endpoint (claude or codex) is required")
	}

	if rec.Claude != nil {
		if err := v.validateClaude(rec.Claude); err != nil {
			return err
		}
	}
	if rec.Codex != nil {
		if err := v.validateCodex(rec.Codex); err != nil {
			return err
		}
	}

	if rec.Status != nil && rec.Status.URL != "" && !utils.ValidateURL(rec.Status.URL) {
		return Errorf("invalid status query URL: %s", rec.Status.URL)
	}
	return nil
}

func (v *Validator) validateClaude(cfg *models.ClaudeConfig) error {
	if !gjson.Valid(cfg.SettingsJSON) {
		return Errorf("claude settings must be valid JSON")
	}
	doc := gjson.Parse(cfg.SettingsJSON)
	if doc.Get("env.ANTHROPIC_AUTH_TOKEN").String() == "" {
		return Errorf("claude settings must set env.ANTHROPIC_AUTH_TOKEN")
	}
	if doc.Get("env.ANTHROPIC_BASE_URL").String() == "" {
		return Errorf("claude settings must set env.ANTHROPIC_BASE_URL")
	}
	return nil
}

func (v *Validator) validateCodex(cfg *models.CodexConfig) error {
	if !gjson.Valid(cfg.AuthJSON) {
		return Errorf("codex auth must be valid JSON")
	}
	if gjson.Get(cfg.AuthJSON, "OPENAI_API_KEY").String() == "" {
		return Errorf("codex auth must set OPENAI_API_KEY")
	}
	if strings.TrimSpace(cfg.ConfigTOML) == "" {
		return Errorf("codex config.toml cannot be empty")
	}
	if _, ok := tomledit.ExtractBaseURL(cfg.ConfigTOML); !ok {
		return Errorf("codex config.toml must contain an extractable base_url")
	}
	return nil
}
