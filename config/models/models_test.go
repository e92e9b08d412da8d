package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordUnknownFieldsRoundTrip(t *testing.T) {
	in := `{
		"id": "abc",
		"name": "test",
		"claude": {"settingsJson": "{}"},
		"futureField": {"nested": [1, 2, 3]},
		"anotherOne": "kept"
	}`

	var rec ProviderRecord
	if err := json.Unmarshal([]byte(in), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(rec.Extra) != 2 {
		t.Fatalf("expected 2 unknown fields, got %d", len(rec.Extra))
	}
	if _, ok := rec.Extra["futureField"]; !ok {
		t.Error("futureField not captured")
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"futureField"`) {
		t.Error("futureField lost on re-serialization")
	}
	if !strings.Contains(string(out), `"anotherOne":"kept"`) {
		t.Error("anotherOne lost on re-serialization")
	}

	// Known fields still decode normally.
	if rec.ID != "abc" || rec.Name != "test" {
		t.Errorf("known fields broken: %+v", rec)
	}
	if rec.Claude == nil || rec.Claude.SettingsJSON != "{}" {
		t.Errorf("claude block broken: %+v", rec.Claude)
	}
}

func TestRecordWithoutUnknownFieldsHasNilExtra(t *testing.T) {
	var rec ProviderRecord
	if err := json.Unmarshal([]byte(`{"id":"x","name":"n"}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Extra != nil {
		t.Errorf("expected nil Extra, got %v", rec.Extra)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	rec := ProviderRecord{
		ID:     "id",
		Name:   "name",
		Status: &StatusConfig{URL: "https://example.com"},
		Claude: &ClaudeConfig{SettingsJSON: "{}"},
		Codex:  &CodexConfig{AuthJSON: "{}", ConfigTOML: "x = 1"},
		Extra:  map[string]json.RawMessage{"k": json.RawMessage(`"v"`)},
	}

	clone := rec.Clone()
	clone.Status.URL = "https://changed.example.com"
	clone.Claude.SettingsJSON = "changed"
	clone.Codex.AuthJSON = "changed"
	clone.Extra["k"] = json.RawMessage(`"changed"`)

	if rec.Status.URL != "https://example.com" {
		t.Error("clone shares Status")
	}
	if rec.Claude.SettingsJSON != "{}" {
		t.Error("clone shares Claude")
	}
	if rec.Codex.AuthJSON != "{}" {
		t.Error("clone shares Codex")
	}
	if string(rec.Extra["k"]) != `"v"` {
		t.Error("clone shares Extra")
	}
}

func TestEndpointKindValid(t *testing.T) {
	if !EndpointClaude.Valid() || !EndpointCodex.Valid() {
		t.Error("known kinds must be valid")
	}
	if EndpointKind("gemini").Valid() {
		t.Error("unknown kind must be invalid")
	}
}

func TestStatusConfigIsZero(t *testing.T) {
	if !(StatusConfig{}).IsZero() {
		t.Error("empty block must be zero")
	}
	if (StatusConfig{Cookie: "c"}).IsZero() {
		t.Error("block with a cookie is not zero")
	}
}
