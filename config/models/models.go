// Package models defines the provider record shapes shared by the config
// store, the detector and the presentation bridges.
package models

import (
	"encoding/json"
	"time"
)

// StoreVersion is the on-disk version stamp. Saving always normalizes the
// top-level version field to this constant.
const StoreVersion = 1

// EndpointKind names one of the two endpoint types a record may carry.
type EndpointKind string

const (
	EndpointClaude EndpointKind = "claude"
	EndpointCodex  EndpointKind = "codex"
)

// Valid reports whether k is one of the two known endpoint kinds.
func (k EndpointKind) Valid() bool {
	return k == EndpointClaude || k == EndpointCodex
}

// StatusConfig describes an optional balance/usage query for a record.
// All fields are optional; the whole block collapses to nil only when every
// field is blank.
type StatusConfig struct {
	URL           string `json:"url,omitempty"`
	Authorization string `json:"authorization,omitempty"`
	UserID        string `json:"userId,omitempty"`
	Cookie        string `json:"cookie,omitempty"`
}

// IsZero reports whether every field of the block is blank.
func (s StatusConfig) IsZero() bool {
	return s.URL == "" && s.Authorization == "" && s.UserID == "" && s.Cookie == ""
}

// ClaudeConfig holds the full serialized Claude settings document for a
// record. The document is written byte-for-byte on activation.
type ClaudeConfig struct {
	SettingsJSON string `json:"settingsJson"`
}

// CodexConfig holds the Codex auth document and raw config TOML for a
// record. Both are written wholesale on activation.
type CodexConfig struct {
	AuthJSON   string `json:"authJson"`
	ConfigTOML string `json:"configToml"`
}

// ProviderRecord is one stored provider configuration.
type ProviderRecord struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Website string        `json:"website,omitempty"`
	Status  *StatusConfig `json:"statusConfig,omitempty"`
	Claude  *ClaudeConfig `json:"claude,omitempty"`
	Codex   *CodexConfig  `json:"codex,omitempty"`

	// Extra carries unknown sibling fields so a record written by a newer
	// build round-trips through this one unmodified.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownRecordFields are the keys owned by this build; everything else read
// from disk lands in Extra.
var knownRecordFields = []string{"id", "name", "website", "statusConfig", "claude", "codex"}

// recordAlias breaks the MarshalJSON/UnmarshalJSON recursion.
type recordAlias ProviderRecord

// UnmarshalJSON decodes the known fields and stashes unknown siblings.
func (r *ProviderRecord) UnmarshalJSON(data []byte) error {
	var a recordAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownRecordFields {
		delete(raw, k)
	}
	if len(raw) == 0 {
		raw = nil
	}
	a.Extra = raw
	*r = ProviderRecord(a)
	return nil
}

// MarshalJSON re-emits the known fields merged with any stashed siblings.
func (r ProviderRecord) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(recordAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return data, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, owned := merged[k]; !owned {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Clone returns a deep copy so callers cannot mutate store state through
// returned records.
func (r ProviderRecord) Clone() ProviderRecord {
	out := r
	if r.Status != nil {
		s := *r.Status
		out.Status = &s
	}
	if r.Claude != nil {
		c := *r.Claude
		out.Claude = &c
	}
	if r.Codex != nil {
		c := *r.Codex
		out.Codex = &c
	}
	if r.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// StoreFile is the sole durable artifact: version stamp plus records in
// display order.
type StoreFile struct {
	Version int              `json:"version"`
	Configs []ProviderRecord `json:"configs"`
}

// SnapshotState classifies the outcome of a status fetch.
type SnapshotState string

const (
	// SnapshotOK means the fetch succeeded.
	SnapshotOK SnapshotState = "ok"
	// SnapshotError covers network, timeout and non-auth HTTP failures.
	SnapshotError SnapshotState = "error"
	// SnapshotAuth means the upstream rejected the credentials (401/403);
	// callers should prompt the user to refresh them.
	SnapshotAuth SnapshotState = "auth"
)

// Snapshot is the last fetched balance/usage result for a record. It lives
// in memory only and is dropped when the owning record is deleted.
type Snapshot struct {
	FetchedAt    time.Time     `json:"fetchedAt"`
	OK           bool          `json:"ok"`
	State        SnapshotState `json:"state"`
	Balance      string        `json:"balance,omitempty"`
	Usage        string        `json:"usage,omitempty"`
	Total        string        `json:"total,omitempty"`
	QuotaPerUnit float64       `json:"quotaPerUnit,omitempty"`
	Message      string        `json:"message,omitempty"`
	RawText      string        `json:"rawText,omitempty"`
}

// EndpointSummary is the redacted per-endpoint view: the base URL, whether
// credentials are present, and the active flag. Secrets never appear here.
type EndpointSummary struct {
	BaseURL        string `json:"baseUrl,omitempty"`
	HasCredentials bool   `json:"hasCredentials"`
	IsActive       bool   `json:"isActive"`
}

// Summary is the redacted projection of a record for list views.
type Summary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Website   string           `json:"website,omitempty"`
	HasStatus bool             `json:"hasStatus"`
	Claude    *EndpointSummary `json:"claude,omitempty"`
	Codex     *EndpointSummary `json:"codex,omitempty"`
	Snapshot  *Snapshot        `json:"snapshot,omitempty"`
}
