// Package config owns the authoritative list of provider records: loading
// and persisting the store file, validation, activation against the
// external CLI files, and the cached status snapshots.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"ccswitch/config/clifiles"
	"ccswitch/config/detect"
	"ccswitch/config/models"
	"ccswitch/config/validation"
	"ccswitch/internal/status"
)

// ErrNotFound is returned when an operation references a record id that
// does not exist. Hitting it is a logic error in the caller.
var ErrNotFound = errors.New("configuration not found")

// ErrEndpointNotConfigured is returned by SetActive when the record lacks
// the requested endpoint type.
var ErrEndpointNotConfigured = errors.New("endpoint not configured")

// Manager is the config store. All operations run to completion under one
// mutex; the mutex only exists so the bridge, the TUI and the file watcher
// can share a single Manager.
type Manager struct {
	mu       sync.Mutex
	paths    clifiles.Paths
	detector *detect.Detector
	fetcher  *status.Fetcher

	records   []models.ProviderRecord
	flags     detect.ActiveFlags
	snapshots map[string]models.Snapshot
}

// NewManager creates a Manager over the default home-directory locations
// and loads the persisted store.
func NewManager() (*Manager, error) {
	paths, err := clifiles.Default()
	if err != nil {
		return nil, err
	}
	m := NewManagerWithPaths(paths)
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewManagerWithPaths creates a Manager over explicit file locations.
// Callers must Load before use.
func NewManagerWithPaths(paths clifiles.Paths) *Manager {
	return &Manager{
		paths:     paths,
		detector:  detect.New(paths),
		fetcher:   status.NewFetcher(),
		snapshots: make(map[string]models.Snapshot),
	}
}

// Paths returns the file locations this Manager operates on.
func (m *Manager) Paths() clifiles.Paths {
	return m.paths
}

// Load reads the persisted store and recomputes the active flags. A missing
// or unparsable store file starts an empty list; Load is never fatal for
// those cases.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sf, err := m.loadStoreFile()
	if err != nil {
		log.Warnf("store file unreadable, starting empty: %v", err)
		sf = &models.StoreFile{Version: models.StoreVersion}
	}
	m.records = sf.Configs
	m.redetectAll()
	return nil
}

// Redetect recomputes both active slots from the external files. The file
// watcher calls this when the CLI configs change out-of-band.
func (m *Manager) Redetect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redetectAll()
}

func (m *Manager) redetectAll() {
	flags, err := m.detector.DetectAll(m.records)
	if err != nil {
		log.Warnf("active-configuration detection failed: %v", err)
		return
	}
	m.flags = flags
}

// detectOne re-evaluates the active slots for a single record, best-effort.
func (m *Manager) detectOne(rec models.ProviderRecord) {
	flags, err := m.detector.DetectOne(rec, m.flags)
	if err != nil {
		log.Warnf("active-configuration detection failed for %s: %v", rec.Name, err)
		return
	}
	m.flags = flags
}

// Add validates input, assigns a fresh id, persists and re-runs detection
// for the new record. The returned record carries the assigned id.
func (m *Manager) Add(input models.ProviderRecord) (models.ProviderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	validation.Normalize(&input)
	if err := validation.NewValidator().ValidateRecord(input, m.records, ""); err != nil {
		return models.ProviderRecord{}, err
	}

	input.ID = uuid.NewString()
	updated := append(append([]models.ProviderRecord(nil), m.records...), input)
	if err := m.saveStoreFile(updated); err != nil {
		return models.ProviderRecord{}, err
	}
	m.records = updated
	m.detectOne(input)
	return input.Clone(), nil
}

// Update replaces the record's content, keeping its id. When the edited
// record is currently active for an endpoint type and that endpoint's
// serialized content changed, the new content is written to the external
// files immediately; the returned flag tells the caller a reload of the
// external CLI is advisable.
func (m *Manager) Update(id string, input models.ProviderRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return false, ErrNotFound
	}

	validation.Normalize(&input)
	if err := validation.NewValidator().ValidateRecord(input, m.records, id); err != nil {
		return false, err
	}

	old := m.records[idx]
	input.ID = id
	// Unknown sibling fields written by other tools survive edits.
	input.Extra = old.Extra

	updated := append([]models.ProviderRecord(nil), m.records...)
	updated[idx] = input
	if err := m.saveStoreFile(updated); err != nil {
		return false, err
	}
	m.records = updated

	hot := false
	if m.flags.ClaudeID == id && input.Claude != nil && old.Claude != nil &&
		input.Claude.SettingsJSON != old.Claude.SettingsJSON {
		if err := m.paths.WriteClaude(input.Claude.SettingsJSON); err != nil {
			return false, err
		}
		hot = true
	}
	if m.flags.CodexID == id && input.Codex != nil && old.Codex != nil &&
		(input.Codex.AuthJSON != old.Codex.AuthJSON || input.Codex.ConfigTOML != old.Codex.ConfigTOML) {
		if err := m.paths.WriteCodex(input.Codex.AuthJSON, input.Codex.ConfigTOML); err != nil {
			return hot, err
		}
		hot = true
	}

	m.detectOne(input)
	return hot, nil
}

// Delete removes the record, drops its cached snapshot and clears either
// active flag that pointed at it. The external files are left untouched.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	updated := append(append([]models.ProviderRecord(nil), m.records[:idx]...), m.records[idx+1:]...)
	if err := m.saveStoreFile(updated); err != nil {
		return err
	}
	m.records = updated
	delete(m.snapshots, id)
	if m.flags.ClaudeID == id {
		m.flags.ClaudeID = ""
	}
	if m.flags.CodexID == id {
		m.flags.CodexID = ""
	}
	return nil
}

// SetActive writes the record's endpoint content into the external files
// and claims the active slot. Already-active records are a no-op.
func (m *Manager) SetActive(id string, kind models.EndpointKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	rec := m.records[idx]

	switch kind {
	case models.EndpointClaude:
		if rec.Claude == nil {
			return fmt.Errorf("'%s': claude %w", rec.Name, ErrEndpointNotConfigured)
		}
		if m.flags.ClaudeID == id {
			return nil
		}
		if err := m.paths.WriteClaude(rec.Claude.SettingsJSON); err != nil {
			return err
		}
		m.flags.ClaudeID = id
	case models.EndpointCodex:
		if rec.Codex == nil {
			return fmt.Errorf("'%s': codex %w", rec.Name, ErrEndpointNotConfigured)
		}
		if m.flags.CodexID == id {
			return nil
		}
		if err := m.paths.WriteCodex(rec.Codex.AuthJSON, rec.Codex.ConfigTOML); err != nil {
			return err
		}
		m.flags.CodexID = id
	default:
		return fmt.Errorf("unknown endpoint kind %q", kind)
	}

	// Best-effort consistency check against what actually landed on disk.
	m.detectOne(rec)
	return nil
}

// RefreshStatus fetches the record's balance endpoint and caches the
// snapshot. Fetch failures land in the snapshot, never in the error.
func (m *Manager) RefreshStatus(ctx context.Context, id string) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return models.Snapshot{}, ErrNotFound
	}
	snap := m.fetcher.Fetch(ctx, m.records[idx].Status)
	m.snapshots[id] = snap
	return snap, nil
}

// RefreshAll refreshes every record strictly sequentially; total latency
// scales linearly with record count.
func (m *Manager) RefreshAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		m.snapshots[rec.ID] = m.fetcher.Fetch(ctx, rec.Status)
	}
}

// ListSummaries projects every record into its redacted view, in store
// order. Secrets never appear in summaries.
func (m *Manager) ListSummaries() []models.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	return lo.Map(m.records, func(rec models.ProviderRecord, _ int) models.Summary {
		return m.summarize(rec)
	})
}

func (m *Manager) summarize(rec models.ProviderRecord) models.Summary {
	s := models.Summary{
		ID:        rec.ID,
		Name:      rec.Name,
		Website:   rec.Website,
		HasStatus: rec.Status != nil && rec.Status.URL != "",
	}
	if rec.Claude != nil {
		base, token, _ := detect.ClaudeIdentity(rec.Claude.SettingsJSON)
		s.Claude = &models.EndpointSummary{
			BaseURL:        base,
			HasCredentials: token != "",
			IsActive:       m.flags.ClaudeID == rec.ID,
		}
	}
	if rec.Codex != nil {
		base, key, _ := detect.CodexIdentity(rec.Codex.AuthJSON, rec.Codex.ConfigTOML)
		s.Codex = &models.EndpointSummary{
			BaseURL:        base,
			HasCredentials: key != "",
			IsActive:       m.flags.CodexID == rec.ID,
		}
	}
	if snap, ok := m.snapshots[rec.ID]; ok {
		s.Snapshot = &snap
	}
	return s
}

// GetDetail returns the full record including secrets, for edit flows only.
func (m *Manager) GetDetail(id string) (models.ProviderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return models.ProviderRecord{}, ErrNotFound
	}
	return m.records[idx].Clone(), nil
}

// ActiveFlags returns the current in-memory active slots.
func (m *Manager) ActiveFlags() detect.ActiveFlags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags
}

func (m *Manager) indexOf(id string) int {
	for i, rec := range m.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// loadStoreFile reads the persisted store under a shared lock. A missing or
// empty file is an empty store, not an error.
func (m *Manager) loadStoreFile() (*models.StoreFile, error) {
	file, err := os.OpenFile(m.paths.Store, os.O_RDONLY, 0600)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.StoreFile{Version: models.StoreVersion}, nil
		}
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	defer file.Close()

	if err := lockFileShared(file); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			log.Warnf("failed to unlock store file: %v", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return &models.StoreFile{Version: models.StoreVersion}, nil
	}

	var sf models.StoreFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return &sf, nil
}

// saveStoreFile persists the record list under an exclusive lock. The
// version stamp is always normalized to the current constant.
func (m *Manager) saveStoreFile(records []models.ProviderRecord) error {
	sf := models.StoreFile{Version: models.StoreVersion, Configs: records}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.paths.Store), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	file, err := os.OpenFile(m.paths.Store, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open store file: %w", err)
	}
	defer file.Close()

	if err := lockFileExclusive(file); err != nil {
		return fmt.Errorf("failed to lock store file: %w", err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			log.Warnf("failed to unlock store file: %v", err)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync store file: %w", err)
	}
	return nil
}
