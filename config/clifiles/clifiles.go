// Package clifiles knows where the external Claude and Codex CLI
// configuration files live and reads/writes them wholesale. The files are
// owned by the CLIs themselves; this tool overwrites them on activation and
// otherwise treats a missing file as absent data, never as an error.
package clifiles

import (
	"fmt"
	"os"
	"path/filepath"

	"ccswitch/config/storage"
)

// Paths carries every well-known file location the engine touches. Tests
// point the whole engine at a temp directory through this value.
type Paths struct {
	// Store is the persisted provider store, ~/.config/ccswitch/config.json.
	Store string
	// ClaudeSettings is the Claude CLI settings document, ~/.claude/settings.json.
	ClaudeSettings string
	// CodexAuth is the Codex auth document, ~/.codex/auth.json.
	CodexAuth string
	// CodexConfig is the Codex TOML config, ~/.codex/config.toml.
	CodexConfig string
}

// Default resolves the standard locations under the user's home directory.
// XDG_CONFIG_HOME overrides the store location, matching other tools that
// keep state under ~/.config.
func Default() (Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir, ".config")
	}

	return Paths{
		Store:          filepath.Join(configHome, "ccswitch", "config.json"),
		ClaudeSettings: filepath.Join(homeDir, ".claude", "settings.json"),
		CodexAuth:      filepath.Join(homeDir, ".codex", "auth.json"),
		CodexConfig:    filepath.Join(homeDir, ".codex", "config.toml"),
	}, nil
}

// Under returns Paths rooted at dir, used by tests.
func Under(dir string) Paths {
	return Paths{
		Store:          filepath.Join(dir, ".config", "ccswitch", "config.json"),
		ClaudeSettings: filepath.Join(dir, ".claude", "settings.json"),
		CodexAuth:      filepath.Join(dir, ".codex", "auth.json"),
		CodexConfig:    filepath.Join(dir, ".codex", "config.toml"),
	}
}

// ReadIfExists returns the file content and whether the file was present.
// Any error other than absence is returned as-is.
func ReadIfExists(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), true, nil
}

// WriteClaude replaces the Claude settings document wholesale. The previous
// live file is backed up first.
func (p Paths) WriteClaude(settingsJSON string) error {
	if err := storage.AtomicWrite(p.ClaudeSettings, []byte(settingsJSON), true); err != nil {
		return fmt.Errorf("failed to write Claude settings: %w", err)
	}
	return nil
}

// WriteCodex replaces both Codex documents. The two writes are independent;
// there is no cross-file transaction.
func (p Paths) WriteCodex(authJSON, configTOML string) error {
	if err := storage.AtomicWrite(p.CodexAuth, []byte(authJSON), true); err != nil {
		return fmt.Errorf("failed to write Codex auth: %w", err)
	}
	if err := storage.AtomicWrite(p.CodexConfig, []byte(configTOML), true); err != nil {
		return fmt.Errorf("failed to write Codex config: %w", err)
	}
	return nil
}
