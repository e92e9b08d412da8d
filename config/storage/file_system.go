// Package storage provides atomic file replacement and timestamped backups
// for the live configuration files this tool owns or overwrites.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicWrite replaces the file at path with content via a temp file and
// rename, so a crash mid-write never leaves a truncated document. When
// backup is true and the target already exists, a timestamped copy of the
// previous content is kept first.
func AtomicWrite(path string, content []byte, backup bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	bm := NewBackupManager(DefaultBackupRetention)
	if backup && FileExists(path) {
		if _, err := bm.CreateBackup(path); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	// Atomic on POSIX systems.
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	if backup {
		// Retention cleanup is best-effort; the write already succeeded.
		_ = bm.CleanupOldBackups(path)
	}
	return nil
}
