package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultBackupRetention is the number of backups kept per file.
const DefaultBackupRetention = 3

// BackupManager keeps timestamped copies of a file before it is overwritten.
type BackupManager struct {
	MaxBackups int
}

// NewBackupManager creates a BackupManager; non-positive retention falls
// back to the default.
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{MaxBackups: maxBackups}
}

// CreateBackup copies filePath to filePath.backup-YYYYMMDDHHMMSS-PID and
// returns the backup path.
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	timestamp := time.Now().Format("20060102150405")
	backupPath := fmt.Sprintf("%s.backup-%s-%d", filePath, timestamp, os.Getpid())

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}

// ListBackups returns all backups of filePath, oldest first.
func (bm *BackupManager) ListBackups(filePath string) ([]string, error) {
	backups, err := filepath.Glob(filePath + ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	sort.Slice(backups, func(i, j int) bool {
		iInfo, err1 := os.Stat(backups[i])
		jInfo, err2 := os.Stat(backups[j])
		if err1 != nil || err2 != nil {
			return false
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})
	return backups, nil
}

// CleanupOldBackups removes backups beyond the retention count.
func (bm *BackupManager) CleanupOldBackups(filePath string) error {
	backups, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}
	excess := len(backups) - bm.MaxBackups
	if excess <= 0 {
		return nil
	}
	for _, old := range backups[:excess] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", old, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
