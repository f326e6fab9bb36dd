// Package safeio is the write sink for generated configuration: prior
// contents are snapshotted to a timestamped sibling before anything is
// overwritten, and file permissions survive the rewrite.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return filepath.ToSlash(c), nil
}

// BackupPath returns the sibling path prior contents are copied to before
// path is overwritten: the final extension is replaced with
// ".backup.<YYYYMMDD_HHMMSS>.xml", so jdk.table.xml becomes
// jdk.table.backup.20240601_150405.xml.
func BackupPath(path string, now time.Time) string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s.backup.%s.xml", stem, now.Format("20060102_150405"))
}

// WriteWithBackup writes data to path. When the file already exists, its
// contents are first copied to the BackupPath sibling; the returned backup
// path is empty when there was nothing to back up. Parent directories are
// created as needed.
func WriteWithBackup(path string, data []byte, now time.Time) (backup string, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}

	if prior, readErr := os.ReadFile(path); readErr == nil { // #nosec G304 -- caller-controlled config path
		backup = BackupPath(path, now)
		if err := WriteFilePreservePerms(backup, prior); err != nil {
			return "", fmt.Errorf("writing backup %s: %w", backup, err)
		}
	} else if !os.IsNotExist(readErr) {
		return "", fmt.Errorf("reading prior contents: %w", readErr)
	}

	if err := WriteFilePreservePerms(path, data); err != nil {
		return "", err
	}
	return backup, nil
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}

// ReadFileIfExists returns the file's contents, or nil with no error when
// the file does not exist. Any other read failure is surfaced.
func ReadFileIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-controlled config path
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
