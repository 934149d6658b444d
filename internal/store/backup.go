package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backup file names carry the map-file stem and a timestamp so snapshots
// accumulate instead of overwriting each other. On-load backups use the
// date alone (at most one per day of interest); session backups add the
// time of day so several can land in one session.

// LoadBackupPath returns the destination for an on-load backup of the map
// with the given stem, taken at the given time.
func LoadBackupPath(dir, stem string, at time.Time) string {
	name := fmt.Sprintf("%s-load-backup-%s.json", stem, at.Format("06-01-02"))
	return filepath.Join(dir, name)
}

// SessionBackupPath returns the destination for an in-session backup of the
// map with the given stem, taken at the given time.
func SessionBackupPath(dir, stem string, at time.Time) string {
	name := fmt.Sprintf("%s-session-backup-%s.json", stem, at.Format("06-01-02-1504"))
	return filepath.Join(dir, name)
}

// WriteBackup writes an additive snapshot, creating the backup directory on
// first use. The canonical map file is never touched.
func WriteBackup(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	return Write(path, data)
}
