package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupFileNames(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)

	got := LoadBackupPath("/backups", "plan", at)
	if got != filepath.Join("/backups", "plan-load-backup-26-08-31.json") {
		t.Fatalf("load backup path = %q", got)
	}

	got = SessionBackupPath("/backups", "plan", at)
	if got != filepath.Join("/backups", "plan-session-backup-26-08-31-1405.json") {
		t.Fatalf("session backup path = %q", got)
	}
}

func TestWriteBackupCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	path := LoadBackupPath(dir, "plan", time.Now())

	if err := WriteBackup(path, []byte("snapshot\n")); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "snapshot\n" {
		t.Fatalf("content = %q", data)
	}
}

func TestBackupsAreAdditive(t *testing.T) {
	dir := t.TempDir()
	day1 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	if err := WriteBackup(LoadBackupPath(dir, "plan", day1), []byte("one")); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if err := WriteBackup(LoadBackupPath(dir, "plan", day2), []byte("two")); err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two backup snapshots, found %d", len(entries))
	}
}
