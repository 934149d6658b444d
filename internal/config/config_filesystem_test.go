package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveDirCreationError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("cannot test permission errors as root")
	}

	// A file where the config directory should be blocks MkdirAll.
	parent := t.TempDir()
	dir := filepath.Join(parent, "blocked")
	if err := os.WriteFile(dir, []byte("blocking file"), 0o644); err != nil {
		t.Fatalf("write blocking file: %v", err)
	}

	if err := Save(dir, Default()); err == nil {
		t.Fatal("expected error when the config dir path is blocked by a file")
	}
}

func TestSaveFileWriteError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("cannot test permission errors as root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(dir, 0o755)

	if err := Save(dir, Default()); err == nil {
		t.Fatal("expected error when the settings file cannot be written")
	}
}

func TestLoadUnreadableFileFallsBackToDefaults(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("cannot test permission errors as root")
	}

	dir := t.TempDir()
	path := SettingsPath(dir)
	if err := os.WriteFile(path, []byte(`{}`), 0o000); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	defer os.Chmod(path, 0o644)

	s, err := Load(dir)
	if err == nil {
		t.Fatal("expected error when the settings file cannot be read")
	}
	if !strings.Contains(err.Error(), "read settings") {
		t.Errorf("error %q should mention reading settings", err)
	}
	if s == nil || s.SaveInterval == nil || *s.SaveInterval != DefaultSaveIntervalSeconds {
		t.Error("unreadable file did not fall back to defaults")
	}
}

func TestLoadDefaultWriteFailureStillReturnsDefaults(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("cannot test permission errors as root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(dir, 0o755)

	// Missing file: Load tries to write the defaults and cannot, but the
	// caller still gets usable settings.
	s, err := Load(dir)
	if err == nil {
		t.Fatal("expected error when the default file cannot be written")
	}
	if s == nil || s.SaveInterval == nil {
		t.Error("write failure did not yield usable defaults")
	}
}

func TestDefaultDirWithoutHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	if _, err := DefaultDir(); err == nil {
		t.Fatal("expected error when no home directory can be resolved")
	}
}

func TestNormalizeBackupDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := NormalizeBackupDir("~/backups")
	if err != nil {
		t.Fatalf("NormalizeBackupDir: %v", err)
	}
	if want := filepath.Join(home, "backups"); got != want {
		t.Errorf("NormalizeBackupDir(~/backups) = %q, want %q", got, want)
	}

	got, err = NormalizeBackupDir("~")
	if err != nil {
		t.Fatalf("NormalizeBackupDir(~): %v", err)
	}
	if got != home {
		t.Errorf("NormalizeBackupDir(~) = %q, want %q", got, home)
	}
}

func TestNormalizeBackupDirWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")

	if _, err := NormalizeBackupDir("~/backups"); err == nil {
		t.Fatal("expected error expanding ~ with no home directory")
	}
}

func TestNormalizeBackupDirRejectsBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		if _, err := NormalizeBackupDir(in); err == nil {
			t.Errorf("NormalizeBackupDir(%q) accepted a blank path", in)
		}
	}
}
