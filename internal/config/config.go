// Package config owns the persisted user settings: autosave and backup
// policy, connection side defaults, and the modal-editing toggle. Settings
// are loaded once at startup and passed by reference to every component
// that reads them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/notemap/notemap/internal/canvas"
)

const (
	configDirName    = "notemap"
	settingsFileName = "settings.json"

	// DefaultSaveIntervalSeconds is the autosave interval written on first
	// boot.
	DefaultSaveIntervalSeconds = 20
)

// Settings stores the user-tunable behavior. Nil pointer fields mean the
// feature is off.
type Settings struct {
	// SaveInterval is the autosave interval in seconds; nil disables
	// autosaving (manual save stays available).
	SaveInterval *int `json:"save_interval,omitempty"`

	// BackupEvery is the on-load backup interval; nil disables on-load
	// backups.
	BackupEvery *BackupInterval `json:"backup_every,omitempty"`

	// SessionBackupEvery is the in-session backup interval; nil disables
	// session backups.
	SessionBackupEvery *SessionBackupInterval `json:"session_backup_every,omitempty"`

	// BackupDir receives backup copies. Backups as a whole are off while it
	// is empty.
	BackupDir string `json:"backup_dir,omitempty"`

	// BackupDates records, per map-file stem, when the last on-load backup
	// was taken.
	BackupDates map[string]time.Time `json:"backup_dates,omitempty"`

	// DefaultStartSide and DefaultEndSide seed the anchor sides of newly
	// created connections.
	DefaultStartSide canvas.Side `json:"default_start_side"`
	DefaultEndSide   canvas.Side `json:"default_end_side"`

	// ModalEdit switches note editing to the two-sub-mode style: insert
	// and normal, vim fashion.
	ModalEdit bool `json:"modal_edit"`
}

// Default returns the first-boot settings.
func Default() *Settings {
	interval := DefaultSaveIntervalSeconds
	return &Settings{
		SaveInterval:     &interval,
		DefaultStartSide: canvas.Right,
		DefaultEndSide:   canvas.Right,
	}
}

// Validate checks the settings for internal consistency.
func (s *Settings) Validate() error {
	sides := []interface{}{canvas.Top, canvas.Bottom, canvas.Left, canvas.Right}
	return validation.ValidateStruct(s,
		validation.Field(&s.SaveInterval, validation.Min(1)),
		validation.Field(&s.BackupEvery,
			validation.In(BackupDaily, BackupEvery3Days, BackupWeekly, BackupEvery2Weeks)),
		validation.Field(&s.SessionBackupEvery,
			validation.In(SessionBackup1h, SessionBackup2h, SessionBackup4h, SessionBackup6h, SessionBackup12h)),
		validation.Field(&s.BackupDir,
			validation.Required.When(s.BackupEvery != nil || s.SessionBackupEvery != nil).
				Error("backup directory is required while a backup interval is set")),
		validation.Field(&s.DefaultStartSide, validation.In(sides...)),
		validation.Field(&s.DefaultEndSide, validation.In(sides...)),
	)
}

// AutosaveEnabled reports whether the scheduler should autosave.
func (s *Settings) AutosaveEnabled() bool { return s.SaveInterval != nil }

// SaveEvery returns the autosave interval. ok is false when autosaving is
// disabled.
func (s *Settings) SaveEvery() (time.Duration, bool) {
	if s.SaveInterval == nil {
		return 0, false
	}
	return time.Duration(*s.SaveInterval) * time.Second, true
}

// BackupsEnabled reports whether on-load backups should run. Both a
// directory and an interval are required.
func (s *Settings) BackupsEnabled() bool {
	return s.BackupDir != "" && s.BackupEvery != nil
}

// SessionBackupsEnabled reports whether in-session backups should run.
func (s *Settings) SessionBackupsEnabled() bool {
	return s.BackupDir != "" && s.SessionBackupEvery != nil
}

// EnableBackups turns backups on against the given directory, seeding the
// intervals that are still unset with daily on-load and two-hourly session
// backups.
func (s *Settings) EnableBackups(dir string) {
	s.BackupDir = dir
	if s.BackupEvery == nil {
		v := BackupDaily
		s.BackupEvery = &v
	}
	if s.SessionBackupEvery == nil {
		v := SessionBackup2h
		s.SessionBackupEvery = &v
	}
}

// DisableBackups turns backups off and drops the backup configuration. The
// per-file backup dates survive so re-enabling does not trigger an
// immediate round of on-load backups.
func (s *Settings) DisableBackups() {
	s.BackupDir = ""
	s.BackupEvery = nil
	s.SessionBackupEvery = nil
}

// CycleSaveInterval advances the autosave interval through
// off, 10s, 20s, 30s, 60s and back to off.
func (s *Settings) CycleSaveInterval() {
	steps := []int{10, 20, 30, 60}
	set := func(v int) { s.SaveInterval = &v }
	if s.SaveInterval == nil {
		set(steps[0])
		return
	}
	for i, v := range steps {
		if *s.SaveInterval == v {
			if i == len(steps)-1 {
				s.SaveInterval = nil
			} else {
				set(steps[i+1])
			}
			return
		}
	}
	// A hand-edited value off the cycle restarts it.
	set(steps[0])
}

// CycleBackupEvery advances the on-load backup interval, wrapping. Starting
// from unset selects daily.
func (s *Settings) CycleBackupEvery() {
	if s.BackupEvery == nil {
		v := BackupDaily
		s.BackupEvery = &v
		return
	}
	v := s.BackupEvery.Next()
	s.BackupEvery = &v
}

// CycleSessionBackupEvery advances the session backup interval, wrapping.
// Starting from unset selects hourly.
func (s *Settings) CycleSessionBackupEvery() {
	if s.SessionBackupEvery == nil {
		v := SessionBackup1h
		s.SessionBackupEvery = &v
		return
	}
	v := s.SessionBackupEvery.Next()
	s.SessionBackupEvery = &v
}

// LastBackup returns when the map file with the given stem last received an
// on-load backup.
func (s *Settings) LastBackup(stem string) (time.Time, bool) {
	t, ok := s.BackupDates[stem]
	return t, ok
}

// RecordBackup stores the on-load backup time for a map-file stem.
func (s *Settings) RecordBackup(stem string, at time.Time) {
	if s.BackupDates == nil {
		s.BackupDates = make(map[string]time.Time)
	}
	s.BackupDates[stem] = at
}

// DefaultDir returns the per-user settings directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, configDirName), nil
}

// SettingsPath returns the settings file path under the given directory.
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// Load reads the settings file under dir. The returned settings are always
// usable: a missing file yields the defaults (and writes them, so the file
// exists for hand-editing), and a malformed or invalid file yields the
// defaults alongside the error so the caller can warn without dying.
func Load(dir string) (*Settings, error) {
	path := SettingsPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s := Default()
			if saveErr := Save(dir, s); saveErr != nil {
				return s, fmt.Errorf("write default settings: %w", saveErr)
			}
			return s, nil
		}
		return Default(), fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// Save validates and writes the settings file under dir.
func Save(dir string, s *Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(SettingsPath(dir), data, 0o600)
}

// NormalizeBackupDir expands and absolutizes a user-entered backup
// directory path.
func NormalizeBackupDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
