package app

import (
	"path/filepath"
	"testing"

	"github.com/notemap/notemap/internal/config"
)

func pressSettings(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		m.handleSettingsKey(key(k))
	}
}

func typeSettings(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		m.handleSettingsKey(key(string(r)))
	}
}

func newSettingsModel(t *testing.T) *Model {
	t.Helper()
	m := newStartModel(t)
	m.openSettings("")
	return m
}

func TestSettingsEditsDraftNotLiveConfig(t *testing.T) {
	m := newSettingsModel(t)

	pressSettings(t, m, "enter")
	if !m.sets.dirty {
		t.Fatal("cycling a row did not mark the draft dirty")
	}
	if *m.sets.draft.SaveInterval == *m.settings.SaveInterval {
		t.Fatal("cycle did not change the draft interval")
	}
	if *m.settings.SaveInterval != config.DefaultSaveIntervalSeconds {
		t.Error("live settings changed before save")
	}
}

func TestSettingsSavePersistsToDisk(t *testing.T) {
	m := newSettingsModel(t)

	pressSettings(t, m, "enter", "s")
	if m.sets.dirty {
		t.Fatal("draft still dirty after save")
	}
	if *m.settings.SaveInterval != 30 {
		t.Errorf("live interval = %d after save, want 30", *m.settings.SaveInterval)
	}

	persisted, err := config.Load(m.cfgDir)
	if err != nil {
		t.Fatal(err)
	}
	if persisted.SaveInterval == nil || *persisted.SaveInterval != 30 {
		t.Errorf("persisted interval = %v, want 30", persisted.SaveInterval)
	}
}

func TestSettingsBackupEnableAsksForDirectory(t *testing.T) {
	m := newSettingsModel(t)
	backupDir := filepath.Join(t.TempDir(), "backups")

	if got := len(m.sets.rows()); got != 5 {
		t.Fatalf("rows = %d with backups off, want 5", got)
	}

	pressSettings(t, m, "j", "enter")
	if !m.sets.prompt {
		t.Fatal("enabling backups did not open the directory prompt")
	}

	typeSettings(t, m, backupDir)
	pressSettings(t, m, "enter")
	if m.sets.prompt {
		t.Fatal("prompt still open after confirm")
	}
	if !m.sets.draft.BackupsEnabled() {
		t.Fatal("backups not enabled after confirming a directory")
	}
	if m.sets.draft.BackupDir != backupDir {
		t.Errorf("BackupDir = %q, want %q", m.sets.draft.BackupDir, backupDir)
	}
	if got := len(m.sets.rows()); got != 6 {
		t.Errorf("rows = %d with backups on, want the session row visible", got)
	}
}

func TestSettingsBackupPromptEscLeavesBackupsOff(t *testing.T) {
	m := newSettingsModel(t)

	pressSettings(t, m, "j", "enter")
	typeSettings(t, m, "half-typed")
	pressSettings(t, m, "esc")

	if m.sets.prompt {
		t.Fatal("esc did not close the prompt")
	}
	if m.sets.draft.BackupsEnabled() {
		t.Error("abandoned prompt enabled backups anyway")
	}
}

func TestSettingsBackupPromptRejectsEmptyPath(t *testing.T) {
	m := newSettingsModel(t)

	pressSettings(t, m, "j", "enter", "enter")
	if !m.sets.prompt {
		t.Fatal("prompt closed on an empty path")
	}
	if m.sets.errMsg == "" {
		t.Error("empty path produced no error")
	}
}

func TestSettingsTabCyclesBackupInterval(t *testing.T) {
	m := newSettingsModel(t)
	m.sets.draft.EnableBackups(t.TempDir())

	pressSettings(t, m, "j", "tab")
	if m.sets.prompt {
		t.Fatal("tab opened the directory prompt")
	}
	if got := *m.sets.draft.BackupEvery; got != config.BackupEvery3Days {
		t.Errorf("interval = %v after tab, want every 3 days", got)
	}
	if !m.sets.draft.BackupsEnabled() {
		t.Error("tab cycling disabled backups")
	}
}

func TestSettingsDisablingBackupsHidesSessionRow(t *testing.T) {
	m := newSettingsModel(t)
	m.sets.draft.EnableBackups(t.TempDir())
	// Park the cursor on the last row, then shrink the row set.
	m.sets.cursor = len(m.sets.rows()) - 1

	pressSettings(t, m, "k", "k", "k", "k")
	if row := m.sets.rows()[m.sets.cursor]; row != rowBackupEvery {
		t.Fatalf("cursor on row %v, want the backup row", row)
	}
	pressSettings(t, m, "enter")

	if m.sets.draft.BackupsEnabled() {
		t.Fatal("enter on an enabled backup row did not disable it")
	}
	if got := len(m.sets.rows()); got != 5 {
		t.Errorf("rows = %d, want the session row hidden", got)
	}
	if m.sets.cursor >= len(m.sets.rows()) {
		t.Error("cursor left past the shrunken row set")
	}
}

func TestSettingsSideAndModalRows(t *testing.T) {
	m := newSettingsModel(t)

	// Last three rows: start side, end side, modal edit.
	m.sets.cursor = 2
	pressSettings(t, m, "enter")
	if m.sets.draft.DefaultStartSide == m.settings.DefaultStartSide {
		t.Error("start side unchanged")
	}

	m.sets.cursor = 3
	pressSettings(t, m, "enter")
	if m.sets.draft.DefaultEndSide == m.settings.DefaultEndSide {
		t.Error("end side unchanged")
	}

	m.sets.cursor = 4
	pressSettings(t, m, "enter")
	if !m.sets.draft.ModalEdit {
		t.Error("modal edit not toggled on")
	}
	pressSettings(t, m, "enter")
	if m.sets.draft.ModalEdit {
		t.Error("modal edit not toggled back off")
	}
}

func TestSettingsLeaveGuardsUnsavedDraft(t *testing.T) {
	m := newSettingsModel(t)

	pressSettings(t, m, "enter", "q")
	if m.sets.pendingLeave == leaveNone {
		t.Fatal("dirty draft left without confirmation")
	}
	if m.scr != screenSettings {
		t.Fatal("left the settings screen before confirmation")
	}

	pressSettings(t, m, "esc")
	if m.sets.pendingLeave != leaveNone {
		t.Fatal("esc did not cancel the leave")
	}

	pressSettings(t, m, "q", "q")
	if m.scr != screenStart {
		t.Errorf("screen = %v after confirmed leave, want start", m.scr)
	}
	if *m.settings.SaveInterval != config.DefaultSaveIntervalSeconds {
		t.Error("discarded draft leaked into the live settings")
	}
}

func TestSettingsCleanDraftLeavesImmediately(t *testing.T) {
	m := newSettingsModel(t)
	pressSettings(t, m, "q")
	if m.scr != screenStart {
		t.Errorf("screen = %v, want start", m.scr)
	}
}

func TestSettingsReturnsToMap(t *testing.T) {
	m := newSettingsModel(t)
	path := filepath.Join(t.TempDir(), "back.json")
	m.sets.returnPath = path

	pressSettings(t, m, "o")
	if m.scr != screenMap {
		t.Fatalf("screen = %v after o, want map", m.scr)
	}
	if m.mapPath != path {
		t.Errorf("mapPath = %q, want %q", m.mapPath, path)
	}
}
