package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notemap/notemap/internal/config"
)

// The settings screen edits a working copy of the settings; nothing
// reaches disk or the live configuration until 's' saves it. Leaving with
// unsaved changes asks for confirmation, like leaving a dirty map.

type settingsRow int

const (
	rowSaveInterval settingsRow = iota
	rowBackupEvery
	rowSessionBackupEvery
	rowStartSide
	rowEndSide
	rowModalEdit
)

type settingsState struct {
	draft  *config.Settings
	dirty  bool
	cursor int

	// returnPath is the map to go back to on 'o'; empty when the screen
	// was opened from the start screen.
	returnPath string

	prompt   bool
	dirInput textinput.Model

	pendingLeave leaveTarget
	errMsg       string
}

// openSettings switches to the settings screen. returnPath carries the map
// to reopen when the user leaves toward the map again.
func (m *Model) openSettings(returnPath string) {
	dir := textinput.New()
	dir.Placeholder = "backup directory"
	dir.CharLimit = 200
	m.sets = settingsState{
		draft:      cloneSettings(m.settings),
		returnPath: returnPath,
		dirInput:   dir,
	}
	m.scr = screenSettings
}

// cloneSettings deep-copies the settings so the draft can be edited and
// thrown away.
func cloneSettings(s *config.Settings) *config.Settings {
	c := *s
	if s.SaveInterval != nil {
		v := *s.SaveInterval
		c.SaveInterval = &v
	}
	if s.BackupEvery != nil {
		v := *s.BackupEvery
		c.BackupEvery = &v
	}
	if s.SessionBackupEvery != nil {
		v := *s.SessionBackupEvery
		c.SessionBackupEvery = &v
	}
	if s.BackupDates != nil {
		c.BackupDates = make(map[string]time.Time, len(s.BackupDates))
		for k, v := range s.BackupDates {
			c.BackupDates[k] = v
		}
	}
	return &c
}

// rows returns the visible rows in order. The session-backup row only
// shows while backups are enabled at all.
func (s *settingsState) rows() []settingsRow {
	rows := []settingsRow{rowSaveInterval, rowBackupEvery}
	if s.draft.BackupsEnabled() {
		rows = append(rows, rowSessionBackupEvery)
	}
	return append(rows, rowStartSide, rowEndSide, rowModalEdit)
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.sets
	if m.help.open {
		m.handleHelpKey(msg)
		return m, nil
	}
	if s.pendingLeave != leaveNone {
		return m.handleSettingsDiscardKey(msg.String())
	}
	if s.prompt {
		return m.handleBackupDirPrompt(msg)
	}

	rows := s.rows()
	switch msg.String() {
	case "q":
		return m.leaveSettings(leaveToStart)
	case "o":
		if s.returnPath == "" {
			return m.leaveSettings(leaveToStart)
		}
		return m.leaveSettings(leaveToMap)
	case "?", "f1":
		m.help.show(helpPagePersistence)
		return m, nil
	case "j", "down":
		if s.cursor < len(rows)-1 {
			s.cursor++
		}
		return m, nil
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
		return m, nil
	case "enter":
		m.activateSettingsRow(rows[s.cursor], false)
		return m, nil
	case "tab":
		m.activateSettingsRow(rows[s.cursor], true)
		return m, nil
	case "s":
		return m.saveSettings()
	}
	return m, nil
}

// activateSettingsRow applies a row's action. cycle distinguishes Tab on
// the backup row, which cycles the interval instead of toggling backups
// through the directory prompt.
func (m *Model) activateSettingsRow(row settingsRow, cycle bool) {
	s := &m.sets
	switch row {
	case rowSaveInterval:
		s.draft.CycleSaveInterval()
	case rowBackupEvery:
		switch {
		case !s.draft.BackupsEnabled() && !cycle:
			s.prompt = true
			s.dirInput.SetValue(s.draft.BackupDir)
			s.dirInput.Focus()
			return
		case !cycle:
			s.draft.DisableBackups()
		default:
			s.draft.CycleBackupEvery()
		}
	case rowSessionBackupEvery:
		s.draft.CycleSessionBackupEvery()
	case rowStartSide:
		s.draft.DefaultStartSide = s.draft.DefaultStartSide.Next()
	case rowEndSide:
		s.draft.DefaultEndSide = s.draft.DefaultEndSide.Next()
	case rowModalEdit:
		s.draft.ModalEdit = !s.draft.ModalEdit
	}
	s.dirty = true

	// Keep the cursor on a visible row when the row set shrank.
	if rows := s.rows(); s.cursor >= len(rows) {
		s.cursor = len(rows) - 1
	}
}

func (m *Model) handleBackupDirPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.sets
	switch msg.String() {
	case "esc":
		// Abandoning the prompt means backups stay off.
		s.prompt = false
		s.dirInput.Blur()
		s.draft.DisableBackups()
		s.dirty = true
		return m, nil
	case "enter":
		dir, err := config.NormalizeBackupDir(s.dirInput.Value())
		if err != nil {
			s.errMsg = err.Error()
			return m, nil
		}
		s.draft.EnableBackups(dir)
		s.prompt = false
		s.dirInput.Blur()
		s.dirty = true
		s.errMsg = ""
		return m, nil
	}
	var cmd tea.Cmd
	s.dirInput, cmd = s.dirInput.Update(msg)
	return m, cmd
}

func (m *Model) saveSettings() (tea.Model, tea.Cmd) {
	s := &m.sets
	if err := config.Save(m.cfgDir, s.draft); err != nil {
		s.errMsg = err.Error()
		m.log.Error("save settings", "error", err)
		return m, nil
	}
	m.settings = s.draft
	s.draft = cloneSettings(m.settings)
	s.dirty = false
	s.errMsg = ""
	m.setStatus("Settings saved")
	return m, nil
}

// leaveSettings leaves toward the start screen or back to the map,
// confirming first when the draft has unsaved changes.
func (m *Model) leaveSettings(target leaveTarget) (tea.Model, tea.Cmd) {
	s := &m.sets
	if s.dirty {
		s.pendingLeave = target
		return m, nil
	}
	return m.settingsLeaveNow(target)
}

func (m *Model) settingsLeaveNow(target leaveTarget) (tea.Model, tea.Cmd) {
	returnPath := m.sets.returnPath
	if target == leaveToMap && returnPath != "" {
		cmd, err := m.openMap(returnPath)
		if err == nil {
			return m, cmd
		}
		// Fall through to the start screen with the failure in view.
		m.log.Error("reopen map", "path", returnPath, "error", err)
		m.start = newStartState(m.cfgDir)
		m.start.errMsg = err.Error()
		m.scr = screenStart
		return m, nil
	}
	m.start = newStartState(m.cfgDir)
	m.scr = screenStart
	return m, nil
}

func (m *Model) handleSettingsDiscardKey(key string) (tea.Model, tea.Cmd) {
	s := &m.sets
	switch key {
	case "q":
		target := s.pendingLeave
		s.pendingLeave = leaveNone
		s.dirty = false
		return m.settingsLeaveNow(target)
	case "esc":
		s.pendingLeave = leaveNone
	}
	return m, nil
}

func (m *Model) viewSettings() string {
	s := &m.sets
	if m.help.open {
		return padBlock(m.help.view(), m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	for i, row := range s.rows() {
		line := fmt.Sprintf("%-26s %s", settingsRowLabel(row), m.settingsRowValue(row))
		if i == s.cursor && !s.prompt {
			line = selectStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if s.prompt {
		b.WriteString("\n")
		b.WriteString(s.dirInput.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter confirms · esc leaves backups off"))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(s.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := "enter/tab change · s saves · q start screen"
	if s.returnPath != "" {
		hint += " · o back to map"
	}
	if s.dirty {
		hint += " · unsaved"
	}
	b.WriteString(mutedStyle.Render(hint))

	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
	if s.pendingLeave != leaveNone {
		content = m.viewDiscardPopup(m.height)
	}
	return content
}

func settingsRowLabel(row settingsRow) string {
	switch row {
	case rowSaveInterval:
		return "Autosave interval"
	case rowBackupEvery:
		return "Backup on open"
	case rowSessionBackupEvery:
		return "Backup during session"
	case rowStartSide:
		return "Connection start side"
	case rowEndSide:
		return "Connection end side"
	default:
		return "Modal editing"
	}
}

func (m *Model) settingsRowValue(row settingsRow) string {
	s := m.sets.draft
	switch row {
	case rowSaveInterval:
		if s.SaveInterval == nil {
			return "Off"
		}
		return fmt.Sprintf("Every %d seconds", *s.SaveInterval)
	case rowBackupEvery:
		if !s.BackupsEnabled() {
			return "Off"
		}
		return fmt.Sprintf("%s → %s", s.BackupEvery.Label(), s.BackupDir)
	case rowSessionBackupEvery:
		if s.SessionBackupEvery == nil {
			return "Off"
		}
		return s.SessionBackupEvery.Label()
	case rowStartSide:
		return s.DefaultStartSide.String()
	case rowEndSide:
		return s.DefaultEndSide.String()
	default:
		if s.ModalEdit {
			return "On"
		}
		return "Off"
	}
}
