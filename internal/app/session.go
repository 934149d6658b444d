package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notemap/notemap/internal/canvas"
	"github.com/notemap/notemap/internal/config"
	"github.com/notemap/notemap/internal/editor"
	"github.com/notemap/notemap/internal/store"
)

// openMap opens the map file at path, creating it when absent, and switches
// to the map screen. The returned command arms the file watcher. The error
// is surfaced by the caller; a corrupt file never becomes an empty map.
func (m *Model) openMap(path string) (tea.Cmd, error) {
	var (
		cm  *canvas.Map
		vp  canvas.Viewport
		sum uint64
	)

	loaded, err := store.Load(path)
	switch {
	case err == nil:
		cm, vp, sum = loaded.Map, loaded.Viewport, loaded.Sum
		m.maybeLoadBackup(path)
	case errors.Is(err, os.ErrNotExist):
		cm = canvas.NewMap()
		data, encErr := store.Encode(cm, vp)
		if encErr != nil {
			return nil, encErr
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o700); mkErr != nil {
			return nil, fmt.Errorf("create map directory: %w", mkErr)
		}
		if wErr := store.Write(path, data); wErr != nil {
			return nil, fmt.Errorf("create map file: %w", wErr)
		}
		sum = store.Sum(data)
	default:
		return nil, err
	}

	m.closeMap()

	m.mapPath = path
	m.cmap = cm
	m.vp.X, m.vp.Y = vp.X, vp.Y
	m.mode = modeNormal{}
	m.pendingLeave = leaveNone
	m.help.open = false
	m.scr = screenMap
	m.saving = false
	now := m.clock()
	m.lastSave = now
	m.lastSessionBackup = now

	m.rememberRecent(path)

	w, err := store.WatchFile(path, sum)
	if err != nil {
		// The watcher is a courtesy; the map works without it.
		m.log.Warn("watch map file", "path", path, "error", err)
		return nil, nil
	}
	m.watcher = w
	return waitForChange(w), nil
}

// closeMap tears down the open map session.
func (m *Model) closeMap() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	m.cmap = nil
	m.mapPath = ""
	m.mode = modeNormal{}
	m.pendingLeave = leaveNone
	m.saving = false
	m.help.open = false
}

// rememberRecent records a successfully opened map on the recent list.
func (m *Model) rememberRecent(path string) {
	if m.start.recent.Contains(path) {
		return
	}
	m.start.recent.Add(path)
	if err := store.SaveRecent(m.cfgDir, m.start.recent); err != nil {
		m.log.Warn("save recent paths", "error", err)
	}
}

// maybeLoadBackup writes an on-load backup of the map file when the
// configured interval has elapsed since the last one, then records the
// backup date in the settings registry. Runs before any edits happen, so
// the snapshot is the file exactly as the session found it.
func (m *Model) maybeLoadBackup(path string) {
	if !m.settings.BackupsEnabled() {
		return
	}
	stem := store.Stem(path)
	now := m.clock()
	if last, ok := m.settings.LastBackup(stem); ok && now.Sub(last) < m.settings.BackupEvery.Duration() {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.setStatusError("Backup failed", err)
		return
	}
	dest := store.LoadBackupPath(m.settings.BackupDir, stem, now)
	if err := store.WriteBackup(dest, data); err != nil {
		m.setStatusError("Backup failed", err)
		return
	}
	m.setStatus("Backup written")

	m.settings.RecordBackup(stem, now)
	if err := config.Save(m.cfgDir, m.settings); err != nil {
		m.setStatusError("Backup done, recording its date failed", err)
	}
}

// requestLeave starts a screen change away from the map. A dirty map gets
// the discard-confirmation menu first; a clean one leaves immediately.
func (m *Model) requestLeave(target leaveTarget) (tea.Model, tea.Cmd) {
	if m.dirty() {
		m.pendingLeave = target
		return m, nil
	}
	return m.leaveTo(target)
}

// leaveTo performs the screen change. Entering settings closes the map
// session but remembers the path so the settings screen can lead back.
func (m *Model) leaveTo(target leaveTarget) (tea.Model, tea.Cmd) {
	returnPath := m.mapPath
	m.closeMap()
	switch target {
	case leaveToSettings:
		m.openSettings(returnPath)
	default:
		m.start = newStartState(m.cfgDir)
		m.scr = screenStart
	}
	return m, nil
}

// handleDiscardKey runs the discard-confirmation menu: q confirms the
// pending exit, abandoning unsaved changes; esc cancels.
func (m *Model) handleDiscardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		target := m.pendingLeave
		m.pendingLeave = leaveNone
		return m.leaveTo(target)
	case "esc":
		m.pendingLeave = leaveNone
	}
	return m, nil
}

// focusNote makes a note the visual focus: raised to the front and centered
// in the viewport. The viewport position is persisted state, so the move
// dirties the map.
func (m *Model) focusNote(id canvas.NoteID) {
	m.cmap.RaiseNote(id)
	n, ok := m.cmap.Note(id)
	if !ok {
		return
	}
	b := n.Bounds()
	m.vp.CenterOn(b.X+b.W/2, b.Y+b.H/2)
	m.cmap.MarkDirty()
}

// ensureNoteVisible pans the viewport the minimal distance that brings the
// note's box fully into view (or its top-left corner, when the box exceeds
// the viewport).
func (m *Model) ensureNoteVisible(id canvas.NoteID) {
	n, ok := m.cmap.Note(id)
	if !ok {
		return
	}
	b := n.Bounds()
	if b.X+b.W > m.vp.X+m.vp.W {
		m.vp.X = b.X + b.W - m.vp.W
	}
	if b.Y+b.H > m.vp.Y+m.vp.H {
		m.vp.Y = b.Y + b.H - m.vp.H
	}
	if b.X < m.vp.X {
		m.vp.X = b.X
	}
	if b.Y < m.vp.Y {
		m.vp.Y = b.Y
	}
	m.vp.Scroll(0, 0)
}

// enterEdit opens an editing session on the note's body. With modal
// editing enabled the session starts in the normal sub-mode.
func (m *Model) enterEdit(id canvas.NoteID) {
	n, ok := m.cmap.Note(id)
	if !ok {
		return
	}
	sub := editInsert
	if m.settings.ModalEdit {
		sub = editNormal
	}
	m.mode = modeEdit{
		note:    id,
		session: editor.NewSession(n.Body),
		modal:   m.settings.ModalEdit,
		sub:     sub,
	}
}

// commitEdit writes the edited body back into the note and returns to
// Normal. The session is discarded with the mode.
func (m *Model) commitEdit(mode modeEdit) {
	m.cmap.SetNoteBody(mode.note, mode.session.Lines())
	m.mode = modeNormal{}
}
