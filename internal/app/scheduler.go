package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notemap/notemap/internal/store"
)

// The persistence scheduler is a once-per-second check against injected
// clock time, not a free-running timer: autosave and session backups fire
// from handleTick when their interval has elapsed, which keeps the policy
// deterministic under test.

const tickEvery = time.Second

type tickMsg time.Time

// saveResultMsg reports a finished write of the canonical map file.
type saveResultMsg struct {
	manual bool
	err    error
}

// backupResultMsg reports a finished session-backup write.
type backupResultMsg struct {
	err error
}

// mapChangedMsg reports that the open map file changed on disk under us.
type mapChangedMsg struct{}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// handleTick evaluates the autosave and session-backup policies. A due
// autosave is skipped while a write is already in flight; the dirty flag
// keeps it due, so the next tick picks it up.
func (m *Model) handleTick() tea.Cmd {
	if m.scr != screenMap || m.cmap == nil {
		return nil
	}
	now := m.clock()
	var cmds []tea.Cmd

	if interval, ok := m.settings.SaveEvery(); ok && m.cmap.Dirty() && !m.saving && now.Sub(m.lastSave) >= interval {
		if cmd := m.saveMapCmd(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.settings.SessionBackupsEnabled() && now.Sub(m.lastSessionBackup) >= m.settings.SessionBackupEvery.Duration() {
		if cmd := m.sessionBackupCmd(now); cmd != nil {
			m.lastSessionBackup = now
			cmds = append(cmds, cmd)
		}
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// saveMapCmd snapshots the map synchronously and returns a command that
// writes it in the background. The map is marked clean at snapshot time;
// mutations that land while the write is in flight re-dirty it on their
// own, and a failed write re-dirties it so a retry stays due.
func (m *Model) saveMapCmd(manual bool) tea.Cmd {
	if m.cmap == nil {
		return nil
	}
	if m.saving {
		// The map stays dirty, so the scheduler retries on a later tick.
		if manual {
			m.setStatus("Save already in progress")
		}
		return nil
	}
	data, err := store.Encode(m.cmap, m.vp)
	if err != nil {
		m.setStatusError("Save failed", err)
		return nil
	}

	m.cmap.MarkClean()
	m.saving = true
	m.lastSave = m.clock()
	if m.watcher != nil {
		m.watcher.RecordOwnWrite(store.Sum(data))
	}

	path := m.mapPath
	return func() tea.Msg {
		return saveResultMsg{manual: manual, err: store.Write(path, data)}
	}
}

func (m *Model) handleSaveResult(msg saveResultMsg) {
	m.saving = false
	if msg.err != nil {
		if m.cmap != nil {
			m.cmap.MarkDirty()
		}
		m.setStatusError("Save failed", msg.err)
		return
	}
	if msg.manual {
		m.setStatus("Saved")
	}
	m.log.Debug("map saved", "path", m.mapPath, "manual", msg.manual)
}

// sessionBackupCmd snapshots the map and writes an additive timestamped
// backup. Backups never touch the canonical file, so they may overlap an
// autosave safely.
func (m *Model) sessionBackupCmd(now time.Time) tea.Cmd {
	data, err := store.Encode(m.cmap, m.vp)
	if err != nil {
		m.setStatusError("Backup failed", err)
		return nil
	}
	dest := store.SessionBackupPath(m.settings.BackupDir, store.Stem(m.mapPath), now)
	return func() tea.Msg {
		return backupResultMsg{err: store.WriteBackup(dest, data)}
	}
}

func (m *Model) handleBackupResult(msg backupResultMsg) {
	if msg.err != nil {
		m.setStatusError("Backup failed", msg.err)
		return
	}
	m.setStatus("Backup written")
}

// waitForChange blocks on the watcher until the map file changes
// externally. The command resolves to nil when the watcher closes.
func waitForChange(w *store.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changed(); ok {
			return mapChangedMsg{}
		}
		return nil
	}
}
