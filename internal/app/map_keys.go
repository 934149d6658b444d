package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notemap/notemap/internal/canvas"
)

// handleMapKey interprets one keystroke under the current map mode. The
// help overlay and the discard-confirmation menu intercept everything
// while they are up. A key with no binding in the current mode is a no-op,
// never an error.
func (m *Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.open {
		m.handleHelpKey(msg)
		return m, nil
	}
	if m.pendingLeave != leaveNone {
		return m.handleDiscardKey(msg.String())
	}

	switch mode := m.mode.(type) {
	case modeNormal:
		return m.handleNormalKey(msg)
	case modeVisual:
		return m.handleVisualKey(mode, msg)
	case modeVisualMove:
		return m.handleVisualMoveKey(mode, msg)
	case modeVisualConnection:
		return m.handleConnectionKey(mode, msg)
	case modeDelete:
		return m.handleDeleteKey(mode, msg)
	case modeEdit:
		return m.handleEditKey(mode, msg)
	}
	return m, nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m.requestLeave(leaveToStart)
	case "o":
		return m.requestLeave(leaveToSettings)
	case "?", "f1":
		m.help.show(helpPageMap)
		return m, nil
	case "s":
		return m, m.saveMapCmd(true)
	case "a":
		cx, cy := m.vp.Center()
		id := m.cmap.AddNote(cx, cy, canvas.White)
		m.enterEdit(id)
		return m, nil
	case "v":
		if id, ok := m.cmap.ClosestNote(m.vp.Center()); ok {
			m.mode = modeVisual{note: id}
			m.cmap.RaiseNote(id)
		}
		return m, nil
	}

	if dir, step, ok := directionForKey(key); ok {
		dx, dy := delta(dir, step)
		m.vp.Scroll(dx, dy)
		// The viewport position is saved with the map.
		m.cmap.MarkDirty()
	}
	return m, nil
}

func (m *Model) handleVisualKey(mode modeVisual, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		m.mode = modeNormal{}
		return m, nil
	case "i":
		m.enterEdit(mode.note)
		return m, nil
	case "m":
		m.mode = modeVisualMove{note: mode.note}
		return m, nil
	case "c":
		next := modeVisualConnection{note: mode.note}
		if attached := m.cmap.ConnectionsOf(mode.note); len(attached) > 0 {
			next.conn = attached[0]
			next.focused = true
		}
		m.mode = next
		return m, nil
	case "C":
		return m.startConnectionPlacement(mode.note)
	case "d":
		m.mode = modeDelete{note: mode.note}
		return m, nil
	case "e":
		m.cmap.CycleNoteColor(mode.note)
		return m, nil
	case "y":
		m.yankNote(mode.note)
		return m, nil
	}

	if dir, _, ok := directionForKey(key); ok {
		if next, found := m.cmap.NextInDirection(mode.note, dir); found {
			m.mode = modeVisual{note: next}
			m.focusNote(next)
		}
	}
	return m, nil
}

// startConnectionPlacement creates the placeholder self-loop that the
// placement flow retargets. The default end side is advanced one step when
// the settings defaults coincide, keeping the placeholder legal.
func (m *Model) startConnectionPlacement(note canvas.NoteID) (tea.Model, tea.Cmd) {
	fromSide := m.settings.DefaultStartSide
	toSide := m.settings.DefaultEndSide
	if toSide == fromSide {
		toSide = toSide.Next()
	}
	id, err := m.cmap.AddConnection(note, note, fromSide, toSide, canvas.White)
	if err != nil {
		m.log.Warn("create connection", "note", int(note), "error", err)
		return m, nil
	}
	m.mode = modeVisualConnection{note: note, conn: id, focused: true, placing: true}
	return m, nil
}

func (m *Model) handleVisualMoveKey(mode modeVisualMove, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "m":
		m.mode = modeVisual{note: mode.note}
		return m, nil
	case "esc":
		m.mode = modeNormal{}
		return m, nil
	}

	if dir, step, ok := directionForKey(key); ok {
		dx, dy := delta(dir, step)
		m.cmap.MoveNote(mode.note, dx, dy)
		m.ensureNoteVisible(mode.note)
	}
	return m, nil
}

func (m *Model) handleConnectionKey(mode modeVisualConnection, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "c":
		m.mode = modeVisual{note: mode.note}
		return m, nil
	case "r":
		if mode.focused {
			m.cmap.RotateSidesAt(mode.conn, mode.note)
		}
		return m, nil
	case "n":
		if mode.placing {
			return m, nil
		}
		// Without a focus, mode.conn is meaningless; start from the first
		// attached connection instead of cycling past it.
		if !mode.focused {
			if attached := m.cmap.ConnectionsOf(mode.note); len(attached) > 0 {
				mode.conn = attached[0]
				mode.focused = true
				m.mode = mode
			}
			return m, nil
		}
		if next, ok := m.cmap.NextConnectionOf(mode.note, mode.conn); ok {
			mode.conn = next
			m.mode = mode
		}
		return m, nil
	case "d":
		if mode.focused && !mode.placing {
			m.cmap.DeleteConnection(mode.conn)
			m.mode = modeVisual{note: mode.note}
		}
		return m, nil
	case "e":
		if mode.focused {
			m.cmap.CycleConnectionColor(mode.conn)
		}
		return m, nil
	}

	// Directional keys move the selection and drag the focused
	// connection's target end along to the newly selected note.
	if dir, _, ok := directionForKey(key); ok {
		next, found := m.cmap.NextInDirection(mode.note, dir)
		if !found {
			return m, nil
		}
		if mode.focused {
			if err := m.cmap.RetargetConnection(mode.conn, next, m.settings.DefaultEndSide); err != nil {
				m.log.Warn("retarget connection", "connection", int(mode.conn), "error", err)
				return m, nil
			}
			mode.placing = false
		}
		mode.note = next
		m.mode = mode
		m.focusNote(next)
	}
	return m, nil
}

func (m *Model) handleDeleteKey(mode modeDelete, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		if _, cascaded, ok := m.cmap.DeleteNote(mode.note); ok {
			if n := len(cascaded); n > 0 {
				m.setStatus(fmt.Sprintf("Deleted note and %d connection(s)", n))
			} else {
				m.setStatus("Deleted note")
			}
		}
		m.mode = modeNormal{}
	case "esc":
		m.mode = modeVisual{note: mode.note}
	}
	return m, nil
}

func (m *Model) handleEditKey(mode modeEdit, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if mode.modal && mode.sub == editNormal {
		return m.handleEditNormalKey(mode, msg)
	}
	return m.handleEditInsertKey(mode, msg)
}

// handleEditInsertKey covers plain editing and the insert sub-mode: runes
// land at the cursor, arrows navigate, and esc either commits (plain) or
// drops to the normal sub-mode (modal).
func (m *Model) handleEditInsertKey(mode modeEdit, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if mode.modal {
			mode.session.ExitInsert()
			mode.sub = editNormal
			m.mode = mode
		} else {
			m.commitEdit(mode)
		}
		return m, nil
	case "enter":
		mode.session.InsertNewline()
		m.cmap.MarkDirty()
		return m, nil
	case "backspace":
		mode.session.Backspace()
		m.cmap.MarkDirty()
		return m, nil
	}

	if dir, ok := arrowDirection(msg.String()); ok {
		mode.session.MoveInsert(dir)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			mode.session.InsertRune(r)
		}
		m.cmap.MarkDirty()
	case tea.KeySpace:
		mode.session.InsertRune(' ')
		m.cmap.MarkDirty()
	}
	return m, nil
}

func (m *Model) handleEditNormalKey(mode modeEdit, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		m.commitEdit(mode)
		return m, nil
	case "i":
		mode.sub = editInsert
		m.mode = mode
		return m, nil
	case "a":
		mode.session.Append()
		mode.sub = editInsert
		m.mode = mode
		return m, nil
	case "g":
		mode.session.JumpStart()
		return m, nil
	case "G":
		mode.session.JumpEnd()
		return m, nil
	case "w":
		mode.session.WordForward()
		return m, nil
	case "b":
		mode.session.WordBackward()
		return m, nil
	case "x":
		if mode.session.DeleteUnderCursor() {
			m.cmap.MarkDirty()
		}
		return m, nil
	}

	if dir, step, ok := directionForKey(key); ok && step == 1 {
		mode.session.MoveNormal(dir)
	}
	return m, nil
}
