package app

import (
	"github.com/notemap/notemap/internal/canvas"
	"github.com/notemap/notemap/internal/editor"
)

// The map screen's interaction state is a closed union of mode variants,
// each carrying exactly the identifiers it operates on. Key handling is an
// exhaustive type switch over these variants; a key with no meaning in the
// current mode falls through as a no-op.

type mapMode interface {
	// modeLabel is the status-bar name of the mode.
	modeLabel() string
}

// modeNormal is the resting state: viewport navigation and entry points
// into everything else.
type modeNormal struct{}

// modeVisual has one note selected.
type modeVisual struct {
	note canvas.NoteID
}

// modeVisualMove repositions the selected note.
type modeVisualMove struct {
	note canvas.NoteID
}

// modeVisualConnection edits the connections of the selected note. focused
// is false when the note has no connection to focus. placing marks the
// window between creating a connection with 'C' and choosing its target;
// while it is set the focused placeholder cannot be cycled away from or
// deleted.
type modeVisualConnection struct {
	note    canvas.NoteID
	conn    canvas.ConnectionID
	focused bool
	placing bool
}

// modeDelete is the confirmation step before a note is removed.
type modeDelete struct {
	note canvas.NoteID
}

// editSub is the modal-editing sub-mode. It is only consulted when modal
// editing was enabled at Edit entry.
type editSub int

const (
	editInsert editSub = iota
	editNormal
)

// modeEdit is an open editing session on one note's body. The session holds
// the working copy; the note is only written back on commit.
type modeEdit struct {
	note    canvas.NoteID
	session *editor.Session
	modal   bool
	sub     editSub
}

func (modeNormal) modeLabel() string           { return "NORMAL" }
func (modeVisual) modeLabel() string           { return "VISUAL" }
func (modeVisualMove) modeLabel() string       { return "MOVE" }
func (modeVisualConnection) modeLabel() string { return "CONNECT" }
func (modeDelete) modeLabel() string           { return "DELETE" }

func (e modeEdit) modeLabel() string {
	if !e.modal {
		return "EDIT"
	}
	if e.sub == editInsert {
		return "EDIT (INSERT)"
	}
	return "EDIT (NORMAL)"
}

// selectedNote returns the note the current mode is focused on, if any.
func (m *Model) selectedNote() (canvas.NoteID, bool) {
	switch mode := m.mode.(type) {
	case modeVisual:
		return mode.note, true
	case modeVisualMove:
		return mode.note, true
	case modeVisualConnection:
		return mode.note, true
	case modeDelete:
		return mode.note, true
	case modeEdit:
		return mode.note, true
	}
	return 0, false
}

// focusedConnection returns the connection focused by the current mode.
func (m *Model) focusedConnection() (canvas.ConnectionID, bool) {
	if mode, ok := m.mode.(modeVisualConnection); ok && mode.focused {
		return mode.conn, true
	}
	return 0, false
}
