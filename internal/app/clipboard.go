package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/notemap/notemap/internal/canvas"
)

// yankNote copies a note's body to the system clipboard. The result, good
// or bad, lands in the status bar; a clipboard problem never interrupts
// the session.
func (m *Model) yankNote(id canvas.NoteID) {
	n, ok := m.cmap.Note(id)
	if !ok {
		return
	}
	content := strings.Join(n.Body, "\n")
	if err := clipboard.WriteAll(content); err != nil {
		m.setStatusError("Clipboard copy failed", err)
		return
	}
	m.setStatus(fmt.Sprintf("Copied note (%d chars)", len([]rune(content))))
}
