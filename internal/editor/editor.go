// Package editor holds the text-editing state for a note body while it is
// open for editing: the working copy of the lines and a cursor addressed by
// (line, column) in runes. The host decides which editing sub-mode is
// active and calls the matching method family; insert-style methods allow
// the column to sit one past the last rune (the append position), while
// normal-style methods keep the cursor on a rune.
//
// The session never touches the note it was opened from. The host copies
// the body in through NewSession and writes Lines back on exit, so
// abandoning an edit is simply dropping the session.
package editor

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/notemap/notemap/internal/canvas"
)

// Session is an in-progress edit of one note body.
type Session struct {
	lines [][]rune
	line  int
	col   int
}

// NewSession starts an edit over a copy of the given body. An empty body
// becomes a single empty line. The cursor starts at the top left.
func NewSession(body []string) *Session {
	s := &Session{}
	if len(body) == 0 {
		body = []string{""}
	}
	s.lines = make([][]rune, len(body))
	for i, line := range body {
		s.lines[i] = []rune(line)
	}
	return s
}

// Lines returns the edited body as strings, detached from the session.
func (s *Session) Lines() []string {
	out := make([]string, len(s.lines))
	for i, line := range s.lines {
		out[i] = string(line)
	}
	return out
}

// Cursor returns the cursor position as (line, column) in runes.
func (s *Session) Cursor() (line, col int) {
	return s.line, s.col
}

// CursorDisplayCol returns the cursor's column in terminal cells, which
// differs from the rune column when the line holds wide characters.
func (s *Session) CursorDisplayCol() int {
	return runewidth.StringWidth(string(s.lines[s.line][:s.col]))
}

// LineCount returns the number of lines in the working copy.
func (s *Session) LineCount() int { return len(s.lines) }

func (s *Session) current() []rune { return s.lines[s.line] }

func (s *Session) clampColInsert() {
	if n := len(s.current()); s.col > n {
		s.col = n
	}
}

func (s *Session) clampColNormal() {
	if n := len(s.current()); s.col >= n {
		s.col = max(0, n-1)
	}
}

// InsertRune inserts a rune at the cursor and advances past it.
func (s *Session) InsertRune(r rune) {
	text := s.current()
	out := make([]rune, 0, len(text)+1)
	out = append(out, text[:s.col]...)
	out = append(out, r)
	out = append(out, text[s.col:]...)
	s.lines[s.line] = out
	s.col++
}

// InsertNewline splits the current line at the cursor. The cursor lands at
// the start of the new line.
func (s *Session) InsertNewline() {
	text := s.current()
	head := append([]rune(nil), text[:s.col]...)
	tail := append([]rune(nil), text[s.col:]...)

	s.lines[s.line] = head
	s.lines = append(s.lines, nil)
	copy(s.lines[s.line+2:], s.lines[s.line+1:])
	s.lines[s.line+1] = tail

	s.line++
	s.col = 0
}

// Backspace removes the rune before the cursor. At column zero it merges
// the current line into the previous one, leaving the cursor at the join.
// At the start of the body it does nothing.
func (s *Session) Backspace() {
	if s.col > 0 {
		text := s.current()
		out := make([]rune, 0, len(text)-1)
		out = append(out, text[:s.col-1]...)
		out = append(out, text[s.col:]...)
		s.lines[s.line] = out
		s.col--
		return
	}
	if s.line == 0 {
		return
	}
	prev := s.lines[s.line-1]
	s.col = len(prev)
	s.lines[s.line-1] = append(prev, s.current()...)
	s.lines = append(s.lines[:s.line], s.lines[s.line+1:]...)
	s.line--
}

// MoveInsert moves the cursor one step with insert-mode bounds: the column
// may reach one past the last rune. Moves never wrap across lines.
func (s *Session) MoveInsert(dir canvas.Direction) {
	switch dir {
	case canvas.DirLeft:
		if s.col > 0 {
			s.col--
		}
	case canvas.DirRight:
		if s.col < len(s.current()) {
			s.col++
		}
	case canvas.DirUp:
		if s.line > 0 {
			s.line--
			s.clampColInsert()
		}
	case canvas.DirDown:
		if s.line < len(s.lines)-1 {
			s.line++
			s.clampColInsert()
		}
	}
}

// MoveNormal moves the cursor one step with normal-mode bounds: the column
// stays on a rune, or at zero on an empty line.
func (s *Session) MoveNormal(dir canvas.Direction) {
	switch dir {
	case canvas.DirLeft:
		if s.col > 0 {
			s.col--
		}
	case canvas.DirRight:
		if s.col < len(s.current())-1 {
			s.col++
		}
	case canvas.DirUp:
		if s.line > 0 {
			s.line--
			s.clampColNormal()
		}
	case canvas.DirDown:
		if s.line < len(s.lines)-1 {
			s.line++
			s.clampColNormal()
		}
	}
}

// JumpStart moves the cursor to the first rune of the body.
func (s *Session) JumpStart() {
	s.line = 0
	s.col = 0
}

// JumpEnd moves the cursor to the last rune of the body.
func (s *Session) JumpEnd() {
	s.line = len(s.lines) - 1
	s.col = max(0, len(s.current())-1)
}

// WordForward moves the cursor to the start of the next word, crossing line
// ends. A word is a maximal run of non-whitespace. With no word ahead the
// cursor settles on the last rune of the body.
func (s *Session) WordForward() {
	line, col := s.line, s.col
	text := s.lines[line]
	for col < len(text) && !unicode.IsSpace(text[col]) {
		col++
	}
	for {
		text = s.lines[line]
		for col < len(text) && unicode.IsSpace(text[col]) {
			col++
		}
		if col < len(text) {
			s.line, s.col = line, col
			return
		}
		if line == len(s.lines)-1 {
			s.line = line
			s.col = max(0, len(text)-1)
			return
		}
		line++
		col = 0
	}
}

// WordBackward moves the cursor to the start of the previous word, crossing
// line starts; from inside a word it moves to that word's start. At the
// start of the body it does nothing.
func (s *Session) WordBackward() {
	line, col := s.line, s.col
	if col > 0 {
		col--
	} else if line > 0 {
		line--
		col = len(s.lines[line])
	} else {
		return
	}
	for {
		if col < len(s.lines[line]) && !unicode.IsSpace(s.lines[line][col]) {
			break
		}
		if col > 0 {
			col--
		} else if line > 0 {
			line--
			col = len(s.lines[line])
		} else {
			s.line, s.col = 0, 0
			return
		}
	}
	for col > 0 && !unicode.IsSpace(s.lines[line][col-1]) {
		col--
	}
	s.line, s.col = line, col
}

// Append shifts the cursor one column right, onto the append position when
// at the end of the line. The host switches to insert afterwards.
func (s *Session) Append() {
	if s.col < len(s.current()) {
		s.col++
	}
}

// DeleteUnderCursor removes the rune the cursor sits on and reports whether
// anything was removed. On an empty line there is nothing to remove. The
// cursor re-clamps to the shortened line.
func (s *Session) DeleteUnderCursor() bool {
	text := s.current()
	if s.col >= len(text) {
		return false
	}
	out := make([]rune, 0, len(text)-1)
	out = append(out, text[:s.col]...)
	out = append(out, text[s.col+1:]...)
	s.lines[s.line] = out
	s.clampColNormal()
	return true
}

// ExitInsert applies the insert-to-normal cursor shift: one column left
// when possible, then normal-mode clamping.
func (s *Session) ExitInsert() {
	if s.col > 0 {
		s.col--
	}
	s.clampColNormal()
}
