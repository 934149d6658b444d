package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notemap/notemap/internal/store"
)

// The start screen offers a create-map flow and the three most recently
// opened maps. Creating asks for a directory (absolute, or relative to the
// home directory) and a file name; submitting opens the map when the file
// exists and creates it otherwise.

type startState struct {
	recent store.RecentPaths
	cursor int

	entering  bool
	field     int
	dirInput  textinput.Model
	nameInput textinput.Model

	errMsg string
}

func newStartState(configDir string) startState {
	dir := textinput.New()
	dir.Placeholder = "directory (absolute, or relative to home)"
	dir.CharLimit = 200
	name := textinput.New()
	name.Placeholder = "map name"
	name.CharLimit = 120
	return startState{
		recent:    store.LoadRecent(configDir),
		dirInput:  dir,
		nameInput: name,
	}
}

func (s *startState) rowCount() int {
	return 1 + len(s.recent.Paths)
}

func (s *startState) resetInputs() {
	s.entering = false
	s.field = 0
	s.dirInput.SetValue("")
	s.nameInput.SetValue("")
	s.dirInput.Blur()
	s.nameInput.Blur()
}

func (m *Model) handleStartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.start
	if s.entering {
		return m.handleStartInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s", "o":
		m.openSettings("")
		return m, nil
	case "j", "down":
		if s.cursor < s.rowCount()-1 {
			s.cursor++
		}
		return m, nil
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
		return m, nil
	case "enter":
		if s.cursor == 0 {
			s.entering = true
			s.field = 0
			s.errMsg = ""
			s.dirInput.Focus()
			return m, nil
		}
		return m.openMapFromStart(s.recent.Paths[s.cursor-1])
	}
	return m, nil
}

func (m *Model) handleStartInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.start
	switch msg.String() {
	case "esc":
		s.resetInputs()
		return m, nil
	case "enter":
		if s.field == 0 {
			s.field = 1
			s.dirInput.Blur()
			s.nameInput.Focus()
			return m, nil
		}
		return m.submitStartForm()
	}

	var cmd tea.Cmd
	if s.field == 0 {
		s.dirInput, cmd = s.dirInput.Update(msg)
	} else {
		s.nameInput, cmd = s.nameInput.Update(msg)
	}
	return m, cmd
}

// submitStartForm resolves the entered directory and name into a map path
// and opens it. Any failure lands in the error line and resets the form so
// the user can try again.
func (m *Model) submitStartForm() (tea.Model, tea.Cmd) {
	s := &m.start
	dir := strings.TrimSpace(s.dirInput.Value())
	name := strings.TrimSpace(s.nameInput.Value())

	fail := func(msg string) (tea.Model, tea.Cmd) {
		s.errMsg = msg
		s.resetInputs()
		return m, nil
	}

	if dir == "" || name == "" {
		return fail("Both a directory and a name are required")
	}
	if !filepath.IsAbs(dir) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fail("Could not find the home directory")
		}
		dir = filepath.Join(home, dir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fail("Could not create the directory")
	}
	path, err := store.ResolveMapPath(filepath.Join(dir, name))
	if err != nil {
		return fail(err.Error())
	}

	s.resetInputs()
	return m.openMapFromStart(path)
}

// openMapFromStart opens a map and keeps the start screen up with the
// error when it cannot be opened. A corrupt file is reported, not
// replaced.
func (m *Model) openMapFromStart(path string) (tea.Model, tea.Cmd) {
	cmd, err := m.openMap(path)
	if err != nil {
		m.start.errMsg = err.Error()
		m.log.Error("open map", "path", path, "error", err)
		return m, nil
	}
	return m, cmd
}

func (m *Model) viewStart() string {
	s := &m.start

	var b strings.Builder
	b.WriteString(titleStyle.Render("notemap"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("notes and arrows on an endless canvas"))
	b.WriteString("\n\n")

	rows := []string{"Create or open a map"}
	for _, p := range s.recent.Paths {
		rows = append(rows, p)
	}
	for i, row := range rows {
		label := "  " + row
		if i == s.cursor && !s.entering {
			label = selectStyle.Render("> " + row)
		}
		b.WriteString(label)
		b.WriteString("\n")
	}

	if s.entering {
		b.WriteString("\n")
		b.WriteString(s.dirInput.View())
		b.WriteString("\n")
		b.WriteString(s.nameInput.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter advances · esc cancels"))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(s.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d recent · j/k move · enter opens · o settings · q quits", len(s.recent.Paths))))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
