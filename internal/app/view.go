package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// View draws the active screen.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	switch m.scr {
	case screenStart:
		return m.viewStart()
	case screenSettings:
		return m.viewSettings()
	default:
		return m.viewMap()
	}
}

func (m *Model) viewMap() string {
	contentHeight := max(0, m.height-statusBarHeight)

	var content string
	switch {
	case m.help.open:
		content = m.help.view()
	case m.pendingLeave != leaveNone:
		content = m.viewDiscardPopup(contentHeight)
	default:
		content = m.renderCanvas(m.width, contentHeight)
	}

	content = padBlock(content, m.width, contentHeight)
	return content + "\n" + m.viewStatusBar()
}

func (m *Model) viewDiscardPopup(height int) string {
	body := titleStyle.Render("Unsaved changes") + "\n\n" +
		"q  discard and leave\n" +
		mutedStyle.Render("esc  keep editing")
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, popupStyle.Render(body))
}

func (m *Model) viewStatusBar() string {
	left := statusModeStyle.Render(m.mode.modeLabel())

	path := m.mapPath
	if m.dirty() {
		path += " [+]"
	}
	left += statusNoteStyle.Render(path)

	right := m.status
	if m.saving {
		right = strings.TrimSpace(m.spin.View() + " saving  " + right)
	}
	right = statusBarStyle.Padding(0, 1).Render(right)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + statusBarStyle.Render(strings.Repeat(" ", gap)) + right
	return truncateLine(bar, m.width)
}

// padBlock pads a rendered block with spaces and blank lines to exactly
// width x height, so screen composition stays stable.
func padBlock(block string, width, height int) string {
	lines := strings.Split(block, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}

// truncateLine cuts a styled line down to the given display width.
func truncateLine(line string, width int) string {
	if lipgloss.Width(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}

// counter renders "n/total" page indicators and similar fractions.
func counter(n, total int) string {
	return fmt.Sprintf("%d/%d", n, total)
}
