package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Help is a full-screen overlay of glamour-rendered markdown pages. While
// it is up it intercepts all map-screen input.

const (
	helpPageMap = iota
	helpPageVisual
	helpPageConnections
	helpPageEditor
	helpPagePersistence
	helpPageCount
)

var helpPages = [helpPageCount]string{
	helpPageMap: `# Map screen

The map opens in **Normal** mode.

| Key | Action |
|-----|--------|
| h j k l / arrows | scroll the viewport by 1 |
| H J K L / shift+arrows | scroll by 5 |
| a | create a note at the viewport center and edit it |
| v | select the note closest to the viewport center |
| s | save the map |
| o | settings |
| q | back to the start screen |
| ? / F1 | this help |

Scrolling is clamped at the origin; the plane is unbounded down and right.
`,
	helpPageVisual: `# Visual mode

One note is selected and highlighted.

| Key | Action |
|-----|--------|
| h j k l / arrows | switch focus to the nearest note in that direction |
| i | edit the note body |
| m | move mode: h j k l move by 1, shifted by 5, esc leaves |
| e | cycle the note color |
| y | copy the note body to the clipboard |
| c | edit the note's connections |
| C | create a new connection from this note |
| d | delete the note (asks for confirmation with d / esc) |
| esc | back to Normal |

Focus switching picks the closest note strictly in the chosen direction
and is a no-op when there is none.
`,
	helpPageConnections: `# Connection mode

Entered with **c** (focus the first connection) or **C** (create one and
place its target).

| Key | Action |
|-----|--------|
| h j k l / arrows | move the selection and drag the target end with it |
| n | focus the next connection on the selected note |
| r | rotate the side the connection leaves the selected note from |
| e | cycle the connection color |
| d | delete the focused connection |
| c | done, back to Visual |

Rotation walks right, bottom, left, top. Both ends of a self-loop rotate
together, so its two sides always stay distinct.
`,
	helpPageEditor: `# Editing notes

Plain editing: type to insert, **enter** splits the line, **backspace**
joins lines, arrows move, **esc** saves the body back into the note.

With *modal editing* enabled in the settings, editing starts in a normal
sub-mode:

| Key | Action |
|-----|--------|
| i / a | insert before / after the cursor |
| h j k l | move, clamped to the line |
| w / b | next / previous word |
| g / G | start / end of the note |
| x | delete the character under the cursor |
| esc | leave insert, then leave editing |
`,
	helpPagePersistence: `# Saving, backups, settings

The map autosaves while dirty, at the interval configured in the
settings; **s** always saves immediately. Saves replace the map file
atomically, so an interrupted write never corrupts it.

Backups are additive snapshots in the configured backup directory:

* **on open**: at most one per configured interval and map file,
* **during a session**: one every configured session interval.

The settings screen (**o**) also holds the default connection sides and
the modal-editing toggle. Settings are saved with **s** there.
`,
}

type helpState struct {
	open bool
	page int
	vp   viewport.Model

	// rendered caches glamour output per page at the current width.
	rendered      [helpPageCount]string
	renderedWidth int
}

func (h *helpState) resize(width, height int) {
	h.vp.Width = max(0, width-helpFrame.GetHorizontalFrameSize())
	h.vp.Height = max(0, height-statusBarHeight-helpFrame.GetVerticalFrameSize()-1)
	if h.renderedWidth != h.vp.Width {
		h.rendered = [helpPageCount]string{}
		h.renderedWidth = h.vp.Width
	}
	if h.open {
		h.vp.SetContent(h.content())
	}
}

func (h *helpState) show(page int) {
	h.open = true
	h.page = page
	h.vp.GotoTop()
	h.vp.SetContent(h.content())
}

func (h *helpState) content() string {
	if h.rendered[h.page] != "" {
		return h.rendered[h.page]
	}
	width := max(20, h.vp.Width)
	out := helpPages[h.page]
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err == nil {
		if s, rerr := r.Render(helpPages[h.page]); rerr == nil {
			out = s
		}
	}
	h.rendered[h.page] = out
	return out
}

// handleHelpKey pages through the help and closes it. j/k scroll the
// current page.
func (m *Model) handleHelpKey(msg tea.KeyMsg) {
	h := &m.help
	switch msg.String() {
	case "?", "f1", "esc", "q":
		h.open = false
	case "l", "right", "tab":
		h.page = (h.page + 1) % helpPageCount
		h.vp.GotoTop()
		h.vp.SetContent(h.content())
	case "h", "left":
		h.page = (h.page + helpPageCount - 1) % helpPageCount
		h.vp.GotoTop()
		h.vp.SetContent(h.content())
	case "j", "down":
		h.vp.LineDown(1)
	case "k", "up":
		h.vp.LineUp(1)
	}
}

func (h *helpState) view() string {
	footer := mutedStyle.Render(fmt.Sprintf("page %s · l/h flip · ? closes", counter(h.page+1, helpPageCount)))
	return helpFrame.Render(h.vp.View()) + "\n" + lipgloss.PlaceHorizontal(h.vp.Width, lipgloss.Center, footer)
}
