package app

import (
	"testing"

	"github.com/notemap/notemap/internal/canvas"
)

// twoNoteGrid builds a model with two empty notes side by side and one
// connection between their facing sides, then rasterizes the default
// viewport. Note boxes span x 0..20 and 30..50; the connection runs
// through the gap on row 2.
func twoNoteGrid(t *testing.T, m *Model) *cellGrid {
	t.Helper()
	grid := m.buildGrid(m.vp.W, m.vp.H)
	if grid == nil {
		t.Fatal("buildGrid returned nil for a non-degenerate viewport")
	}
	return grid
}

func connectedPairModel(t *testing.T) (*Model, canvas.NoteID, canvas.NoteID, canvas.ConnectionID) {
	t.Helper()
	m := newMapModel(t)
	a := m.cmap.AddNote(0, 0, canvas.White)
	b := m.cmap.AddNote(30, 0, canvas.White)
	id, err := m.cmap.AddConnection(a, b, canvas.Right, canvas.Left, canvas.Red)
	if err != nil {
		t.Fatal(err)
	}
	return m, a, b, id
}

// gapHasBoldCell reports whether any cell strictly between the two note
// boxes carries the focus styling.
func gapHasBoldCell(g *cellGrid) bool {
	for y := range g.cells {
		for x := 21; x <= 29; x++ {
			if g.cells[y][x].bold {
				return true
			}
		}
	}
	return false
}

func TestRenderNormalModeHasNoFocusStyling(t *testing.T) {
	m, _, _, _ := connectedPairModel(t)

	// Nothing is selected or focused; the connection carries ID 0, which
	// must not read as a focus.
	grid := twoNoteGrid(t, m)
	for y, row := range grid.cells {
		for x, c := range row {
			if c.bold {
				t.Fatalf("cell (%d, %d) drawn bold with nothing selected", x, y)
			}
		}
	}
}

func TestRenderBoldsOnlyFocusedConnection(t *testing.T) {
	m, a, _, id := connectedPairModel(t)

	m.mode = modeVisualConnection{note: a, conn: id, focused: true}
	if !gapHasBoldCell(twoNoteGrid(t, m)) {
		t.Error("focused connection not drawn bold")
	}

	m.mode = modeVisualConnection{note: a}
	if gapHasBoldCell(twoNoteGrid(t, m)) {
		t.Error("unfocused connection drawn bold")
	}
}

func TestRenderConnectionRouteAndArrow(t *testing.T) {
	m, _, _, _ := connectedPairModel(t)
	grid := twoNoteGrid(t, m)

	// Right anchor of the left box is (20, 2); the line runs through the
	// gap and the arrow head sits just outside the target's left side.
	if got := grid.cells[2][25].r; got != '─' {
		t.Errorf("gap cell (25, 2) = %q, want horizontal line", got)
	}
	if got := grid.cells[2][29].r; got != '▶' {
		t.Errorf("arrow cell (29, 2) = %q, want arrow into the left side", got)
	}
}

func TestRenderSelectedNoteBorderIsBold(t *testing.T) {
	m, a, _, _ := connectedPairModel(t)
	m.mode = modeVisual{note: a}

	grid := twoNoteGrid(t, m)
	corner := grid.cells[0][0]
	if corner.r != '┌' {
		t.Fatalf("corner cell = %q, want box corner", corner.r)
	}
	if !corner.bold {
		t.Error("selected note border not drawn bold")
	}

	// The other note stays plain.
	if other := grid.cells[0][30]; other.bold {
		t.Error("unselected note drawn bold")
	}
}

func TestRenderEditSessionOverridesBodyWithCursor(t *testing.T) {
	m := newMapModel(t)
	id := m.cmap.AddNote(0, 0, canvas.White)
	m.cmap.SetNoteBody(id, []string{"old"})
	m.mode = modeVisual{note: id}

	press(t, m, "i")
	press(t, m, "h", "i")

	grid := twoNoteGrid(t, m)
	// The session's working copy renders, not the committed body.
	if got := grid.cells[1][1].r; got != 'h' {
		t.Errorf("body cell (1, 1) = %q, want live edit content", got)
	}
	if got := grid.cells[1][2].r; got != 'i' {
		t.Errorf("body cell (2, 1) = %q, want live edit content", got)
	}
	if !grid.cells[1][3].invert {
		t.Error("cursor cell not inverted")
	}
}

func TestRenderClipsToViewport(t *testing.T) {
	m := newMapModel(t)
	m.cmap.AddNote(500, 500, canvas.White)

	grid := twoNoteGrid(t, m)
	for y, row := range grid.cells {
		for x, c := range row {
			if c.r != ' ' {
				t.Fatalf("cell (%d, %d) = %q, want empty canvas", x, y, c.r)
			}
		}
	}

	if g := m.buildGrid(0, 0); g != nil {
		t.Error("degenerate viewport did not return nil")
	}
}
