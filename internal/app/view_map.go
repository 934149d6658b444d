package app

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/notemap/notemap/internal/canvas"
	"github.com/notemap/notemap/internal/editor"
)

// The map view rasterizes the visible slice of the canvas into a cell
// grid: connections first, then note boxes in render order so later notes
// cover earlier ones, then the editing cursor. Each cell carries the
// palette color it should be styled with.

type cell struct {
	r      rune
	color  canvas.Color
	invert bool
	bold   bool
	// skip marks the continuation column of a wide rune.
	skip bool
}

type cellGrid struct {
	cells [][]cell
	view  canvas.Rect
}

func newCellGrid(view canvas.Rect) *cellGrid {
	cells := make([][]cell, view.H)
	for y := range cells {
		row := make([]cell, view.W)
		for x := range row {
			row[x] = cell{r: ' ', color: canvas.White}
		}
		cells[y] = row
	}
	return &cellGrid{cells: cells, view: view}
}

// set places a rune at a canvas coordinate, clipping against the view.
func (g *cellGrid) set(x, y int, c cell) {
	if x < g.view.X || x >= g.view.X+g.view.W || y < g.view.Y || y >= g.view.Y+g.view.H {
		return
	}
	g.cells[y-g.view.Y][x-g.view.X] = c
}

// renderCanvas draws the visible map area at the given size.
func (m *Model) renderCanvas(w, h int) string {
	grid := m.buildGrid(w, h)
	if grid == nil {
		return ""
	}
	return grid.String()
}

// buildGrid rasterizes the visible map area into a cell grid. Nil when the
// area is degenerate.
func (m *Model) buildGrid(w, h int) *cellGrid {
	view := canvas.Rect{X: m.vp.X, Y: m.vp.Y, W: w, H: h}
	if view.W <= 0 || view.H <= 0 {
		return nil
	}
	grid := newCellGrid(view)

	focusedConn, hasFocus := m.focusedConnection()
	for _, cid := range m.cmap.Connections() {
		c, ok := m.cmap.Connection(cid)
		if !ok {
			continue
		}
		m.drawConnection(grid, c, hasFocus && cid == focusedConn)
	}

	selected, hasSelection := m.selectedNote()
	var editSession *editor.Session
	var editNote canvas.NoteID
	if mode, ok := m.mode.(modeEdit); ok {
		editSession = mode.session
		editNote = mode.note
	}

	for _, nid := range m.cmap.RenderOrder() {
		n, ok := m.cmap.Note(nid)
		if !ok {
			continue
		}
		var sess *editor.Session
		if editSession != nil && nid == editNote {
			sess = editSession
			n.Body = sess.Lines()
		}
		m.drawNote(grid, n, hasSelection && nid == selected, sess)
	}

	return grid
}

func (g *cellGrid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			text := run.String()
			if cur.invert || cur.bold || strings.TrimSpace(text) != "" {
				style := colorStyle(cur.color)
				if cur.invert {
					style = style.Reverse(true)
				}
				if cur.bold {
					style = style.Bold(true)
				}
				b.WriteString(style.Render(text))
			} else {
				b.WriteString(text)
			}
			run.Reset()
		}
		for _, c := range row {
			if c.skip {
				continue
			}
			if run.Len() > 0 && (c.color != cur.color || c.invert != cur.invert || c.bold != cur.bold) {
				flush()
			}
			cur = cell{color: c.color, invert: c.invert, bold: c.bold}
			run.WriteRune(c.r)
		}
		flush()
	}
	return b.String()
}

// drawNote rasterizes one note box: border, body lines, and, while the
// note is open for editing, the cursor cell.
func (m *Model) drawNote(g *cellGrid, n canvas.Note, selected bool, sess *editor.Session) {
	b := n.Bounds()
	if _, overlap := b.Intersect(g.view); !overlap {
		return
	}

	style := func(r rune) cell {
		return cell{r: r, color: n.Color, bold: selected}
	}

	// Border and interior fill.
	for y := b.Y; y < b.Y+b.H; y++ {
		for x := b.X; x < b.X+b.W; x++ {
			switch {
			case y == b.Y && x == b.X:
				g.set(x, y, style('┌'))
			case y == b.Y && x == b.X+b.W-1:
				g.set(x, y, style('┐'))
			case y == b.Y+b.H-1 && x == b.X:
				g.set(x, y, style('└'))
			case y == b.Y+b.H-1 && x == b.X+b.W-1:
				g.set(x, y, style('┘'))
			case y == b.Y || y == b.Y+b.H-1:
				g.set(x, y, style('─'))
			case x == b.X || x == b.X+b.W-1:
				g.set(x, y, style('│'))
			default:
				g.set(x, y, cell{r: ' ', color: n.Color})
			}
		}
	}

	// Body text. Wide runes occupy two columns; the continuation column is
	// marked so the row renderer does not emit a duplicate.
	for i, line := range n.Body {
		y := b.Y + 1 + i
		x := b.X + 1
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if rw == 0 {
				continue
			}
			if x+rw > b.X+b.W-1 {
				break
			}
			g.set(x, y, cell{r: r, color: n.Color})
			if rw == 2 {
				g.set(x+1, y, cell{r: ' ', color: n.Color, skip: true})
			}
			x += rw
		}
	}

	if sess != nil {
		line, _ := sess.Cursor()
		cx := b.X + 1 + sess.CursorDisplayCol()
		cy := b.Y + 1 + line
		if cx < g.view.X+g.view.W && cy < g.view.Y+g.view.H && cx >= g.view.X && cy >= g.view.Y {
			c := g.cells[cy-g.view.Y][cx-g.view.X]
			c.invert = true
			c.skip = false
			g.cells[cy-g.view.Y][cx-g.view.X] = c
		}
	}
}

// outward returns the unit step away from a note side.
func outward(side canvas.Side) (dx, dy int) {
	switch side {
	case canvas.Top:
		return 0, -1
	case canvas.Bottom:
		return 0, 1
	case canvas.Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// arrowInto returns the arrow head drawn where a connection meets its
// target side, pointing into the note.
func arrowInto(side canvas.Side) rune {
	switch side {
	case canvas.Top:
		return '▼'
	case canvas.Bottom:
		return '▲'
	case canvas.Left:
		return '▶'
	default:
		return '◀'
	}
}

// drawConnection routes an elbow line between the two anchor points. The
// first leg leaves along the source side's axis; the turn happens at the
// target's coordinate on that axis.
func (m *Model) drawConnection(g *cellGrid, c canvas.Connection, focused bool) {
	from, okF := m.cmap.Note(c.From)
	to, okT := m.cmap.Note(c.To)
	if !okF || !okT {
		return
	}

	fx, fy := from.AnchorPoint(c.FromSide)
	tx, ty := to.AnchorPoint(c.ToSide)
	odx, ody := outward(c.FromSide)
	sx, sy := fx+odx, fy+ody
	tdx, tdy := outward(c.ToSide)
	ex, ey := tx+tdx, ty+tdy

	put := func(x, y int, r rune) {
		g.set(x, y, cell{r: r, color: c.Color, bold: focused})
	}

	horizontalFirst := c.FromSide == canvas.Left || c.FromSide == canvas.Right
	if horizontalFirst {
		drawHorizontal(put, sx, ex, sy)
		if sy != ey {
			put(ex, sy, cornerRune(sx, sy, ex, ey, true))
			drawVertical(put, sy, ey, ex)
		}
	} else {
		drawVertical(put, sy, ey, sx)
		if sx != ex {
			put(sx, ey, cornerRune(sx, sy, ex, ey, false))
			drawHorizontal(put, sx, ex, ey)
		}
	}

	put(ex, ey, arrowInto(c.ToSide))
}

func drawHorizontal(put func(int, int, rune), x1, x2, y int) {
	lo, hi := min(x1, x2), max(x1, x2)
	for x := lo; x <= hi; x++ {
		put(x, y, '─')
	}
}

func drawVertical(put func(int, int, rune), y1, y2, x int) {
	lo, hi := min(y1, y2), max(y1, y2)
	for y := lo; y <= hi; y++ {
		put(x, y, '│')
	}
}

// cornerRune picks the elbow glyph for the turn between the two legs.
func cornerRune(sx, sy, ex, ey int, horizontalFirst bool) rune {
	if horizontalFirst {
		goingRight := ex > sx
		goingDown := ey > sy
		switch {
		case goingRight && goingDown:
			return '┐'
		case goingRight && !goingDown:
			return '┘'
		case !goingRight && goingDown:
			return '┌'
		default:
			return '└'
		}
	}
	goingDown := ey > sy
	goingRight := ex > sx
	switch {
	case goingDown && goingRight:
		return '└'
	case goingDown && !goingRight:
		return '┘'
	case !goingDown && goingRight:
		return '┌'
	default:
		return '┐'
	}
}
