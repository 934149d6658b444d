package canvas

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Side identifies which edge of a note a connection endpoint is anchored to.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

// Next returns the following side in the rotation cycle
// right → bottom → left → top → right.
func (s Side) Next() Side {
	switch s {
	case Right:
		return Bottom
	case Bottom:
		return Left
	case Left:
		return Top
	default:
		return Right
	}
}

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// ParseSide maps a side name to its value. Unlike colors, an unknown side
// name is an error: a connection with an unparseable anchor cannot be drawn
// meaningfully, so the document is treated as corrupt.
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return Top, fmt.Errorf("unknown side %q", name)
	}
}

// MarshalJSON encodes the side as its lowercase name.
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a side name, rejecting unknown names.
func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	side, err := ParseSide(name)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Direction is a navigation direction used by focus switching.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "right"
	}
}

// Rect is an axis-aligned rectangle in canvas cells. Coordinates are signed
// so screen-space math may go negative before clipping.
type Rect struct {
	X, Y, W, H int
}

// Intersect returns the overlapping area of two rectangles and whether any
// overlap exists. Used to clip note boxes against the viewport.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	if r.X >= other.X+other.W || r.X+r.W <= other.X ||
		r.Y >= other.Y+other.H || r.Y+r.H <= other.Y {
		return Rect{}, false
	}
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.X+r.W, other.X+other.W)
	y2 := min(r.Y+r.H, other.Y+other.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// Note box sizing. Width reserves two border columns plus a trailing cursor
// cell; height reserves two border rows. Small notes are padded up to a
// readable minimum.
const (
	minNoteContentWidth = 20
	minNoteBoxHeight    = 4
	noteBorderAllowance = 2
	noteCursorAllowance = 1
)

// Size returns the rendered box dimensions of the note, borders included.
func (n *Note) Size() (w, h int) {
	widest := 0
	for _, line := range n.Body {
		if lw := runewidth.StringWidth(line); lw > widest {
			widest = lw
		}
	}
	w = max(widest+noteBorderAllowance, minNoteContentWidth) + noteCursorAllowance
	h = max(len(n.Body)+noteBorderAllowance, minNoteBoxHeight)
	return w, h
}

// Bounds returns the note's box as a rectangle at its canvas position.
func (n *Note) Bounds() Rect {
	w, h := n.Size()
	return Rect{X: n.X, Y: n.Y, W: w, H: h}
}

// AnchorPoint returns the canvas cell where a connection attaches to the
// note, centered on the given side.
func (n *Note) AnchorPoint(side Side) (x, y int) {
	w, h := n.Size()
	switch side {
	case Right:
		return n.X + w - 1, n.Y + h/2
	case Left:
		return n.X, n.Y + h/2
	case Top:
		return n.X + w/2, n.Y
	default:
		return n.X + w/2, n.Y + h - 1
	}
}

// Viewport is the window of canvas coordinates currently visible. X and Y
// are the top-left corner and never go negative; W and H track the terminal
// size and are set by the host on resize.
type Viewport struct {
	X, Y int
	W, H int
}

// Scroll moves the viewport by the given deltas, clamping at the origin.
func (v *Viewport) Scroll(dx, dy int) {
	v.X = max(0, v.X+dx)
	v.Y = max(0, v.Y+dy)
}

// Center returns the canvas coordinate at the middle of the viewport.
func (v *Viewport) Center() (x, y int) {
	return v.X + v.W/2, v.Y + v.H/2
}

// CenterOn repositions the viewport so the given canvas coordinate sits at
// its middle, clamping at the origin.
func (v *Viewport) CenterOn(x, y int) {
	v.X = max(0, x-v.W/2)
	v.Y = max(0, y-v.H/2)
}

// Rect returns the viewport as a canvas-space rectangle.
func (v *Viewport) Rect() Rect {
	return Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}
}
