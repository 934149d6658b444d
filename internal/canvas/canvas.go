// Package canvas implements the note map data model: positioned text notes
// on an unbounded non-negative plane, directional colored connections
// between them, and the queries the interaction layer navigates with.
//
// All mutation goes through Map methods. Every mutating operation flips the
// map's dirty flag, which the persistence scheduler consumes; read-only
// queries never do. Notes and connections are owned exclusively by the Map
// and referenced by identifier everywhere else. Identifiers are handed out
// monotonically and never reused, so a stale identifier is always a safe
// miss instead of an aliased hit.
package canvas

import (
	"errors"
	"fmt"
	"sort"
)

// NoteID identifies a note. IDs are immutable and never reused.
type NoteID int

// ConnectionID identifies a connection. IDs are immutable and never reused.
type ConnectionID int

// Note is a positioned, colored, text-bearing entity. Body holds the text
// as ordered lines; a freshly created note has a single empty line.
type Note struct {
	ID    NoteID
	X, Y  int
	Body  []string
	Color Color
}

// Connection is a directed link between two notes, each endpoint anchored
// to one side of its note's box. From and To always reference live notes.
// A self-loop (From == To) is legal only when the two sides differ.
type Connection struct {
	ID       ConnectionID
	From     NoteID
	To       NoteID
	FromSide Side
	ToSide   Side
	Color    Color
}

var (
	// ErrNoteMissing reports a connection operation naming a note that is
	// not in the map.
	ErrNoteMissing = errors.New("note not in map")

	// ErrDegenerateLoop reports a self-loop whose endpoints share a side.
	ErrDegenerateLoop = errors.New("self-loop endpoints share a side")
)

// Map is the aggregate: all notes and connections, the z-order they render
// in, the identifier counters, and the dirty flag.
type Map struct {
	notes map[NoteID]*Note
	conns map[ConnectionID]*Connection

	// order lists note IDs back to front; selection raises a note to the end.
	order []NoteID

	nextNote NoteID
	nextConn ConnectionID

	dirty bool
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{
		notes: make(map[NoteID]*Note),
		conns: make(map[ConnectionID]*Connection),
	}
}

// Dirty reports whether the map has unsaved mutations.
func (m *Map) Dirty() bool { return m.dirty }

// MarkDirty flags the map as having unsaved mutations. The interaction
// layer uses this for persisted state it owns outside the map proper, such
// as the viewport position.
func (m *Map) MarkDirty() { m.dirty = true }

// MarkClean clears the dirty flag after a successful write.
func (m *Map) MarkClean() { m.dirty = false }

// NoteCount returns the number of notes.
func (m *Map) NoteCount() int { return len(m.notes) }

// ConnectionCount returns the number of connections.
func (m *Map) ConnectionCount() int { return len(m.conns) }

// Note returns a copy of the note with the given ID.
func (m *Map) Note(id NoteID) (Note, bool) {
	n, ok := m.notes[id]
	if !ok {
		return Note{}, false
	}
	return *n, true
}

// Connection returns a copy of the connection with the given ID.
func (m *Map) Connection(id ConnectionID) (Connection, bool) {
	c, ok := m.conns[id]
	if !ok {
		return Connection{}, false
	}
	return *c, true
}

// RenderOrder returns the note IDs back to front.
func (m *Map) RenderOrder() []NoteID {
	out := make([]NoteID, len(m.order))
	copy(out, m.order)
	return out
}

// Connections returns all connection IDs in ascending order.
func (m *Map) Connections() []ConnectionID {
	out := make([]ConnectionID, 0, len(m.conns))
	for id := range m.conns {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddNote creates a note at the given position (clamped to the origin) and
// returns its ID. The note starts with a single empty line and joins the
// front of the render order.
func (m *Map) AddNote(x, y int, color Color) NoteID {
	id := m.nextNote
	m.nextNote++
	m.notes[id] = &Note{
		ID:    id,
		X:     max(0, x),
		Y:     max(0, y),
		Body:  []string{""},
		Color: color,
	}
	m.order = append(m.order, id)
	m.dirty = true
	return id
}

// DeleteNote removes the note and every connection attached to it. The
// removed entities are returned so the caller can report them. Deleting an
// absent ID is a no-op returning ok=false.
func (m *Map) DeleteNote(id NoteID) (removed Note, cascaded []Connection, ok bool) {
	n, ok := m.notes[id]
	if !ok {
		return Note{}, nil, false
	}
	removed = *n
	delete(m.notes, id)

	for _, cid := range m.Connections() {
		c := m.conns[cid]
		if c.From == id || c.To == id {
			cascaded = append(cascaded, *c)
			delete(m.conns, cid)
		}
	}

	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.dirty = true
	return removed, cascaded, true
}

// MoveNote shifts a note by the given deltas, clamping the result at the
// origin. Moving an absent ID is a no-op.
func (m *Map) MoveNote(id NoteID, dx, dy int) bool {
	n, ok := m.notes[id]
	if !ok {
		return false
	}
	n.X = max(0, n.X+dx)
	n.Y = max(0, n.Y+dy)
	m.dirty = true
	return true
}

// SetNoteBody replaces a note's text. The slice is copied; an empty slice
// becomes a single empty line.
func (m *Map) SetNoteBody(id NoteID, lines []string) bool {
	n, ok := m.notes[id]
	if !ok {
		return false
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	n.Body = append([]string(nil), lines...)
	m.dirty = true
	return true
}

// CycleNoteColor advances a note's color through the palette.
func (m *Map) CycleNoteColor(id NoteID) bool {
	n, ok := m.notes[id]
	if !ok {
		return false
	}
	n.Color = n.Color.Next()
	m.dirty = true
	return true
}

// RaiseNote moves a note to the front of the render order. Raising does not
// dirty the map: the reorder rides along with the next content save.
func (m *Map) RaiseNote(id NoteID) bool {
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			m.order = append(m.order, id)
			return true
		}
	}
	return false
}

// AddConnection creates a connection between two live notes and returns its
// ID. A self-loop is rejected when both endpoints share a side.
func (m *Map) AddConnection(from, to NoteID, fromSide, toSide Side, color Color) (ConnectionID, error) {
	if _, ok := m.notes[from]; !ok {
		return 0, fmt.Errorf("connection source %d: %w", from, ErrNoteMissing)
	}
	if _, ok := m.notes[to]; !ok {
		return 0, fmt.Errorf("connection target %d: %w", to, ErrNoteMissing)
	}
	if from == to && fromSide == toSide {
		return 0, ErrDegenerateLoop
	}
	id := m.nextConn
	m.nextConn++
	m.conns[id] = &Connection{
		ID:       id,
		From:     from,
		To:       to,
		FromSide: fromSide,
		ToSide:   toSide,
		Color:    color,
	}
	m.dirty = true
	return id, nil
}

// DeleteConnection removes a connection. Deleting an absent ID is a no-op.
func (m *Map) DeleteConnection(id ConnectionID) bool {
	if _, ok := m.conns[id]; !ok {
		return false
	}
	delete(m.conns, id)
	m.dirty = true
	return true
}

// RetargetConnection re-anchors a connection's target end onto another live
// note. Retargeting onto the connection's own source keeps the loop legal
// by advancing the target side off the source side when the two coincide.
func (m *Map) RetargetConnection(id ConnectionID, to NoteID, toSide Side) error {
	c, ok := m.conns[id]
	if !ok {
		return fmt.Errorf("connection %d: %w", id, ErrNoteMissing)
	}
	if _, ok := m.notes[to]; !ok {
		return fmt.Errorf("connection target %d: %w", to, ErrNoteMissing)
	}
	if to == c.From && toSide == c.FromSide {
		toSide = toSide.Next()
	}
	c.To = to
	c.ToSide = toSide
	m.dirty = true
	return nil
}

// RotateSidesAt advances the side of every endpoint of the connection that
// is anchored at the given note. Both ends of a self-loop rotate together,
// which keeps their sides distinct since the rotation is one-to-one.
func (m *Map) RotateSidesAt(id ConnectionID, at NoteID) bool {
	c, ok := m.conns[id]
	if !ok {
		return false
	}
	rotated := false
	if c.From == at {
		c.FromSide = c.FromSide.Next()
		rotated = true
	}
	if c.To == at {
		c.ToSide = c.ToSide.Next()
		rotated = true
	}
	if rotated {
		m.dirty = true
	}
	return rotated
}

// CycleConnectionColor advances a connection's color through the palette.
func (m *Map) CycleConnectionColor(id ConnectionID) bool {
	c, ok := m.conns[id]
	if !ok {
		return false
	}
	c.Color = c.Color.Next()
	m.dirty = true
	return true
}

// ConnectionsOf returns the IDs of every connection touching the note, in
// ascending order. The order is the cycle order for focus switching.
func (m *Map) ConnectionsOf(id NoteID) []ConnectionID {
	var out []ConnectionID
	for cid, c := range m.conns {
		if c.From == id || c.To == id {
			out = append(out, cid)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NextConnectionOf returns the connection after current among those touching
// the note, wrapping around. When current is not attached (or there is no
// current), the first attached connection is returned. ok is false when the
// note has no connections at all.
func (m *Map) NextConnectionOf(note NoteID, current ConnectionID) (ConnectionID, bool) {
	attached := m.ConnectionsOf(note)
	if len(attached) == 0 {
		return 0, false
	}
	for i, cid := range attached {
		if cid == current {
			return attached[(i+1)%len(attached)], true
		}
	}
	return attached[0], true
}

// Counters returns the next-ID counters, for persistence.
func (m *Map) Counters() (NoteID, ConnectionID) {
	return m.nextNote, m.nextConn
}

// Snapshot returns the map's persistent content: notes and connections in
// ascending ID order plus a copy of the render order. The returned slices
// are detached from the map.
func (m *Map) Snapshot() (notes []Note, conns []Connection, order []NoteID) {
	notes = make([]Note, 0, len(m.notes))
	for _, n := range m.notes {
		c := *n
		c.Body = append([]string(nil), n.Body...)
		notes = append(notes, c)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })

	conns = make([]Connection, 0, len(m.conns))
	for _, c := range m.conns {
		conns = append(conns, *c)
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })

	return notes, conns, m.RenderOrder()
}

// Restore builds a map from persisted content, validating referential
// integrity: duplicate IDs, connections naming absent notes, degenerate
// self-loops, render-order entries naming absent notes, and counters at or
// below an existing ID are all rejected. The restored map starts clean.
func Restore(notes []Note, conns []Connection, order []NoteID, nextNote NoteID, nextConn ConnectionID) (*Map, error) {
	m := NewMap()
	for _, n := range notes {
		if _, dup := m.notes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate note id %d", n.ID)
		}
		if n.X < 0 || n.Y < 0 {
			return nil, fmt.Errorf("note %d at negative position (%d, %d)", n.ID, n.X, n.Y)
		}
		if n.ID >= nextNote {
			return nil, fmt.Errorf("note id %d not below counter %d", n.ID, nextNote)
		}
		c := n
		if len(c.Body) == 0 {
			c.Body = []string{""}
		} else {
			c.Body = append([]string(nil), n.Body...)
		}
		m.notes[n.ID] = &c
	}

	for _, conn := range conns {
		if _, dup := m.conns[conn.ID]; dup {
			return nil, fmt.Errorf("duplicate connection id %d", conn.ID)
		}
		if conn.ID >= nextConn {
			return nil, fmt.Errorf("connection id %d not below counter %d", conn.ID, nextConn)
		}
		if _, ok := m.notes[conn.From]; !ok {
			return nil, fmt.Errorf("connection %d source %d: %w", conn.ID, conn.From, ErrNoteMissing)
		}
		if _, ok := m.notes[conn.To]; !ok {
			return nil, fmt.Errorf("connection %d target %d: %w", conn.ID, conn.To, ErrNoteMissing)
		}
		if conn.From == conn.To && conn.FromSide == conn.ToSide {
			return nil, fmt.Errorf("connection %d: %w", conn.ID, ErrDegenerateLoop)
		}
		c := conn
		m.conns[conn.ID] = &c
	}

	seen := make(map[NoteID]bool, len(order))
	for _, id := range order {
		if _, ok := m.notes[id]; !ok {
			return nil, fmt.Errorf("render order references absent note %d", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("render order lists note %d twice", id)
		}
		seen[id] = true
		m.order = append(m.order, id)
	}
	// Notes missing from the order still have to render; append them in ID
	// order so the result is deterministic.
	if len(m.order) < len(m.notes) {
		missing := make([]NoteID, 0, len(m.notes)-len(m.order))
		for id := range m.notes {
			if !seen[id] {
				missing = append(missing, id)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		m.order = append(m.order, missing...)
	}

	m.nextNote = nextNote
	m.nextConn = nextConn
	return m, nil
}
