// Package store persists the canvas map: a versioned JSON snapshot of the
// notes, connections, render order, viewport, and identifier counters. It
// also owns the atomic-write discipline, timestamped backup copies, the
// recent-paths list, and a watcher that surfaces external edits to the open
// map file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/notemap/notemap/internal/canvas"
)

// formatVersion is the map file format this build reads and writes.
const formatVersion = 1

// ErrCorrupt marks a map file that exists but cannot be trusted: bad JSON,
// an unknown version, or content that violates the model's invariants. The
// caller must surface it instead of replacing the file with an empty map.
var ErrCorrupt = errors.New("map file is corrupt")

type mapDocument struct {
	Version          int             `json:"version"`
	Viewport         viewportRecord  `json:"viewport"`
	NextNoteID       canvas.NoteID   `json:"next_note_id"`
	NextConnectionID canvas.ConnectionID `json:"next_connection_id"`
	Notes            []noteRecord    `json:"notes"`
	RenderOrder      []canvas.NoteID `json:"render_order"`
	Connections      []connRecord    `json:"connections"`
}

type viewportRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type noteRecord struct {
	ID    canvas.NoteID `json:"id"`
	X     int           `json:"x"`
	Y     int           `json:"y"`
	Body  []string      `json:"body"`
	Color canvas.Color  `json:"color"`
}

type connRecord struct {
	ID       canvas.ConnectionID `json:"id"`
	From     canvas.NoteID       `json:"from"`
	To       canvas.NoteID       `json:"to"`
	FromSide canvas.Side         `json:"from_side"`
	ToSide   canvas.Side         `json:"to_side"`
	Color    canvas.Color        `json:"color"`
}

// Encode serializes the map and viewport into the versioned document form.
// Notes and connections are written in ascending ID order so the output is
// deterministic and diffs stay readable.
func Encode(m *canvas.Map, vp canvas.Viewport) ([]byte, error) {
	notes, conns, order := m.Snapshot()
	nextNote, nextConn := m.Counters()

	doc := mapDocument{
		Version:          formatVersion,
		Viewport:         viewportRecord{X: vp.X, Y: vp.Y},
		NextNoteID:       nextNote,
		NextConnectionID: nextConn,
		Notes:            make([]noteRecord, 0, len(notes)),
		RenderOrder:      order,
		Connections:      make([]connRecord, 0, len(conns)),
	}
	for _, n := range notes {
		doc.Notes = append(doc.Notes, noteRecord{
			ID: n.ID, X: n.X, Y: n.Y, Body: n.Body, Color: n.Color,
		})
	}
	for _, c := range conns {
		doc.Connections = append(doc.Connections, connRecord{
			ID: c.ID, From: c.From, To: c.To,
			FromSide: c.FromSide, ToSide: c.ToSide, Color: c.Color,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode map: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a map file and rebuilds the model, validating referential
// integrity through canvas.Restore. Every failure wraps ErrCorrupt.
func Decode(data []byte) (*canvas.Map, canvas.Viewport, error) {
	var doc mapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, canvas.Viewport{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Version != formatVersion {
		return nil, canvas.Viewport{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, doc.Version)
	}
	if doc.Viewport.X < 0 || doc.Viewport.Y < 0 {
		return nil, canvas.Viewport{}, fmt.Errorf("%w: viewport at negative position (%d, %d)", ErrCorrupt, doc.Viewport.X, doc.Viewport.Y)
	}

	notes := make([]canvas.Note, 0, len(doc.Notes))
	for _, n := range doc.Notes {
		notes = append(notes, canvas.Note{
			ID: n.ID, X: n.X, Y: n.Y, Body: n.Body, Color: n.Color,
		})
	}
	conns := make([]canvas.Connection, 0, len(doc.Connections))
	for _, c := range doc.Connections {
		conns = append(conns, canvas.Connection{
			ID: c.ID, From: c.From, To: c.To,
			FromSide: c.FromSide, ToSide: c.ToSide, Color: c.Color,
		})
	}

	m, err := canvas.Restore(notes, conns, doc.RenderOrder, doc.NextNoteID, doc.NextConnectionID)
	if err != nil {
		return nil, canvas.Viewport{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return m, canvas.Viewport{X: doc.Viewport.X, Y: doc.Viewport.Y}, nil
}
