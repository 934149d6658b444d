package canvas

// Navigation queries. Both scans are a single pass over the note set; the
// map carries no spatial index, and at the note counts a keyboard-driven
// canvas reaches, none is warranted.

// ClosestNote returns the note nearest to the given point by Manhattan
// distance. Equidistant notes resolve to the lowest ID, so repeated calls
// over an unchanged map pick the same note. ok is false on an empty map.
func (m *Map) ClosestNote(x, y int) (NoteID, bool) {
	best := NoteID(-1)
	bestDist := 0
	for id, n := range m.notes {
		d := abs(n.X-x) + abs(n.Y-y)
		if best < 0 || d < bestDist || (d == bestDist && id < best) {
			best = id
			bestDist = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// NextInDirection returns the note the focus should move to from the given
// note. Candidates are the notes lying strictly past the current note along
// the direction's axis; among them the one with the smallest combined
// along-axis plus cross-axis displacement wins, ties broken by the lower
// ID. ok is false when no note lies in that direction or the note is
// absent.
func (m *Map) NextInDirection(from NoteID, dir Direction) (NoteID, bool) {
	cur, ok := m.notes[from]
	if !ok {
		return 0, false
	}

	best := NoteID(-1)
	bestDist := 0
	for id, n := range m.notes {
		if id == from {
			continue
		}
		var ahead, cross int
		switch dir {
		case DirLeft:
			ahead, cross = cur.X-n.X, abs(n.Y-cur.Y)
		case DirRight:
			ahead, cross = n.X-cur.X, abs(n.Y-cur.Y)
		case DirUp:
			ahead, cross = cur.Y-n.Y, abs(n.X-cur.X)
		case DirDown:
			ahead, cross = n.Y-cur.Y, abs(n.X-cur.X)
		}
		if ahead <= 0 {
			continue
		}
		d := ahead + cross
		if best < 0 || d < bestDist || (d == bestDist && id < best) {
			best = id
			bestDist = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
