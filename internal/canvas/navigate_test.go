package canvas

import "testing"

func TestClosestNotePicksLowestIDAmongEquidistant(t *testing.T) {
	m := NewMap()
	a := m.AddNote(0, 0, White)
	m.AddNote(10, 0, White)
	m.AddNote(0, 10, White)

	// All three sit at Manhattan distance 10 from (5, 5).
	got, ok := m.ClosestNote(5, 5)
	if !ok {
		t.Fatal("expected a note on a non-empty map")
	}
	if got != a {
		t.Fatalf("expected lowest id %d, got %d", a, got)
	}
}

func TestClosestNoteExactTieResolvesByLowestID(t *testing.T) {
	m := NewMap()
	a := m.AddNote(0, 0, White)
	m.AddNote(10, 10, White)

	got, ok := m.ClosestNote(5, 5)
	if !ok || got != a {
		t.Fatalf("expected tie winner %d, got %d ok=%v", a, got, ok)
	}
}

func TestClosestNotePrefersNearer(t *testing.T) {
	m := NewMap()
	m.AddNote(0, 0, White)
	near := m.AddNote(4, 4, White)

	got, ok := m.ClosestNote(5, 5)
	if !ok || got != near {
		t.Fatalf("expected nearer note %d, got %d ok=%v", near, got, ok)
	}
}

func TestClosestNoteEmptyMap(t *testing.T) {
	m := NewMap()
	if _, ok := m.ClosestNote(0, 0); ok {
		t.Fatal("expected no note on an empty map")
	}
}

func TestNextInDirectionNoNeighborIsNoOp(t *testing.T) {
	m := NewMap()
	right := m.AddNote(20, 10, White)
	m.AddNote(0, 10, White)

	if _, ok := m.NextInDirection(right, DirRight); ok {
		t.Fatal("expected no candidate to the right of the rightmost note")
	}
}

func TestNextInDirectionPicksSmallestCombinedDisplacement(t *testing.T) {
	m := NewMap()
	from := m.AddNote(10, 10, White)
	m.AddNote(20, 10, White)         // straight right, displacement 10
	near := m.AddNote(12, 15, White) // 2 right, 5 down, displacement 7

	got, ok := m.NextInDirection(from, DirRight)
	if !ok || got != near {
		t.Fatalf("expected %d with the smaller combined displacement, got %d ok=%v", near, got, ok)
	}
}

func TestNextInDirectionRequiresStrictProgress(t *testing.T) {
	m := NewMap()
	from := m.AddNote(10, 10, White)
	m.AddNote(10, 30, White) // same x, not rightward

	if _, ok := m.NextInDirection(from, DirRight); ok {
		t.Fatal("expected a note at the same x to be excluded from rightward search")
	}
}

func TestNextInDirectionTieBreaksByLowestID(t *testing.T) {
	m := NewMap()
	from := m.AddNote(10, 10, White)
	above := m.AddNote(15, 5, White) // 5 right, 5 up
	m.AddNote(15, 15, White)         // 5 right, 5 down, same displacement

	got, ok := m.NextInDirection(from, DirRight)
	if !ok || got != above {
		t.Fatalf("expected tied candidates to resolve to %d, got %d ok=%v", above, got, ok)
	}
}

func TestNextInDirectionAllDirections(t *testing.T) {
	m := NewMap()
	center := m.AddNote(50, 50, White)
	left := m.AddNote(30, 50, White)
	right := m.AddNote(70, 50, White)
	up := m.AddNote(50, 30, White)
	down := m.AddNote(50, 70, White)

	cases := []struct {
		dir  Direction
		want NoteID
	}{
		{DirLeft, left},
		{DirRight, right},
		{DirUp, up},
		{DirDown, down},
	}
	for _, tc := range cases {
		got, ok := m.NextInDirection(center, tc.dir)
		if !ok || got != tc.want {
			t.Fatalf("%v: expected %d, got %d ok=%v", tc.dir, tc.want, got, ok)
		}
	}
}

func TestNextInDirectionAbsentNote(t *testing.T) {
	m := NewMap()
	m.AddNote(0, 0, White)
	if _, ok := m.NextInDirection(NoteID(99), DirRight); ok {
		t.Fatal("expected absent note to yield no candidate")
	}
}
