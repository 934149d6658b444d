package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notemap/notemap/internal/canvas"
)

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")

	if err := Write(path, []byte("old\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(path, []byte("new\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "new\n" {
		t.Fatalf("content = %q, want %q", data, "new\n")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".notemap-tmp-") {
			t.Fatalf("temp file %s left behind", e.Name())
		}
	}
}

func TestWriteFailureLeavesDestinationAlone(t *testing.T) {
	dir := t.TempDir()

	// The destination name is occupied by a directory, so the final rename
	// cannot succeed. The write must fail without disturbing it and without
	// littering temp files.
	dest := filepath.Join(dir, "map.json")
	if err := os.Mkdir(dest, 0o700); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	inner := filepath.Join(dest, "keep.txt")
	if err := os.WriteFile(inner, []byte("keep"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Write(dest, []byte("clobber")); err == nil {
		t.Fatal("expected write onto a directory to fail")
	}

	if data, err := os.ReadFile(inner); err != nil || string(data) != "keep" {
		t.Fatalf("destination disturbed: %q, %v", data, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".notemap-tmp-") {
			t.Fatalf("temp file %s left behind", e.Name())
		}
	}
}

func TestLoadMissingFileIsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestLoadRoundTripsThroughDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")

	m := canvas.NewMap()
	id := m.AddNote(4, 2, canvas.Cyan)
	m.SetNoteBody(id, []string{"hello"})
	data, err := Encode(m, canvas.Viewport{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Write(path, data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Sum != Sum(data) {
		t.Fatalf("Sum = %d, want %d", loaded.Sum, Sum(data))
	}
	if n, ok := loaded.Map.Note(id); !ok || n.Body[0] != "hello" {
		t.Fatalf("note lost: %+v, %v", n, ok)
	}
	if loaded.Viewport.X != 1 || loaded.Viewport.Y != 2 {
		t.Fatalf("viewport = %+v", loaded.Viewport)
	}
	if loaded.Map.Dirty() {
		t.Fatal("freshly loaded map must start clean")
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/home/u/maps/plan.json"); got != "plan" {
		t.Fatalf("Stem = %q, want %q", got, "plan")
	}
	if got := Stem("bare"); got != "bare" {
		t.Fatalf("Stem = %q, want %q", got, "bare")
	}
}
