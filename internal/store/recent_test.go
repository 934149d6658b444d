package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestRecentPathsAddShiftsDown(t *testing.T) {
	var r RecentPaths
	r.Add("/a.json")
	r.Add("/b.json")
	r.Add("/c.json")
	r.Add("/d.json")

	want := []string{"/d.json", "/c.json", "/b.json"}
	if !reflect.DeepEqual(r.Paths, want) {
		t.Fatalf("paths = %v, want %v", r.Paths, want)
	}
}

func TestRecentPathsAddSkipsKnownPath(t *testing.T) {
	var r RecentPaths
	r.Add("/a.json")
	r.Add("/b.json")
	r.Add("/a.json")

	want := []string{"/b.json", "/a.json"}
	if !reflect.DeepEqual(r.Paths, want) {
		t.Fatalf("paths = %v, want %v", r.Paths, want)
	}
}

func TestRecentPathsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	var r RecentPaths
	r.Add("/maps/plan.json")
	r.Add("/maps/ideas.json")
	if err := SaveRecent(dir, r); err != nil {
		t.Fatalf("SaveRecent: %v", err)
	}

	got := LoadRecent(dir)
	if !reflect.DeepEqual(got, r) {
		t.Fatalf("loaded = %v, want %v", got, r)
	}
}

func TestLoadRecentMissingFileIsEmpty(t *testing.T) {
	got := LoadRecent(t.TempDir())
	if len(got.Paths) != 0 {
		t.Fatalf("paths = %v, want empty", got.Paths)
	}
}

func TestResolveMapPathAppendsExtension(t *testing.T) {
	got, err := ResolveMapPath("/maps/plan")
	if err != nil {
		t.Fatalf("ResolveMapPath: %v", err)
	}
	if filepath.Base(got) != "plan.json" {
		t.Fatalf("resolved = %q", got)
	}

	got, err = ResolveMapPath("/maps/plan.json")
	if err != nil {
		t.Fatalf("ResolveMapPath: %v", err)
	}
	if filepath.Base(got) != "plan.json" {
		t.Fatalf("resolved = %q", got)
	}

	if _, err := ResolveMapPath(""); err == nil {
		t.Fatal("expected empty path to fail")
	}
}
