package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/notemap/notemap/internal/canvas"
)

// Load reads and decodes the map file at path. A missing file surfaces as
// os.ErrNotExist; anything unreadable past that point wraps ErrCorrupt.
func Load(path string) (loaded LoadedMap, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadedMap{}, fmt.Errorf("read map file: %w", err)
	}
	m, vp, err := Decode(data)
	if err != nil {
		return LoadedMap{}, err
	}
	return LoadedMap{Map: m, Viewport: vp, Sum: Sum(data)}, nil
}

// LoadedMap is the result of reading a map file: the restored model plus
// the content hash of the bytes on disk, for the watcher's self-write gate.
type LoadedMap struct {
	Map      *canvas.Map
	Viewport canvas.Viewport
	Sum      uint64
}

// Write replaces the file at path with data atomically: the bytes go to a
// temp file in the same directory, are synced and closed, then renamed over
// the destination. On any failure the temp file is removed and the previous
// content of path is untouched.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".notemap-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	success = true
	return nil
}

// Sum returns the content hash used to tell our own writes apart from
// external ones.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Stem returns the map file's name without directory or extension, the key
// used by the backup-date registry and backup file names.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
