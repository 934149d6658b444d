package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	recentFileName = "recent.json"
	maxRecent      = 3
)

// RecentPaths is the short list of recently opened map files, newest first.
type RecentPaths struct {
	Paths []string `json:"paths"`
}

// Add puts a path at the top of the list, dropping the oldest entry past
// the limit. A path already on the list is left where it is: reopening a
// known map does not reshuffle the menu under the user.
func (r *RecentPaths) Add(path string) {
	if r.Contains(path) {
		return
	}
	r.Paths = append([]string{path}, r.Paths...)
	if len(r.Paths) > maxRecent {
		r.Paths = r.Paths[:maxRecent]
	}
}

// Contains reports whether the path is already on the list.
func (r *RecentPaths) Contains(path string) bool {
	for _, p := range r.Paths {
		if p == path {
			return true
		}
	}
	return false
}

func recentPath(configDir string) string {
	return filepath.Join(configDir, recentFileName)
}

// LoadRecent reads the recent-paths list from the config directory. A
// missing or unreadable file yields an empty list; recent paths are a
// convenience, never an error the user has to deal with.
func LoadRecent(configDir string) RecentPaths {
	data, err := os.ReadFile(recentPath(configDir))
	if err != nil {
		return RecentPaths{}
	}
	var r RecentPaths
	if err := json.Unmarshal(data, &r); err != nil {
		return RecentPaths{}
	}
	if len(r.Paths) > maxRecent {
		r.Paths = r.Paths[:maxRecent]
	}
	return r
}

// SaveRecent writes the recent-paths list into the config directory.
func SaveRecent(configDir string, r RecentPaths) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(recentPath(configDir), data, 0o600); err != nil {
		return fmt.Errorf("write recent paths: %w", err)
	}
	return nil
}

// ResolveMapPath normalizes a user-entered map path: the ".json" extension
// is appended when missing and the result is absolutized. The path may name
// a file that does not exist yet.
func ResolveMapPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("map path is required")
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve map path: %w", err)
	}
	return filepath.Clean(abs), nil
}
