package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileState is what a snapshot records about one file.
type FileState struct {
	ModTime time.Time
	Size    int64
}

// Snapshot maps file names in a directory to their state.
type Snapshot map[string]FileState

// TakeSnapshot records every regular file in dir whose extension is ext
// (without the dot). An empty ext matches any file. Files that disappear
// while the directory is being read are left out.
func TakeSnapshot(dir, ext string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	snap := make(Snapshot, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !matchesExt(entry.Name(), ext) {
			continue
		}
		info, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		snap[entry.Name()] = FileState{ModTime: info.ModTime(), Size: info.Size()}
	}
	return snap, nil
}

// Changed lists, in lexicographic order, the files of fresh that are absent
// from s or whose modification time differs. Files removed since s are not
// reported.
func (s Snapshot) Changed(fresh Snapshot) []string {
	var names []string
	for name, st := range fresh {
		old, ok := s[name]
		if !ok || !old.ModTime.Equal(st.ModTime) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func matchesExt(name, ext string) bool {
	if ext == "" {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), "."+strings.TrimPrefix(ext, "."))
}
