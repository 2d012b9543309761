package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const entrySuffix = ".desc.yaml"

// ClearDir removes the directory and all contents, then recreates it empty.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

type record struct {
	path     string
	lastUsed time.Time
}

func listRecords(dir string) ([]record, error) {
	var out []record
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), entrySuffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // vanished between listing and stat
		}
		out = append(out, record{path: path, lastUsed: info.ModTime()})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return out, err
}

// PurgeByAge removes descriptions saved more than maxAge ago, whether or not
// they were used since. Records that cannot be decoded are aged by their
// modification time. It returns the number of removed records.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	records, err := listRecords(dir)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	removed := 0
	for _, r := range records {
		saved := r.lastUsed
		if e, err := readEntry(r.path); err == nil && !e.SavedAt.IsZero() {
			saved = e.SavedAt
		}
		if now.Sub(saved) <= maxAge {
			continue
		}
		if os.Remove(r.path) == nil {
			removed++
		}
	}
	return removed, nil
}

// EnforceLimit evicts the least recently used records until at most
// maxEntries remain. A non-positive limit disables eviction.
func EnforceLimit(dir string, maxEntries int) (int, error) {
	if maxEntries <= 0 {
		return 0, nil
	}
	records, err := listRecords(dir)
	if err != nil || len(records) <= maxEntries {
		return 0, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].lastUsed.Before(records[j].lastUsed) })
	removed := 0
	for _, r := range records[:len(records)-maxEntries] {
		if os.Remove(r.path) == nil {
			removed++
		}
	}
	return removed, nil
}
