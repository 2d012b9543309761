// Package cache keeps rule descriptions produced by a language model on disk,
// so repeated runs over reports of the same tool do not ask the model again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Entry is one cached rule description.
type Entry struct {
	Tool    string    `yaml:"tool"`
	Rule    string    `yaml:"rule"`
	Model   string    `yaml:"model"`
	Text    string    `yaml:"text"`
	SavedAt time.Time `yaml:"savedAt"`
}

func (e Entry) matches(tool, rule, model string) bool {
	return e.Tool == tool && e.Rule == rule && e.Model == model && e.Text != ""
}

// Store holds one YAML record per (tool, rule, model) under Dir.
type Store struct {
	Dir string
	// StrictPerms enforces 0700 on Dir and 0600 on records.
	StrictPerms bool
}

// entryName is the file name of the record for tool, rule and model.
func entryName(tool, rule, model string) string {
	h := sha256.Sum256([]byte(tool + "\x00" + rule + "\x00" + model))
	return hex.EncodeToString(h[:16]) + entrySuffix
}

func (s *Store) prepare() error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if s.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(s.Dir, perm); err != nil {
		return err
	}
	if s.StrictPerms {
		return os.Chmod(s.Dir, 0o700)
	}
	return nil
}

// Lookup returns the description of rule for tool written by model. Missing,
// unreadable and mismatching records are misses, not errors. A hit marks the
// record as recently used.
func (s *Store) Lookup(tool, rule, model string) (Entry, bool, error) {
	if err := s.prepare(); err != nil {
		return Entry{}, false, err
	}
	p := filepath.Join(s.Dir, entryName(tool, rule, model))
	e, err := readEntry(p)
	if err != nil || !e.matches(tool, rule, model) {
		return Entry{}, false, nil
	}
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return e, true, nil
}

// Put stores e, stamping SavedAt when it is zero.
func (s *Store) Put(e Entry) error {
	if e.Rule == "" || e.Text == "" {
		return errors.New("cache entry needs a rule and a text")
	}
	if err := s.prepare(); err != nil {
		return err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	b, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	mode := os.FileMode(0o644)
	if s.StrictPerms {
		mode = 0o600
	}
	return os.WriteFile(filepath.Join(s.Dir, entryName(e.Tool, e.Rule, e.Model)), b, mode)
}

func readEntry(path string) (Entry, error) {
	var e Entry
	b, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := yaml.Unmarshal(b, &e); err != nil {
		return e, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return e, nil
}
