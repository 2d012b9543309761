package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, s *Store, rule, text string) string {
	t.Helper()
	require.NoError(t, s.Put(Entry{Tool: "polyspace", Rule: rule, Model: "m", Text: text}))
	return filepath.Join(s.Dir, entryName("polyspace", rule, "m"))
}

func TestStore_PutLookup(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	p := put(t, s, "NullDeref", "Pointer may be null.")

	got, ok, err := s.Lookup("polyspace", "NullDeref", "m")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pointer may be null.", got.Text)
	assert.False(t, got.SavedAt.IsZero())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "rule: NullDeref")

	for _, miss := range [][3]string{
		{"polyspace", "NullDeref", "other-model"},
		{"xml", "NullDeref", "m"},
		{"polyspace", "Overflow", "m"},
	} {
		_, ok, err := s.Lookup(miss[0], miss[1], miss[2])
		require.NoError(t, err)
		assert.False(t, ok, miss)
	}
}

func TestStore_MismatchingRecordIsMiss(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	p := put(t, s, "A", "text")
	// a record whose content names another rule does not answer for A
	require.NoError(t, os.WriteFile(p, []byte("tool: polyspace\nrule: B\nmodel: m\ntext: wrong\n"), 0o644))
	_, ok, err := s.Lookup("polyspace", "A", "m")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(p, []byte("{not yaml"), 0o644))
	_, ok, err = s.Lookup("polyspace", "A", "m")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Invalid(t *testing.T) {
	var s *Store
	_, _, err := s.Lookup("t", "r", "m")
	assert.Error(t, err)
	assert.Error(t, (&Store{}).Put(Entry{Rule: "r", Text: "x"}))
	assert.Error(t, (&Store{Dir: t.TempDir()}).Put(Entry{Rule: "r"}))
}

func TestStore_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	s := &Store{Dir: dir, StrictPerms: true}
	p := put(t, s, "r", "x")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode()&0o777)
	info, err = os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode()&0o777)
}

func TestPurgeByAge_UsesSavedAt(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}
	require.NoError(t, s.Put(Entry{Tool: "polyspace", Rule: "old", Model: "m", Text: "1",
		SavedAt: time.Now().Add(-3 * time.Hour)}))
	put(t, s, "new", "2")
	// reading an expired record does not keep it alive
	_, ok, _ := s.Lookup("polyspace", "old", "m")
	require.True(t, ok)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	removed, err := PurgeByAge(dir, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, ok, _ = s.Lookup("polyspace", "old", "m")
	assert.False(t, ok)
	_, ok, _ = s.Lookup("polyspace", "new", "m")
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))

	removed, err = PurgeByAge(dir, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPurgeByAge_UndecodableFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "broken"+entrySuffix)
	require.NoError(t, os.WriteFile(p, []byte("{"), 0o644))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(p, past, past))

	removed, err := PurgeByAge(dir, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestEnforceLimit_EvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}
	base := time.Now().Add(-time.Hour)
	paths := make([]string, 3)
	for i := range paths {
		paths[i] = put(t, s, fmt.Sprintf("k%d", i), "x")
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(paths[i], ts, ts))
	}
	// reading k0 makes it the most recently used record
	_, ok, _ := s.Lookup("polyspace", "k0", "m")
	require.True(t, ok)

	removed, err := EnforceLimit(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, paths[1])
	assert.FileExists(t, paths[0])
	assert.FileExists(t, paths[2])
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"+entrySuffix), []byte("x"), 0o644))
	require.NoError(t, ClearDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, ClearDir(" "))
}

func TestPurge_MissingDir(t *testing.T) {
	n, err := PurgeByAge(filepath.Join(t.TempDir(), "absent"), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEntryName(t *testing.T) {
	a := entryName("polyspace", "r", "m")
	assert.True(t, strings.HasSuffix(a, entrySuffix))
	assert.Equal(t, a, entryName("polyspace", "r", "m"))
	assert.NotEqual(t, a, entryName("polyspace", "r", "n"))
	assert.NotEqual(t, entryName("ab", "c", "m"), entryName("a", "bc", "m"))
}
