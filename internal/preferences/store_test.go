package preferences

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileYieldsDefaults(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "preferences.yaml"))
	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Rules)
	assert.Equal(t, BuiltinDefaults(), doc.Defaults)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	s := NewFileStore(path)

	doc := NewDocument()
	_, _, err := doc.Upsert("standup", Update{DurationMinutes: intPtr(15), Color: "green"})
	require.NoError(t, err)
	require.NoError(t, s.Save(doc))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "patterns:")
	assert.Contains(t, string(raw), "duration_minutes: 15")
}

func TestFileStore_PartialDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  color: red\n"), 0o600))

	doc, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "red", doc.Defaults.Color)
	assert.Equal(t, DefaultDurationMinutes, doc.Defaults.DurationMinutes)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns: [unclosed"), 0o600))
	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}
