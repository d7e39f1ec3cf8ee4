package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsStore_DefaultsWhenMissing(t *testing.T) {
	s := NewPrefsStore(t.TempDir())

	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPrefsStore_RoundTrip(t *testing.T) {
	s := NewPrefsStore(t.TempDir())

	require.NoError(t, s.Save(Preferences{Language: "fr", Theme: "dark"}))

	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "fr", prefs.Language)
	assert.Equal(t, "dark", prefs.Theme)
}

func TestPrefsStore_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, prefsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"language":"de","currencyDisplay":"symbol"}`), 0o600))

	s := NewPrefsStore(dir)
	require.NoError(t, s.Save(Preferences{Language: "en", Theme: "dark"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "en", raw["language"])
	assert.Equal(t, "dark", raw["theme"])
	assert.Equal(t, "symbol", raw["currencyDisplay"])
}

func TestPrefsStore_MalformedFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, prefsFile), []byte("{oops"), 0o600))

	prefs, err := NewPrefsStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPrefsStore_PartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, prefsFile), []byte(`{"theme":"dark"}`), 0o600))

	prefs, err := NewPrefsStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "en", prefs.Language)
	assert.Equal(t, "dark", prefs.Theme)
}
