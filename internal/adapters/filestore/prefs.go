package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const prefsFile = "prefs.json"

// Preferences are the user's display settings. They live next to the
// credential file and survive logout, which only clears the credential.
type Preferences struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// DefaultPreferences returns the settings used before the user has chosen
// any.
func DefaultPreferences() Preferences {
	return Preferences{Language: "en", Theme: "light"}
}

// PrefsStore persists Preferences in the state directory. Keys it does not
// know about are preserved across saves, so older and newer builds can
// share the file.
type PrefsStore struct {
	path string
}

// NewPrefsStore creates a PrefsStore rooted at dir.
func NewPrefsStore(dir string) *PrefsStore {
	return &PrefsStore{path: filepath.Join(dir, prefsFile)}
}

// Load reads the stored preferences, filling defaults for absent fields.
// A missing or malformed file yields the defaults.
func (s *PrefsStore) Load() (Preferences, error) {
	prefs := DefaultPreferences()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences: %w", err)
	}

	var stored struct {
		Language string `json:"language"`
		Theme    string `json:"theme"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return prefs, nil
	}
	if stored.Language != "" {
		prefs.Language = stored.Language
	}
	if stored.Theme != "" {
		prefs.Theme = stored.Theme
	}
	return prefs, nil
}

// Save writes the preferences, merging over any unknown keys already in
// the file.
func (s *PrefsStore) Save(prefs Preferences) error {
	merged := map[string]json.RawMessage{}
	if data, err := os.ReadFile(s.path); err == nil {
		// Best effort: a malformed file is simply replaced.
		_ = json.Unmarshal(data, &merged)
	}

	lang, err := json.Marshal(prefs.Language)
	if err != nil {
		return fmt.Errorf("marshal language: %w", err)
	}
	theme, err := json.Marshal(prefs.Theme)
	if err != nil {
		return fmt.Errorf("marshal theme: %w", err)
	}
	merged["language"] = lang
	merged["theme"] = theme

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), prefsFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write preferences: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close preferences: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename preferences: %w", err)
	}
	return nil
}
