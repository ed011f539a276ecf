// Package prefs persists user-facing assistant settings: the reply
// language and the dictation-mode flag survive restarts.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Default values applied when a preference has never been set.
const (
	DefaultLanguage = "en-US"
)

// Preferences holds the persisted settings.
type Preferences struct {
	// Language is the BCP-47 tag replies and recognition use.
	Language string `json:"language"`

	// Dictation reports whether dictation mode is on.
	Dictation bool `json:"dictation"`
}

// Store defines the interface for preference persistence.
type Store interface {
	// Load returns the current preferences, with defaults filled in.
	Load() (Preferences, error)

	// Save persists the given preferences.
	Save(p Preferences) error

	// SetLanguage updates only the language preference.
	SetLanguage(lang string) error

	// SetDictation updates only the dictation flag.
	SetDictation(on bool) error
}

// JSONStore implements Store using a JSON file for persistence.
type JSONStore struct {
	path  string
	mu    sync.Mutex
	prefs Preferences
}

// storeData is the JSON structure for the preferences file.
type storeData struct {
	Version     int         `json:"version"`
	UpdatedAt   string      `json:"updated_at"`
	Preferences Preferences `json:"preferences"`
}

const currentVersion = 1

// NewJSONStore creates a preference store at the given path.
// If the file doesn't exist, defaults apply until the first save.
func NewJSONStore(path string) (*JSONStore, error) {
	store := &JSONStore{
		path:  path,
		prefs: Preferences{Language: DefaultLanguage},
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := store.load(); err != nil {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
	}

	return store, nil
}

// NewDefaultStore creates a store at ~/.officevoice/prefs.json.
func NewDefaultStore() (*JSONStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(homeDir, ".officevoice", "prefs.json")
	return NewJSONStore(path)
}

// load reads the preferences from disk.
func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var stored storeData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	s.prefs = stored.Preferences
	if s.prefs.Language == "" {
		s.prefs.Language = DefaultLanguage
	}
	return nil
}

// save writes the preferences to disk. Caller must hold the lock.
func (s *JSONStore) save() error {
	stored := storeData{
		Version:     currentVersion,
		UpdatedAt:   time.Now().Format(time.RFC3339),
		Preferences: s.prefs,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Write to temp file first, then rename (atomic write)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Load returns the current preferences.
func (s *JSONStore) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs, nil
}

// Save persists the given preferences.
func (s *JSONStore) Save(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	s.prefs = p
	return s.save()
}

// SetLanguage updates only the language preference.
func (s *JSONStore) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lang == "" {
		lang = DefaultLanguage
	}
	s.prefs.Language = lang
	return s.save()
}

// SetDictation updates only the dictation flag.
func (s *JSONStore) SetDictation(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.Dictation = on
	return s.save()
}

var _ Store = (*JSONStore)(nil)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu    sync.Mutex
	prefs Preferences

	// SaveErr, if set, is returned by every write operation.
	SaveErr error
}

// NewMemoryStore creates a store with default preferences.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: Preferences{Language: DefaultLanguage}}
}

func (s *MemoryStore) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs, nil
}

func (s *MemoryStore) Save(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	s.prefs = p
	return nil
}

func (s *MemoryStore) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	s.prefs.Language = lang
	return nil
}

func (s *MemoryStore) SetDictation(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.prefs.Dictation = on
	return nil
}

var _ Store = (*MemoryStore)(nil)
