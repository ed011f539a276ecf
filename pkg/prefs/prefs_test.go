package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSONStoreDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Language != DefaultLanguage {
		t.Errorf("language = %q, want %q", p.Language, DefaultLanguage)
	}
	if p.Dictation {
		t.Error("dictation should default to off")
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	if err := store.Save(Preferences{Language: "es-ES", Dictation: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh store over the same file should see the saved values.
	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	p, _ := reopened.Load()
	if p.Language != "es-ES" {
		t.Errorf("language = %q, want es-ES", p.Language)
	}
	if !p.Dictation {
		t.Error("dictation flag lost across reopen")
	}
}

func TestJSONStorePartialUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	if err := store.SetLanguage("es-MX"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if err := store.SetDictation(true); err != nil {
		t.Fatalf("SetDictation: %v", err)
	}

	p, _ := store.Load()
	if p.Language != "es-MX" || !p.Dictation {
		t.Errorf("prefs = %+v", p)
	}

	// SetDictation must not clobber the language.
	if err := store.SetDictation(false); err != nil {
		t.Fatalf("SetDictation: %v", err)
	}
	p, _ = store.Load()
	if p.Language != "es-MX" {
		t.Errorf("language lost on flag update: %q", p.Language)
	}
}

func TestJSONStoreEmptyLanguageFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	if err := store.SetLanguage(""); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	p, _ := store.Load()
	if p.Language != DefaultLanguage {
		t.Errorf("language = %q, want default", p.Language)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SetLanguage("es-ES"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	p, _ := store.Load()
	if p.Language != "es-ES" {
		t.Errorf("language = %q", p.Language)
	}
}
