package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer f.Close()

	if _, ok, err := f.Load(); err != nil || ok {
		t.Fatalf("empty load = ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	blob := []byte(`{"signatures":{}}`)
	if err := f.Save(blob); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := f.Load()
	if err != nil || !ok {
		t.Fatalf("load after save = ok=%v err=%v", ok, err)
	}
	if string(got) != string(blob) {
		t.Fatalf("loaded %q, want %q", got, blob)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileBackendSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := f.Save([]byte("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := f.Save([]byte("second")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, _ := f.Load()
	if string(got) != "second" {
		t.Fatalf("loaded %q, want second", got)
	}
}

func TestMemoryBackend(t *testing.T) {
	m := NewMemory()

	if _, ok, _ := m.Load(); ok {
		t.Fatal("fresh memory backend should be empty")
	}

	if err := m.Save([]byte("blob")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := m.Load()
	if err != nil || !ok || string(got) != "blob" {
		t.Fatalf("Load = %q ok=%v err=%v", got, ok, err)
	}

	// Loaded slice is a copy; mutating it must not corrupt the store.
	got[0] = 'x'
	again, _, _ := m.Load()
	if string(again) != "blob" {
		t.Fatalf("backing blob mutated through loaded copy: %q", again)
	}
}

func TestMemorySeed(t *testing.T) {
	m := NewMemory()
	m.Seed([]byte("persisted"))

	got, ok, err := m.Load()
	if err != nil || !ok || string(got) != "persisted" {
		t.Fatalf("Load = %q ok=%v err=%v", got, ok, err)
	}
}
