package flags

import (
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	if _, ok, _ := m.Get("metKing"); ok {
		t.Error("unset flag reported as set")
	}

	if err := m.Set("metKing", true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := m.Get("metKing")
	if err != nil || !ok || v != true {
		t.Errorf("Get = %v, %v, %v; want true, true, nil", v, ok, err)
	}

	// Overwrite with a different value type.
	if err := m.Set("metKing", "twice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _, _ = m.Get("metKing")
	if v != "twice" {
		t.Errorf("overwritten value = %v, want twice", v)
	}
}

func TestFileStoreSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Set("metKing", true); err != nil {
		t.Fatalf("Set bool: %v", err)
	}
	if err := f.Set("goldPaid", 50); err != nil {
		t.Fatalf("Set number: %v", err)
	}
	if err := f.Set("lastTown", "riverdale"); err != nil {
		t.Fatalf("Set string: %v", err)
	}

	// Simulated restart: a fresh store reading the same file.
	reloaded, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	if v, ok, _ := reloaded.Get("metKing"); !ok || v != true {
		t.Errorf("metKing = %v, %v; want true", v, ok)
	}
	// Numbers come back as float64 from JSON.
	if v, ok, _ := reloaded.Get("goldPaid"); !ok || v != float64(50) {
		t.Errorf("goldPaid = %v (%T), want 50", v, v)
	}
	if v, ok, _ := reloaded.Get("lastTown"); !ok || v != "riverdale" {
		t.Errorf("lastTown = %v, want riverdale", v)
	}
	if _, ok, _ := reloaded.Get("never"); ok {
		t.Error("unset flag reported as set after reload")
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "nope", "flags.json"))
	if err != nil {
		t.Fatalf("NewFile on missing path: %v", err)
	}
	if _, ok, _ := f.Get("anything"); ok {
		t.Error("missing file should behave as an empty store")
	}
	// First Set creates the directory and file.
	if err := f.Set("a", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
}
