package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemoryInventory(t *testing.T) {
	inv := NewMemoryInventory()

	inv.Give("potion", 2)
	if !inv.Has("potion", 2) {
		t.Error("Has(potion, 2) = false after giving 2")
	}
	if inv.Has("potion", 3) {
		t.Error("Has(potion, 3) = true with only 2 held")
	}

	if inv.Take("potion", 3) {
		t.Error("Take beyond held quantity should fail")
	}
	if inv.Count("potion") != 2 {
		t.Errorf("failed take mutated count: %d", inv.Count("potion"))
	}

	if !inv.Take("potion", 2) {
		t.Error("Take of exact quantity should succeed")
	}
	if inv.Has("potion", 1) {
		t.Error("item still held after taking all of it")
	}

	if inv.Take("ghost", 1) {
		t.Error("Take of unknown item should fail")
	}
}

func TestNPCRegistrySpawn(t *testing.T) {
	reg := NewNPCRegistry()

	id := reg.Spawn(NPCSpec{NPCID: "goblin", Name: "Grik"})
	if id != "goblin" {
		t.Errorf("first spawn id = %q, want goblin", id)
	}

	// A second goblin gets a distinct generated handle.
	id2 := reg.Spawn(NPCSpec{NPCID: "goblin", Name: "Snag"})
	if id2 == "goblin" || !strings.HasPrefix(id2, "goblin-") {
		t.Errorf("duplicate spawn id = %q", id2)
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}

	if spec, ok := reg.Get(id2); !ok || spec.Name != "Snag" {
		t.Errorf("Get(%q) = %+v, %v", id2, spec, ok)
	}

	// Nameless specs still get an instance id.
	anon := reg.Spawn(NPCSpec{})
	if anon == "" {
		t.Error("anonymous spawn returned empty id")
	}

	reg.Remove(id)
	reg.Remove("unknown") // ignored
	if reg.Len() != 2 {
		t.Errorf("Len after remove = %d, want 2", reg.Len())
	}
	if _, ok := reg.Get("goblin"); ok {
		t.Error("removed instance still present")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"elf_male", "Elf"},
		{"dwarf_female", "Dwarf"},
		{"orc", "Orc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.id); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestLoadPlayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.json")
	if err := os.WriteFile(path, []byte(`{"companion": "elf_male", "race": "human"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPlayer(path)
	if err != nil {
		t.Fatalf("LoadPlayer: %v", err)
	}
	snap := p.Snapshot()
	if snap.Companion != "elf_male" || snap.CompanionName != "Elf" || snap.Race != "human" {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, err := LoadPlayer(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadPlayer of missing file should fail")
	}
}
