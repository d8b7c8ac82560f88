package host

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nathoo/questscript/types"
)

// MemoryInventory is an in-process Inventory for hosts without their own
// item storage, and for tests.
type MemoryInventory struct {
	mu    sync.Mutex
	items map[string]int
}

// NewMemoryInventory creates an empty inventory.
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{items: map[string]int{}}
}

func (m *MemoryInventory) Give(itemID string, amount int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[itemID] += amount
	return true
}

func (m *MemoryInventory) Take(itemID string, amount int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[itemID] < amount {
		return false
	}
	m.items[itemID] -= amount
	if m.items[itemID] == 0 {
		delete(m.items, itemID)
	}
	return true
}

func (m *MemoryInventory) Has(itemID string, amount int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[itemID] >= amount
}

// Count returns the held quantity of an item.
func (m *MemoryInventory) Count(itemID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[itemID]
}

// NPCRegistry tracks spawned NPC instances for World implementations. The
// npcId from the script doubles as the instance id when free; concurrent
// duplicates fall back to a generated handle.
type NPCRegistry struct {
	mu   sync.Mutex
	npcs map[string]NPCSpec
}

// NewNPCRegistry creates an empty registry.
func NewNPCRegistry() *NPCRegistry {
	return &NPCRegistry{npcs: map[string]NPCSpec{}}
}

// Spawn registers an NPC and returns its instance id.
func (r *NPCRegistry) Spawn(spec NPCSpec) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := spec.NPCID
	if id == "" {
		id = uuid.NewString()
	} else if _, taken := r.npcs[id]; taken {
		id = spec.NPCID + "-" + uuid.NewString()
	}
	r.npcs[id] = spec
	return id
}

// Remove deregisters an NPC instance. Unknown ids are ignored.
func (r *NPCRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.npcs, id)
}

// Get returns the spec for an instance id.
func (r *NPCRegistry) Get(id string) (NPCSpec, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	spec, ok := r.npcs[id]
	return spec, ok
}

// Len returns the number of live instances.
func (r *NPCRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.npcs)
}

// Player is a PlayerState backed by a simple identity record. The display
// name is derived from the companion identifier: "elf_male" -> "Elf".
type Player struct {
	Companion string `json:"companion"`
	Race      string `json:"race"`
}

// LoadPlayer reads a player record from a JSON file.
func LoadPlayer(path string) (*Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading player record %s: %w", path, err)
	}
	var p Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing player record %s: %w", path, err)
	}
	return &p, nil
}

func (p *Player) Snapshot() types.PlayerSnapshot {
	return types.PlayerSnapshot{
		Companion:     p.Companion,
		CompanionName: DisplayName(p.Companion),
		Race:          p.Race,
	}
}

// DisplayName derives a human-readable name from an identifier by taking
// the part before the first underscore and capitalizing it.
func DisplayName(id string) string {
	if id == "" {
		return ""
	}
	name, _, _ := strings.Cut(id, "_")
	return strings.ToUpper(name[:1]) + name[1:]
}
