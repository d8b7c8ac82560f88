package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/types"
)

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingDialogue
	pendingChoice
	pendingImage
	pendingBattle
)

// Host implements the Presenter, World and Battle interfaces for the TUI.
// Runner calls land here (appending transcript lines, recording what input
// is awaited) and the Bubble Tea model drains the state after every runner
// interaction.
type Host struct {
	Inventory *host.MemoryInventory
	NPCs      *host.NPCRegistry
	Player    *host.Player

	mu       sync.Mutex
	lines    []transcriptLine
	pending  pendingKind
	options  int
	duration time.Duration
	battleCb func(host.Outcome)
}

// NewHost creates a TUI host for the given player record.
func NewHost(player *host.Player) *Host {
	return &Host{
		Inventory: host.NewMemoryInventory(),
		NPCs:      host.NewNPCRegistry(),
		Player:    player,
	}
}

func (h *Host) append(kind lineKind, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, transcriptLine{kind: kind, text: text})
}

// drain returns and clears buffered transcript lines plus the awaited
// input, if any.
func (h *Host) drain() ([]transcriptLine, pendingKind, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lines := h.lines
	h.lines = nil
	return lines, h.pending, h.options, h.duration
}

func (h *Host) setPending(kind pendingKind, options int, duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = kind
	h.options = options
	h.duration = duration
}

// takeBattle returns and clears the stored battle completion callback.
func (h *Host) takeBattle() func(host.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cb := h.battleCb
	h.battleCb = nil
	if cb != nil {
		h.pending = pendingNone
	}
	return cb
}

// --- host.Presenter ---

func (h *Host) ShowDialogue(speaker, text string) {
	line := text
	if speaker != "" {
		line = speaker + ": " + text
	}
	h.append(kindDialogue, line)
	h.setPending(pendingDialogue, 0, 0)
}

func (h *Host) ShowChoice(question string, options []string) {
	h.append(kindQuestion, question)
	for i, opt := range options {
		h.append(kindOption, fmt.Sprintf("  %d. %s", i+1, opt))
	}
	h.setPending(pendingChoice, len(options), 0)
}

func (h *Host) ShowImage(path string, duration time.Duration) {
	h.append(kindSystem, fmt.Sprintf("image: %s (%.1fs)", path, duration.Seconds()))
	h.setPending(pendingImage, 0, duration)
}

// --- host.World ---

func (h *Host) PlayMusic(trackPath string) { h.append(kindSystem, "♪ "+trackPath) }
func (h *Host) StopMusic()                 { h.append(kindSystem, "♪ stopped") }

func (h *Host) SpawnNPC(spec host.NPCSpec) string {
	id := h.NPCs.Spawn(spec)
	name := spec.Name
	if name == "" {
		name = spec.NPCID
	}
	h.append(kindNarration, fmt.Sprintf("%s %s appears.", spec.Emoji, name))
	return id
}

func (h *Host) RemoveNPC(id string) {
	if spec, ok := h.NPCs.Get(id); ok {
		name := spec.Name
		if name == "" {
			name = id
		}
		h.append(kindNarration, name+" leaves.")
	}
	h.NPCs.Remove(id)
}

func (h *Host) ShowStatus(message, statusType string) {
	kind := kindSystem
	if statusType == "warning" || statusType == "error" {
		kind = kindWarning
	}
	h.append(kind, message)
}

func (h *Host) Teleport(x, y, z float64) {
	h.append(kindSystem, fmt.Sprintf("teleported to %.0f, %.0f, %.0f", x, y, z))
}

func (h *Host) SetTime(hour int) {
	h.append(kindSystem, fmt.Sprintf("time set to %02d:00", hour))
}

func (h *Host) SetWeather(weather string) { h.append(kindSystem, "weather: "+weather) }

// --- host.Battle ---

func (h *Host) StartBattle(opponent types.Opponent, onComplete func(host.Outcome)) {
	name := opponent.Name
	if name == "" {
		name = opponent.Character
	}
	h.append(kindWarning, fmt.Sprintf("%s %s attacks! (HP %d, ATK %d)",
		opponent.Character, name, opponent.Health, opponent.Attack))
	h.append(kindSystem, "w to win, l to lose")

	h.mu.Lock()
	h.battleCb = onComplete
	h.pending = pendingBattle
	h.mu.Unlock()
}
