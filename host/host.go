// Package host declares the outward interfaces the interpreter drives the
// game through. The interpreter never implements presentation, inventory
// storage, world simulation or combat resolution; it only calls these
// contracts. The cli and tui packages carry reference implementations.
package host

import (
	"time"

	"github.com/nathoo/questscript/types"
)

// Presenter renders dialogue, choices and images. Suspension is implicit:
// after a Show call the runner waits until the host reports the player's
// response through Runner.Advance or Runner.Choose.
type Presenter interface {
	ShowDialogue(speaker, text string)
	ShowChoice(question string, options []string)
	// ShowImage displays an image; the host owns the duration timer and
	// calls Runner.Advance when it elapses.
	ShowImage(path string, duration time.Duration)
}

// Inventory is the host's item storage.
type Inventory interface {
	Give(itemID string, amount int) bool
	// Take removes items; returns false when the quantity is insufficient.
	Take(itemID string, amount int) bool
	// Has reports whether at least amount of the item is held.
	Has(itemID string, amount int) bool
}

// NPCSpec describes an NPC to spawn into the world.
type NPCSpec struct {
	NPCID string
	Emoji string
	Name  string
	X     float64
	Y     float64
	Z     float64
	Scale float64
}

// World receives the trigger side effects a script can fire.
type World interface {
	PlayMusic(trackPath string)
	StopMusic()
	// SpawnNPC places an NPC and returns an instance id; the runner records
	// the id and removes it again on stop.
	SpawnNPC(spec NPCSpec) string
	RemoveNPC(id string)
	ShowStatus(message, statusType string)
	Teleport(x, y, z float64)
	SetTime(hour int)
	SetWeather(weather string)
}

// Outcome is a battle result.
type Outcome int

const (
	Victory Outcome = iota
	Defeat
)

// Battle hands a combat encounter to the host's battle subsystem. The host
// invokes onComplete exactly once when the battle resolves; completions
// arriving after the runner stopped are discarded by the runner.
type Battle interface {
	StartBattle(opponent types.Opponent, onComplete func(Outcome))
}

// PlayerState supplies the identity snapshot template tables are built
// from. Snapshot is called fresh at every substitution point.
type PlayerState interface {
	Snapshot() types.PlayerSnapshot
}
