// Package engine executes quest scripts node by node. The Runner owns the
// active graph, the execution phase, the choice-tracking ledger and the set
// of NPCs spawned by the running script; the executor walks the graph,
// performing each node's effect through the host interfaces and suspending
// at player-input and external-subsystem boundaries.
//
// Execution is cooperative and single-threaded: the runner processes nodes
// synchronously until a suspension point, then returns control to the host,
// which resumes it with an explicit Advance or Choose call. Host interface
// implementations must not call back into the Runner from inside Show*,
// World or completion-callback invocations; battle completions are the one
// sanctioned callback and are safe to deliver from any goroutine.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/nathoo/questscript/flags"
	"github.com/nathoo/questscript/graph"
	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/types"
)

// Phase is the runner's execution phase. AwaitingInput and AwaitingExternal
// are the two suspended phases.
type Phase int

const (
	PhaseStopped Phase = iota
	PhaseRunning
	PhaseAwaitingInput    // waiting on the player (dialogue, choice, image)
	PhaseAwaitingExternal // waiting on the battle subsystem
	PhasePaused           // terminal trigger path; side effects left in place
)

func (p Phase) String() string {
	switch p {
	case PhaseStopped:
		return "stopped"
	case PhaseRunning:
		return "running"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseAwaitingExternal:
		return "awaiting_external"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Suspended reports whether the phase is one of the two waiting states.
func (p Phase) Suspended() bool {
	return p == PhaseAwaitingInput || p == PhaseAwaitingExternal
}

// ScriptLoader resolves a script id to parsed node/connection data. The
// runner compiles the result itself; loaders cache nothing across calls.
type ScriptLoader interface {
	Load(id string) (*types.Script, error)
}

// CompletionFunc receives the final choice ledger when a script reaches an
// end node or hands off through a link. Returning from the call signals
// that any durable write it triggered has completed; the link controller
// relies on this instead of a settling delay.
type CompletionFunc func(ledger []types.ChoiceRecord) error

// Config wires a Runner to its collaborators. Loader, Flags, Presenter,
// Inventory, World, Battle and Player are required.
type Config struct {
	Loader     ScriptLoader
	Flags      flags.Store
	Presenter  host.Presenter
	Inventory  host.Inventory
	World      host.World
	Battle     host.Battle
	Player     host.PlayerState
	OnComplete CompletionFunc // optional
	Logger     *slog.Logger   // optional, defaults to slog.Default()
}

// Runner orchestrates one script execution at a time.
type Runner struct {
	mu sync.Mutex

	loader    ScriptLoader
	flags     flags.Store
	presenter host.Presenter
	inventory host.Inventory
	world     host.World
	battle    host.Battle
	player    host.PlayerState
	logger    *slog.Logger

	completion CompletionFunc // registered callback, re-armed on every Start

	phase      Phase
	graph      *graph.Graph
	current    *types.Node
	ledger     []types.ChoiceRecord
	activeNPCs map[string]struct{}
	onComplete CompletionFunc
	gen        int // stamps outstanding battle callbacks; bumped on start/stop
}

// New creates a stopped Runner.
func New(cfg Config) (*Runner, error) {
	switch {
	case cfg.Loader == nil:
		return nil, fmt.Errorf("engine: Loader is required")
	case cfg.Flags == nil:
		return nil, fmt.Errorf("engine: Flags is required")
	case cfg.Presenter == nil:
		return nil, fmt.Errorf("engine: Presenter is required")
	case cfg.Inventory == nil:
		return nil, fmt.Errorf("engine: Inventory is required")
	case cfg.World == nil:
		return nil, fmt.Errorf("engine: World is required")
	case cfg.Battle == nil:
		return nil, fmt.Errorf("engine: Battle is required")
	case cfg.Player == nil:
		return nil, fmt.Errorf("engine: Player is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		loader:     cfg.Loader,
		flags:      cfg.Flags,
		presenter:  cfg.Presenter,
		inventory:  cfg.Inventory,
		world:      cfg.World,
		battle:     cfg.Battle,
		player:     cfg.Player,
		logger:     logger,
		completion: cfg.OnComplete,
		phase:      PhaseStopped,
		activeNPCs: map[string]struct{}{},
	}, nil
}

// Start loads the script, resolves its entry node and executes until the
// first suspension point or termination. A runner that is already active
// must be stopped first.
func (r *Runner) Start(scriptID string) error {
	r.mu.Lock()
	if r.phase != PhaseStopped && r.phase != PhasePaused {
		r.mu.Unlock()
		return fmt.Errorf("engine: script %q already active (phase %s)", r.graph.ScriptID(), r.phase)
	}

	script, err := r.loader.Load(scriptID)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("loading script %q: %w", scriptID, err)
	}
	g, err := graph.Compile(script)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	r.gen++
	r.graph = g
	r.current = g.Entry()
	r.ledger = nil
	r.activeNPCs = map[string]struct{}{}
	r.onComplete = r.completion
	r.phase = PhaseRunning

	return r.finish(r.runLocked())
}

// Advance resumes a dialogue or image suspension: the player pressed
// continue, or the image duration elapsed.
func (r *Runner) Advance() error {
	r.mu.Lock()
	if r.phase != PhaseAwaitingInput {
		r.mu.Unlock()
		return fmt.Errorf("engine: not awaiting input (phase %s)", r.phase)
	}
	if r.current.Kind() == types.KindChoice {
		r.mu.Unlock()
		return fmt.Errorf("engine: choice node %q awaits a selection", r.current.ID)
	}
	node := r.current
	r.phase = PhaseRunning
	r.advanceFrom(node, 0)
	return r.finish(r.runLocked())
}

// Choose resumes a choice suspension with the selected option index.
// Out-of-range indices are a graph integrity failure.
func (r *Runner) Choose(index int) error {
	r.mu.Lock()
	if r.phase != PhaseAwaitingInput || r.current.Kind() != types.KindChoice {
		r.mu.Unlock()
		return fmt.Errorf("engine: no choice pending (phase %s)", r.phase)
	}
	node := r.current
	c := node.Data.(types.Choice)
	if index < 0 || index >= len(c.Options) {
		r.mu.Unlock()
		return &graph.GraphIntegrityError{
			ScriptID: r.graph.ScriptID(),
			Reason:   fmt.Sprintf("choice node %q: selection %d out of range (%d options)", node.ID, index, len(c.Options)),
		}
	}

	r.ledger = append(r.ledger, types.ChoiceRecord{
		NodeID:   node.ID,
		Question: c.Question,
		Selected: index,
	})
	r.phase = PhaseRunning
	r.advanceFrom(node, index)
	return r.finish(r.runLocked())
}

// Stop terminates the run: every spawned NPC is removed, outstanding battle
// callbacks are invalidated, and all run state is reset. Safe to call in
// any phase.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseStopped {
		return
	}
	r.stopLocked()
}

// Phase returns the current execution phase.
func (r *Runner) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// CurrentNode returns the id of the node execution is positioned at, or ""
// when no node is active.
func (r *Runner) CurrentNode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.ID
}

// ScriptID returns the id of the active script, or "".
func (r *Runner) ScriptID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.graph == nil {
		return ""
	}
	return r.graph.ScriptID()
}

// Ledger returns a copy of the ordered choice-tracking ledger.
func (r *Runner) Ledger() []types.ChoiceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.ChoiceRecord(nil), r.ledger...)
}

// ActiveNPCs returns the sorted ids of NPCs the running script spawned and
// still owns.
func (r *Runner) ActiveNPCs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.activeNPCs))
	for id := range r.activeNPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// stopLocked performs full cleanup. Pausing, by contrast, leaves NPCs and
// run state in place.
func (r *Runner) stopLocked() {
	r.gen++ // pending battle completions become stale
	for id := range r.activeNPCs {
		r.world.RemoveNPC(id)
	}
	r.activeNPCs = map[string]struct{}{}
	r.graph = nil
	r.current = nil
	r.ledger = nil
	r.onComplete = nil
	r.phase = PhaseStopped
}

// finish releases the lock and runs the deferred host call produced by the
// executor, then reports the executor's error. Must be called with the
// lock held.
func (r *Runner) finish(after func(), err error) error {
	r.mu.Unlock()
	if after != nil {
		after()
	}
	return err
}
