// Package cli provides a plain-terminal host for the QuestScript runner:
// dialogue and choices on stdout, player responses from stdin, and simple
// printed renditions of the world effects a script can trigger.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nathoo/questscript/engine"
	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/types"
)

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingDialogue
	pendingChoice
	pendingImage
)

type pending struct {
	kind     pendingKind
	options  int
	duration time.Duration
}

// CLI implements the Presenter, World and Battle host interfaces over a
// terminal, backed by an in-memory inventory and NPC registry.
type CLI struct {
	In  io.Reader
	Out io.Writer

	Inventory *host.MemoryInventory
	NPCs      *host.NPCRegistry
	Player    *host.Player

	runner  *engine.Runner
	scanner *bufio.Scanner
	pending pending
	logger  *slog.Logger
}

// New creates a CLI host for the given player record.
func New(player *host.Player, in io.Reader, out io.Writer, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{
		In:        in,
		Out:       out,
		Inventory: host.NewMemoryInventory(),
		NPCs:      host.NewNPCRegistry(),
		Player:    player,
		logger:    logger,
	}
}

// Bind attaches the runner the CLI drives. Called once, after the runner
// has been constructed with this CLI as its host.
func (c *CLI) Bind(r *engine.Runner) { c.runner = r }

// Run starts the script and loops: wait for a suspension, collect the
// player's response, resume. Returns when the script stops or pauses.
func (c *CLI) Run(scriptID string) error {
	c.scanner = bufio.NewScanner(c.In)

	if err := c.runner.Start(scriptID); err != nil {
		return err
	}

	for {
		switch c.runner.Phase() {
		case engine.PhaseStopped:
			c.printLine("[script ended]")
			return nil
		case engine.PhasePaused:
			c.printLine("[script paused — world effects remain active]")
			return nil
		case engine.PhaseAwaitingInput:
			if done, err := c.respond(); err != nil || done {
				return err
			}
		default:
			// Battles resolve synchronously inside StartBattle; any other
			// phase observed here means the input stream ended mid-battle.
			return fmt.Errorf("cli: unexpected phase %s", c.runner.Phase())
		}
	}
}

// respond handles one player-input suspension. Returns done=true when the
// input stream is exhausted.
func (c *CLI) respond() (done bool, err error) {
	switch c.pending.kind {
	case pendingDialogue:
		c.print("(Enter to continue) ")
		if !c.scanner.Scan() {
			c.runner.Stop()
			return true, nil
		}
		return false, c.runner.Advance()

	case pendingChoice:
		for {
			c.print(fmt.Sprintf("choose 1-%d> ", c.pending.options))
			if !c.scanner.Scan() {
				c.runner.Stop()
				return true, nil
			}
			n, convErr := strconv.Atoi(strings.TrimSpace(c.scanner.Text()))
			if convErr != nil || n < 1 || n > c.pending.options {
				c.printLine("Pick one of the listed numbers.")
				continue
			}
			return false, c.runner.Choose(n - 1)
		}

	case pendingImage:
		// The host owns the image timer.
		time.Sleep(c.pending.duration)
		return false, c.runner.Advance()

	default:
		return false, fmt.Errorf("cli: awaiting input with nothing presented")
	}
}

// --- host.Presenter ---

func (c *CLI) ShowDialogue(speaker, text string) {
	if speaker != "" {
		c.printLine(speaker + ": " + text)
	} else {
		c.printLine(text)
	}
	c.pending = pending{kind: pendingDialogue}
}

func (c *CLI) ShowChoice(question string, options []string) {
	c.printLine(question)
	for i, opt := range options {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, opt))
	}
	c.pending = pending{kind: pendingChoice, options: len(options)}
}

func (c *CLI) ShowImage(path string, duration time.Duration) {
	c.printLine(fmt.Sprintf("[image: %s (%.1fs)]", path, duration.Seconds()))
	c.pending = pending{kind: pendingImage, duration: duration}
}

// --- host.World ---

func (c *CLI) PlayMusic(trackPath string) { c.printLine("[♪ " + trackPath + "]") }
func (c *CLI) StopMusic()                 { c.printLine("[♪ stopped]") }

func (c *CLI) SpawnNPC(spec host.NPCSpec) string {
	id := c.NPCs.Spawn(spec)
	name := spec.Name
	if name == "" {
		name = spec.NPCID
	}
	c.printLine(fmt.Sprintf("%s %s appears.", spec.Emoji, name))
	return id
}

func (c *CLI) RemoveNPC(id string) {
	if spec, ok := c.NPCs.Get(id); ok {
		name := spec.Name
		if name == "" {
			name = id
		}
		c.printLine(name + " leaves.")
	}
	c.NPCs.Remove(id)
}

func (c *CLI) ShowStatus(message, statusType string) {
	c.printLine("[" + statusType + "] " + message)
}

func (c *CLI) Teleport(x, y, z float64) {
	c.printLine(fmt.Sprintf("[teleported to %.0f, %.0f, %.0f]", x, y, z))
}

func (c *CLI) SetTime(hour int) { c.printLine(fmt.Sprintf("[time set to %02d:00]", hour)) }

func (c *CLI) SetWeather(weather string) { c.printLine("[weather: " + weather + "]") }

// --- host.Battle ---

// StartBattle runs a demo battle resolved by the player: w wins, anything
// else loses. A real host would hand off to its combat subsystem here.
func (c *CLI) StartBattle(opponent types.Opponent, onComplete func(host.Outcome)) {
	name := opponent.Name
	if name == "" {
		name = opponent.Character
	}
	c.printLine(fmt.Sprintf("%s %s attacks! (HP %d, ATK %d)",
		opponent.Character, name, opponent.Health, opponent.Attack))
	c.print("(w to win, anything else to lose) ")

	if c.scanner != nil && c.scanner.Scan() && strings.TrimSpace(c.scanner.Text()) == "w" {
		c.printLine("You are victorious!")
		onComplete(host.Victory)
		return
	}
	c.printLine("You are defeated.")
	onComplete(host.Defeat)
}

func (c *CLI) print(s string)     { fmt.Fprint(c.Out, s) }
func (c *CLI) printLine(s string) { fmt.Fprintln(c.Out, s) }
