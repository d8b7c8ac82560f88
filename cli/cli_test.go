package cli

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/questscript/engine"
	"github.com/nathoo/questscript/flags"
	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/types"
)

type staticLoader map[string]*types.Script

func (l staticLoader) Load(id string) (*types.Script, error) {
	s, ok := l[id]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return s, nil
}

func runSession(t *testing.T, script *types.Script, input string) (string, *CLI) {
	t.Helper()

	var out strings.Builder
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(&host.Player{Companion: "elf_male", Race: "human"}, strings.NewReader(input), &out, logger)

	r, err := engine.New(engine.Config{
		Loader:    staticLoader{script.ID: script},
		Flags:     flags.NewMemory(),
		Presenter: c,
		Inventory: c.Inventory,
		World:     c,
		Battle:    c,
		Player:    c.Player,
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	c.Bind(r)

	if err := c.Run(script.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), c
}

func TestRunDialogueAndChoice(t *testing.T) {
	script := &types.Script{
		ID: "greeting",
		Nodes: []types.Node{
			{ID: "hi", Data: types.Dialogue{Speaker: "Guard", Text: "Halt."}},
			{ID: "ask", Data: types.Choice{Question: "State your business.", Options: []string{"Trading", "Passing through"}}},
			{ID: "trade", Data: types.Dialogue{Text: "The market is left."}},
			{ID: "pass", Data: types.Dialogue{Text: "Move along."}},
		},
		Connections: []types.Connection{
			{From: "hi", Output: 0, To: "ask"},
			{From: "ask", Output: 0, To: "trade"},
			{From: "ask", Output: 1, To: "pass"},
		},
	}

	// Enter past the dialogue, one invalid pick, then option 2, then Enter.
	out, _ := runSession(t, script, "\nx\n2\n\n")

	for _, want := range []string{
		"Guard: Halt.",
		"State your business.",
		"  1. Trading",
		"  2. Passing through",
		"Pick one of the listed numbers.",
		"Move along.",
		"[script ended]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "The market is left.") {
		t.Errorf("wrong branch taken:\n%s", out)
	}
}

func TestRunBattle(t *testing.T) {
	script := &types.Script{
		ID: "duel",
		Nodes: []types.Node{
			{ID: "fight", Data: types.Combat{Opponent: types.Opponent{Character: "👺", Name: "Goblin", Health: 20, Attack: 3}}},
			{ID: "won", Data: types.Dialogue{Text: "The goblin flees."}},
			{ID: "lost", Data: types.Dialogue{Text: "You wake up robbed."}},
		},
		Connections: []types.Connection{
			{From: "fight", Output: 0, To: "won"},
			{From: "fight", Output: 1, To: "lost"},
		},
	}

	out, _ := runSession(t, script, "w\n\n")
	if !strings.Contains(out, "You are victorious!") || !strings.Contains(out, "The goblin flees.") {
		t.Errorf("victory path missing:\n%s", out)
	}

	out, _ = runSession(t, script, "run\n\n")
	if !strings.Contains(out, "You are defeated.") || !strings.Contains(out, "You wake up robbed.") {
		t.Errorf("defeat path missing:\n%s", out)
	}
}

func TestRunPausesOnTerminalTrigger(t *testing.T) {
	script := &types.Script{
		ID: "ambush",
		Nodes: []types.Node{
			{ID: "spawn", Data: types.Trigger{Event: "spawnNPC", Params: map[string]any{"npcId": "goblin", "emoji": "👺", "name": "Grik"}}},
		},
	}

	out, c := runSession(t, script, "")
	if !strings.Contains(out, "👺 Grik appears.") {
		t.Errorf("spawn line missing:\n%s", out)
	}
	if !strings.Contains(out, "[script paused") {
		t.Errorf("pause line missing:\n%s", out)
	}
	if c.NPCs.Len() != 1 {
		t.Errorf("NPC count = %d, want 1", c.NPCs.Len())
	}
}

func TestRunStopsOnExhaustedInput(t *testing.T) {
	script := &types.Script{
		ID: "chat",
		Nodes: []types.Node{
			{ID: "a", Data: types.Dialogue{Text: "First."}},
			{ID: "b", Data: types.Dialogue{Text: "Second."}},
		},
		Connections: []types.Connection{{From: "a", Output: 0, To: "b"}},
	}

	out, _ := runSession(t, script, "")
	if !strings.Contains(out, "First.") {
		t.Errorf("dialogue missing:\n%s", out)
	}
	if strings.Contains(out, "Second.") {
		t.Errorf("runner advanced without input:\n%s", out)
	}
}
