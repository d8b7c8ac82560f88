package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathoo/questscript/graph"
	"github.com/nathoo/questscript/types"
)

const introJSON = `{
  "nodes": [
    {"id": "greet", "type": "dialogue", "data": {"speaker": "King", "text": "Welcome, {{companion_name}}."}},
    {"id": "ask", "type": "choice", "data": {"question": "Will you help?", "options": ["Yes", "No"]}},
    {"id": "reward", "type": "item", "data": {"action": "give", "itemId": "sword"}},
    {"id": "spawn", "type": "trigger", "data": {"event": "spawnNPC", "params": {"npcId": "goblin", "x": 1.5}}},
    {"id": "check", "type": "condition", "data": {"check": "hasFlag", "target": "metKing", "value": true}},
    {"id": "fight", "type": "combat", "data": {"opponent": {"character": "👺", "name": "Goblin", "health": 20, "attack": 3}}},
    {"id": "banner", "type": "image", "data": {"path": "crest.png", "duration": 1500}},
    {"id": "next", "type": "link_script", "data": {"target": "village", "useTemplates": true}},
    {"id": "fin", "type": "end"}
  ],
  "connections": [
    {"fromNodeId": "greet", "outputIndex": 0, "toNodeId": "ask"},
    {"fromNodeId": "ask", "outputIndex": 0, "toNodeId": "reward"},
    {"fromNodeId": "ask", "outputIndex": 1, "toNodeId": "fin"},
    {"fromNodeId": "reward", "outputIndex": 0, "toNodeId": "spawn"},
    {"fromNodeId": "spawn", "outputIndex": 0, "toNodeId": "check"},
    {"fromNodeId": "check", "outputIndex": 0, "toNodeId": "banner"},
    {"fromNodeId": "check", "outputIndex": 1, "toNodeId": "fight"},
    {"fromNodeId": "fight", "outputIndex": 0, "toNodeId": "banner"},
    {"fromNodeId": "fight", "outputIndex": 1, "toNodeId": "fin"},
    {"fromNodeId": "banner", "outputIndex": 0, "toNodeId": "next"}
  ]
}`

func TestParseJSONFullNodeSet(t *testing.T) {
	script, err := ParseJSON("intro", []byte(introJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if script.ID != "intro" {
		t.Errorf("id = %q, want intro", script.ID)
	}
	if len(script.Nodes) != 9 || len(script.Connections) != 10 {
		t.Fatalf("parsed %d nodes, %d connections; want 9, 10", len(script.Nodes), len(script.Connections))
	}

	d := script.Nodes[0].Data.(types.Dialogue)
	if d.Speaker != "King" || d.Text != "Welcome, {{companion_name}}." {
		t.Errorf("dialogue = %+v", d)
	}
	c := script.Nodes[1].Data.(types.Choice)
	if len(c.Options) != 2 {
		t.Errorf("choice options = %v", c.Options)
	}
	item := script.Nodes[2].Data.(types.Item)
	if item.Action != types.ItemGive || item.Amount != 1 {
		t.Errorf("item amount should default to 1: %+v", item)
	}
	trig := script.Nodes[3].Data.(types.Trigger)
	if trig.Event != "spawnNPC" || trig.Params["npcId"] != "goblin" {
		t.Errorf("trigger = %+v", trig)
	}
	cond := script.Nodes[4].Data.(types.Condition)
	if cond.Check != types.CheckHasFlag || cond.Target != "metKing" || cond.Expect != true {
		t.Errorf("condition = %+v", cond)
	}
	fight := script.Nodes[5].Data.(types.Combat)
	if fight.Opponent.Name != "Goblin" || fight.Opponent.Health != 20 {
		t.Errorf("combat = %+v", fight)
	}
	img := script.Nodes[6].Data.(types.Image)
	if img.DurationMs != 1500 {
		t.Errorf("image duration = %d", img.DurationMs)
	}
	link := script.Nodes[7].Data.(types.LinkScript)
	if link.Target != "village" || !link.UseTemplates {
		t.Errorf("link = %+v", link)
	}
	if script.Nodes[8].Kind() != types.KindEnd {
		t.Errorf("last node kind = %v", script.Nodes[8].Kind())
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed json",
			body: `{"nodes": [`,
		},
		{
			name: "unknown node type",
			body: `{"nodes": [{"id": "a", "type": "teleporter", "data": {}}]}`,
		},
		{
			name: "choice without options",
			body: `{"nodes": [{"id": "a", "type": "choice", "data": {"question": "?"}}]}`,
		},
		{
			name: "item with bad action",
			body: `{"nodes": [{"id": "a", "type": "item", "data": {"action": "steal", "itemId": "x"}}]}`,
		},
		{
			name: "condition with unknown check",
			body: `{"nodes": [{"id": "a", "type": "condition", "data": {"check": "hasGold", "target": "x"}}]}`,
		},
		{
			name: "link without target",
			body: `{"nodes": [{"id": "a", "type": "link_script", "data": {}}]}`,
		},
		{
			name: "output index beyond options",
			body: `{
				"nodes": [
					{"id": "a", "type": "choice", "data": {"question": "?", "options": ["only"]}},
					{"id": "b", "type": "end"}
				],
				"connections": [{"fromNodeId": "a", "outputIndex": 1, "toNodeId": "b"}]
			}`,
		},
		{
			name: "end node with outgoing connection",
			body: `{
				"nodes": [
					{"id": "a", "type": "end"},
					{"id": "b", "type": "dialogue", "data": {"text": "hi"}}
				],
				"connections": [{"fromNodeId": "a", "outputIndex": 0, "toNodeId": "b"}]
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON("bad", []byte(tt.body)); err == nil {
				t.Error("ParseJSON accepted invalid script")
			}
		})
	}
}

func TestValidateReportsGraphIntegrity(t *testing.T) {
	body := `{
		"nodes": [
			{"id": "a", "type": "condition", "data": {"check": "hasFlag", "target": "f"}},
			{"id": "b", "type": "end"}
		],
		"connections": [{"fromNodeId": "a", "outputIndex": 2, "toNodeId": "b"}]
	}`
	_, err := ParseJSON("bad", []byte(body))
	var ge *graph.GraphIntegrityError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want GraphIntegrityError", err)
	}
}

func TestDirResolvesJSONAndLua(t *testing.T) {
	dir := t.TempDir()

	jsonScript := `{"nodes": [{"id": "only", "type": "dialogue", "data": {"text": "hi"}}]}`
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(jsonScript), 0o644); err != nil {
		t.Fatal(err)
	}
	luaScript := `Dialogue "only" { text = "hello" }` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "b.lua"), []byte(luaScript), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDir(dir)

	a, err := d.Load("a")
	if err != nil {
		t.Fatalf("Load(a): %v", err)
	}
	if len(a.Nodes) != 1 || a.Nodes[0].Kind() != types.KindDialogue {
		t.Errorf("a = %+v", a)
	}

	b, err := d.Load("b")
	if err != nil {
		t.Fatalf("Load(b): %v", err)
	}
	if b.Nodes[0].Data.(types.Dialogue).Text != "hello" {
		t.Errorf("b = %+v", b)
	}

	if _, err := d.Load("missing"); err == nil {
		t.Error("Load(missing) should fail")
	}
}
