package template

import (
	"testing"

	"github.com/nathoo/questscript/types"
)

func TestApply(t *testing.T) {
	table := Table{
		"companion":      "elf_male",
		"companion_name": "Elf",
		"player_race":    "human",
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single token",
			text: "Hi {{companion_name}}",
			want: "Hi Elf",
		},
		{
			name: "multiple tokens",
			text: "{{companion_name}} travels with a {{player_race}}.",
			want: "Elf travels with a human.",
		},
		{
			name: "repeated token",
			text: "{{companion}} and {{companion}}",
			want: "elf_male and elf_male",
		},
		{
			name: "unmatched token left verbatim",
			text: "Hello {{stranger}}",
			want: "Hello {{stranger}}",
		},
		{
			name: "no tokens",
			text: "plain text",
			want: "plain text",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.text, table); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	table := Table{"companion_name": "Elf", "player_race": "human"}
	text := "Hi {{companion_name}}, the {{player_race}}! {{unknown}}"

	once := Apply(text, table)
	twice := Apply(once, table)
	if once != twice {
		t.Errorf("second application changed output: %q -> %q", once, twice)
	}
}

func TestFromSnapshot(t *testing.T) {
	table := FromSnapshot(types.PlayerSnapshot{
		Companion:     "elf_male",
		CompanionName: "Elf",
		Race:          "human",
	})

	if table["companion"] != "elf_male" || table["companion_name"] != "Elf" || table["player_race"] != "human" {
		t.Errorf("unexpected table: %v", table)
	}
}

func TestApplyToScript(t *testing.T) {
	table := Table{"companion_name": "Elf", "player_race": "human"}
	script := &types.Script{
		ID: "b",
		Nodes: []types.Node{
			{ID: "d", Data: types.Dialogue{Speaker: "{{companion_name}}", Text: "Hi {{companion_name}}"}},
			{ID: "c", Data: types.Choice{Question: "Trust the {{player_race}}?", Options: []string{"Yes"}}},
			{ID: "f", Data: types.Combat{Opponent: types.Opponent{Character: "{{companion_name}}", Name: "Rival"}}},
			{ID: "t", Data: types.Trigger{Event: "stopMusic"}},
		},
	}

	ApplyToScript(script, table)

	d := script.Nodes[0].Data.(types.Dialogue)
	if d.Speaker != "Elf" || d.Text != "Hi Elf" {
		t.Errorf("dialogue not rewritten: %+v", d)
	}
	c := script.Nodes[1].Data.(types.Choice)
	if c.Question != "Trust the human?" {
		t.Errorf("question not rewritten: %q", c.Question)
	}
	f := script.Nodes[2].Data.(types.Combat)
	if f.Opponent.Character != "Elf" || f.Opponent.Name != "Rival" {
		t.Errorf("combat rewrite wrong: %+v", f.Opponent)
	}
}
