package loader

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/questscript/types"
)

// Wire format: { "nodes": [...], "connections": [...] }. Node data fields
// are type-specific; connections are output-indexed edges.

type rawScript struct {
	Nodes       []rawNode       `json:"nodes"`
	Connections []rawConnection `json:"connections"`
}

type rawNode struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type rawConnection struct {
	From   string `json:"fromNodeId"`
	Output int    `json:"outputIndex"`
	To     string `json:"toNodeId"`
}

type dialogueData struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type choiceData struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type imageData struct {
	Path     string `json:"path"`
	Duration int    `json:"duration"` // milliseconds
}

type itemData struct {
	Action string `json:"action"`
	ItemID string `json:"itemId"`
	Amount int    `json:"amount"`
}

type triggerData struct {
	Event  string         `json:"event"`
	Params map[string]any `json:"params"`
}

type conditionData struct {
	Check  string `json:"check"`
	Target string `json:"target"`
	Value  any    `json:"value"`
}

type opponentData struct {
	Character string `json:"character"`
	Name      string `json:"name"`
	Health    int    `json:"health"`
	Attack    int    `json:"attack"`
}

type combatData struct {
	Opponent opponentData `json:"opponent"`
}

type linkData struct {
	Target       string `json:"target"`
	UseTemplates bool   `json:"useTemplates"`
}

// ParseJSON parses and structurally validates a JSON script.
func ParseJSON(id string, data []byte) (*types.Script, error) {
	var raw rawScript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing script %q: %w", id, err)
	}

	script := &types.Script{ID: id}
	for _, rn := range raw.Nodes {
		nodeData, err := decodeNodeData(rn)
		if err != nil {
			return nil, fmt.Errorf("script %q: %w", id, err)
		}
		script.Nodes = append(script.Nodes, types.Node{ID: rn.ID, Data: nodeData})
	}
	for _, rc := range raw.Connections {
		script.Connections = append(script.Connections, types.Connection{
			From:   rc.From,
			Output: rc.Output,
			To:     rc.To,
		})
	}

	if err := validate(script); err != nil {
		return nil, err
	}
	return script, nil
}

func decodeNodeData(rn rawNode) (types.NodeData, error) {
	// End nodes may omit data entirely.
	empty := len(rn.Data) == 0 || string(rn.Data) == "null"

	unmarshal := func(v any) error {
		if empty {
			return nil
		}
		if err := json.Unmarshal(rn.Data, v); err != nil {
			return fmt.Errorf("node %q: %w", rn.ID, err)
		}
		return nil
	}

	switch types.NodeKind(rn.Type) {
	case types.KindDialogue:
		var d dialogueData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.Dialogue{Speaker: d.Speaker, Text: d.Text}, nil

	case types.KindChoice:
		var d choiceData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.Choice{Question: d.Question, Options: d.Options}, nil

	case types.KindImage:
		var d imageData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.Image{Path: d.Path, DurationMs: d.Duration}, nil

	case types.KindItem:
		var d itemData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		if d.Amount == 0 {
			d.Amount = 1
		}
		return types.Item{Action: types.ItemAction(d.Action), ItemID: d.ItemID, Amount: d.Amount}, nil

	case types.KindTrigger:
		var d triggerData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.Trigger{Event: d.Event, Params: d.Params}, nil

	case types.KindCondition:
		var d conditionData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.Condition{Check: types.CheckKind(d.Check), Target: d.Target, Expect: d.Value}, nil

	case types.KindCombat:
		var d combatData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.Combat{Opponent: types.Opponent{
			Character: d.Opponent.Character,
			Name:      d.Opponent.Name,
			Health:    d.Opponent.Health,
			Attack:    d.Opponent.Attack,
		}}, nil

	case types.KindLinkScript:
		var d linkData
		if err := unmarshal(&d); err != nil {
			return nil, err
		}
		return types.LinkScript{Target: d.Target, UseTemplates: d.UseTemplates}, nil

	case types.KindEnd:
		return types.End{}, nil

	default:
		return nil, fmt.Errorf("node %q: unknown node type %q", rn.ID, rn.Type)
	}
}
