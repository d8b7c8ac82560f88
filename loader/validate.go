package loader

import (
	"fmt"

	"github.com/nathoo/questscript/graph"
	"github.com/nathoo/questscript/types"
)

// Enumerated trigger events the executor dispatches. Unknown events are a
// runtime warning, not a load failure, so a loader only flags the empty
// name here.
var validatedChecks = map[types.CheckKind]bool{
	types.CheckHasFlag: true,
	types.CheckHasItem: true,
}

// validate performs structural validation of node data and of connection
// output ranges against each node's type-specific output arity. Graph-level
// integrity (duplicate edges, entry resolution) is checked again by
// graph.Compile; validation here is about the node payloads.
func validate(s *types.Script) error {
	integrity := func(format string, args ...any) error {
		return &graph.GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf(format, args...)}
	}

	nodes := make(map[string]types.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes[n.ID] = n

		switch d := n.Data.(type) {
		case types.Choice:
			if len(d.Options) == 0 {
				return integrity("choice node %q has no options", n.ID)
			}
		case types.Item:
			if d.Action != types.ItemGive && d.Action != types.ItemTake {
				return integrity("item node %q: invalid action %q", n.ID, d.Action)
			}
			if d.ItemID == "" {
				return integrity("item node %q has no item id", n.ID)
			}
			if d.Amount < 1 {
				return integrity("item node %q: amount must be positive", n.ID)
			}
		case types.Trigger:
			if d.Event == "" {
				return integrity("trigger node %q has no event name", n.ID)
			}
		case types.Condition:
			if !validatedChecks[d.Check] {
				return integrity("condition node %q: unknown check %q", n.ID, d.Check)
			}
			if d.Target == "" {
				return integrity("condition node %q has no target", n.ID)
			}
		case types.LinkScript:
			if d.Target == "" {
				return integrity("link node %q has no target script", n.ID)
			}
		case types.Image:
			if d.Path == "" {
				return integrity("image node %q has no path", n.ID)
			}
		}
	}

	for _, c := range s.Connections {
		n, ok := nodes[c.From]
		if !ok {
			continue // graph.Compile reports dangling endpoints
		}
		max := maxOutput(n)
		if max < 0 {
			return integrity("end node %q cannot have outgoing connections", n.ID)
		}
		if c.Output > max {
			return integrity("node %q (%s): output index %d out of range (max %d)", n.ID, n.Kind(), c.Output, max)
		}
	}

	return nil
}

// maxOutput returns the highest valid output index for a node, or -1 for
// end nodes.
func maxOutput(n types.Node) int {
	switch d := n.Data.(type) {
	case types.Choice:
		return len(d.Options) - 1
	case types.Condition, types.Combat:
		return 1
	case types.End:
		return -1
	default:
		return 0
	}
}
