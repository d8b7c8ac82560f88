// Package graph compiles a script into an immutable edge index with O(1)
// connection lookup and a resolved entry node.
package graph

import (
	"fmt"

	"github.com/nathoo/questscript/types"
)

// GraphIntegrityError reports a structurally invalid script: duplicate node
// ids, duplicate (node, output) edges, dangling connection endpoints, or a
// missing entry node. Fatal at load time.
type GraphIntegrityError struct {
	ScriptID string
	Reason   string
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("script %q: graph integrity: %s", e.ScriptID, e.Reason)
}

// AmbiguousEntryError reports a script with more than one candidate entry
// node. Fatal at load time.
type AmbiguousEntryError struct {
	ScriptID   string
	Candidates []string
}

func (e *AmbiguousEntryError) Error() string {
	return fmt.Sprintf("script %q: ambiguous entry: candidates %v", e.ScriptID, e.Candidates)
}

type edgeKey struct {
	from   string
	output int
}

// Graph is the compiled in-memory form of one script. Pure data; built once
// at load time and never mutated afterwards.
type Graph struct {
	script *types.Script
	nodes  map[string]*types.Node
	edges  map[edgeKey]string
	entry  string
}

// Compile validates a script and builds its edge index. The entry node is
// the unique node with no incoming connections and kind != end.
func Compile(s *types.Script) (*Graph, error) {
	g := &Graph{
		script: s,
		nodes:  make(map[string]*types.Node, len(s.Nodes)),
		edges:  make(map[edgeKey]string, len(s.Connections)),
	}

	if len(s.Nodes) == 0 {
		return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: "script has no nodes"}
	}

	for i := range s.Nodes {
		n := &s.Nodes[i]
		if n.ID == "" {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: "node with empty id"}
		}
		if n.Data == nil {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf("node %q has no data", n.ID)}
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		g.nodes[n.ID] = n
	}

	incoming := make(map[string]int, len(s.Nodes))
	for _, c := range s.Connections {
		if _, ok := g.nodes[c.From]; !ok {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf("connection from undefined node %q", c.From)}
		}
		if _, ok := g.nodes[c.To]; !ok {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf("connection to undefined node %q", c.To)}
		}
		if c.Output < 0 {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf("node %q: negative output index %d", c.From, c.Output)}
		}
		key := edgeKey{from: c.From, output: c.Output}
		// Duplicate keys are rejected outright rather than last-one-wins,
		// so authoring mistakes surface at load time.
		if _, dup := g.edges[key]; dup {
			return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: fmt.Sprintf("duplicate connection from %q output %d", c.From, c.Output)}
		}
		g.edges[key] = c.To
		incoming[c.To]++
	}

	var candidates []string
	for _, n := range s.Nodes {
		if incoming[n.ID] == 0 && n.Kind() != types.KindEnd {
			candidates = append(candidates, n.ID)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, &GraphIntegrityError{ScriptID: s.ID, Reason: "no entry node (every non-end node has incoming connections)"}
	case 1:
		g.entry = candidates[0]
	default:
		return nil, &AmbiguousEntryError{ScriptID: s.ID, Candidates: candidates}
	}

	return g, nil
}

// ScriptID returns the id of the compiled script.
func (g *Graph) ScriptID() string { return g.script.ID }

// Entry returns the script's entry node.
func (g *Graph) Entry() *types.Node { return g.nodes[g.entry] }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *types.Node { return g.nodes[id] }

// Next resolves the connection from a node's output index. Returns nil and
// false when no connection exists (the node is terminal for that path).
func (g *Graph) Next(nodeID string, output int) (*types.Node, bool) {
	to, ok := g.edges[edgeKey{from: nodeID, output: output}]
	if !ok {
		return nil, false
	}
	return g.nodes[to], true
}
