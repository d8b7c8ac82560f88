// Package template implements {{token}} substitution of live player state
// into script text. The interpreter only knows how to substitute; computing
// the values (e.g. a companion's display name) is the host's job.
package template

import (
	"strings"

	"github.com/nathoo/questscript/types"
)

// Table maps template variable names to replacement text. Tables are built
// fresh from a player snapshot each time they are needed and never cached,
// because the underlying player state can change between uses.
type Table map[string]string

// FromSnapshot builds the substitution table for a player snapshot.
func FromSnapshot(p types.PlayerSnapshot) Table {
	return Table{
		"companion":      p.Companion,
		"companion_name": p.CompanionName,
		"player_race":    p.Race,
	}
}

// Apply replaces every literal {{key}} occurrence with its table value.
// Unmatched tokens are left verbatim so authoring mistakes stay visible in
// rendered output instead of being silently swallowed.
func Apply(text string, t Table) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	for key, value := range t {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}

// ApplyToScript rewrites the text, speaker, question and character fields of
// every node in place. Called on a freshly loaded script during link
// transfer, never on a graph another owner is still executing.
func ApplyToScript(s *types.Script, t Table) {
	for i := range s.Nodes {
		switch d := s.Nodes[i].Data.(type) {
		case types.Dialogue:
			d.Speaker = Apply(d.Speaker, t)
			d.Text = Apply(d.Text, t)
			s.Nodes[i].Data = d
		case types.Choice:
			d.Question = Apply(d.Question, t)
			s.Nodes[i].Data = d
		case types.Combat:
			d.Opponent.Character = Apply(d.Opponent.Character, t)
			s.Nodes[i].Data = d
		}
	}
}
