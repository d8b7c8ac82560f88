package engine

import (
	"fmt"

	"github.com/nathoo/questscript/graph"
	"github.com/nathoo/questscript/template"
	"github.com/nathoo/questscript/types"
)

// LinkTargetError reports a link transfer whose target script could not be
// loaded or compiled. Fatal: the runner stops with full cleanup.
type LinkTargetError struct {
	Target string
	Err    error
}

func (e *LinkTargetError) Error() string {
	return fmt.Sprintf("link target %q: %v", e.Target, e.Err)
}

func (e *LinkTargetError) Unwrap() error { return e.Err }

// transfer implements cross-script linking. The ordering is load-bearing:
// the completion callback fires (and its durable write finishes — signalled
// by the call returning) before the target is loaded, so templating against
// freshly written state reads what the callback wrote. The callback
// reference is cleared before invocation so it cannot fire twice.
func (r *Runner) transfer(d types.LinkScript) error {
	if cb := r.onComplete; cb != nil {
		r.onComplete = nil
		ledger := append([]types.ChoiceRecord(nil), r.ledger...)
		if err := cb(ledger); err != nil {
			r.logger.Error("completion callback failed during link", "target", d.Target, "error", err)
		}
	}

	script, err := r.loader.Load(d.Target)
	if err != nil {
		return &LinkTargetError{Target: d.Target, Err: err}
	}

	if d.UseTemplates {
		table := template.FromSnapshot(r.player.Snapshot())
		template.ApplyToScript(script, table)
	}

	g, err := graph.Compile(script)
	if err != nil {
		return &LinkTargetError{Target: d.Target, Err: err}
	}

	// Splice the target graph in place of the current one and resume at its
	// entry node. Phase stays running: the transfer is synchronous from the
	// runner's perspective.
	r.graph = g
	r.current = g.Entry()
	return nil
}
