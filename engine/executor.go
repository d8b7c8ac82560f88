package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/template"
	"github.com/nathoo/questscript/types"
)

// runLocked is the executor loop: it processes nodes synchronously until a
// suspension point or termination. The mutex is held throughout; the
// returned func carries the host call that must happen after the lock is
// released (presentation or battle handoff), so hosts can respond without
// re-entering a locked runner.
func (r *Runner) runLocked() (after func(), err error) {
	for r.phase == PhaseRunning {
		node := r.current

		switch d := node.Data.(type) {
		case types.Dialogue:
			// Speaker and text are template-expanded against a table built
			// fresh from the current player snapshot.
			table := template.FromSnapshot(r.player.Snapshot())
			speaker := template.Apply(d.Speaker, table)
			text := template.Apply(d.Text, table)
			r.phase = PhaseAwaitingInput
			p := r.presenter
			return func() { p.ShowDialogue(speaker, text) }, nil

		case types.Choice:
			r.phase = PhaseAwaitingInput
			p := r.presenter
			return func() { p.ShowChoice(d.Question, d.Options) }, nil

		case types.Image:
			r.phase = PhaseAwaitingInput
			p := r.presenter
			dur := time.Duration(d.DurationMs) * time.Millisecond
			return func() { p.ShowImage(d.Path, dur) }, nil

		case types.Item:
			r.execItem(node, d)
			r.advanceFrom(node, 0)

		case types.Trigger:
			if err := r.dispatchTrigger(d); err != nil {
				var unknown *UnknownTriggerEventError
				if errors.As(err, &unknown) {
					// Unknown events skip the node without halting the chain.
					r.logger.Warn("unknown trigger event, node skipped",
						"node", node.ID, "event", unknown.Event)
				} else {
					r.logger.Error("trigger effect failed",
						"node", node.ID, "event", d.Event, "error", err)
				}
			}
			r.advanceFrom(node, 0)

		case types.Condition:
			output := 1 // false branch
			if r.evalCondition(d) {
				output = 0
			}
			r.advanceFrom(node, output)

		case types.Combat:
			gen := r.gen
			nodeID := node.ID
			r.phase = PhaseAwaitingExternal
			b := r.battle
			opp := d.Opponent
			return func() {
				b.StartBattle(opp, func(outcome host.Outcome) {
					r.resolveBattle(gen, nodeID, outcome)
				})
			}, nil

		case types.LinkScript:
			if err := r.transfer(d); err != nil {
				// A partially-loaded link is never left active.
				r.logger.Error("link transfer failed", "node", node.ID, "target", d.Target, "error", err)
				r.stopLocked()
				return nil, err
			}

		case types.End:
			cb := r.onComplete
			r.onComplete = nil
			ledger := append([]types.ChoiceRecord(nil), r.ledger...)
			logger := r.logger
			r.stopLocked()
			if cb != nil {
				return func() {
					if err := cb(ledger); err != nil {
						logger.Error("completion callback failed", "error", err)
					}
				}, nil
			}

		default:
			r.stopLocked()
			return nil, fmt.Errorf("engine: node %q has unsupported data %T", node.ID, node.Data)
		}
	}
	return nil, nil
}

// advanceFrom follows the connection at the given output index. A missing
// connection makes the node terminal for that path: triggers pause the
// runner so their side effects outlive the script, every other type stops
// it with full cleanup.
func (r *Runner) advanceFrom(node *types.Node, output int) {
	next, ok := r.graph.Next(node.ID, output)
	if !ok {
		if node.Kind() == types.KindTrigger {
			r.current = nil
			r.phase = PhasePaused
		} else {
			r.stopLocked()
		}
		return
	}
	r.current = next
}

// execItem applies an inventory mutation. A take that fails for
// insufficient quantity surfaces a host-visible warning but does not halt
// the chain.
func (r *Runner) execItem(node *types.Node, d types.Item) {
	switch d.Action {
	case types.ItemGive:
		r.inventory.Give(d.ItemID, d.Amount)
	case types.ItemTake:
		if !r.inventory.Take(d.ItemID, d.Amount) {
			r.logger.Warn("item take failed, continuing",
				"node", node.ID, "item", d.ItemID, "amount", d.Amount)
			r.world.ShowStatus(fmt.Sprintf("Missing %dx %s", d.Amount, d.ItemID), "warning")
		}
	}
}

// evalCondition evaluates the fixed check vocabulary against the flag store
// or the host inventory.
func (r *Runner) evalCondition(d types.Condition) bool {
	switch d.Check {
	case types.CheckHasFlag:
		value, set, err := r.flags.Get(d.Target)
		if err != nil {
			r.logger.Error("flag read failed, taking false branch", "flag", d.Target, "error", err)
			return false
		}
		if !set {
			return false
		}
		if d.Expect == nil {
			return true
		}
		return valueEqual(value, d.Expect)

	case types.CheckHasItem:
		amount := toInt(d.Expect)
		if amount < 1 {
			amount = 1
		}
		return r.inventory.Has(d.Target, amount)

	default:
		return false
	}
}

// resolveBattle is the one-shot battle completion. Completions stamped with
// an older generation — the runner stopped or restarted in the meantime —
// are discarded without touching any state.
func (r *Runner) resolveBattle(gen int, nodeID string, outcome host.Outcome) {
	r.mu.Lock()
	if gen != r.gen || r.phase != PhaseAwaitingExternal {
		r.mu.Unlock()
		return
	}
	node := r.graph.Node(nodeID)
	output := 0 // victory
	if outcome == host.Defeat {
		output = 1
	}
	r.phase = PhaseRunning
	r.advanceFrom(node, output)
	after, err := r.runLocked()
	r.mu.Unlock()
	if after != nil {
		after()
	}
	if err != nil {
		r.logger.Error("execution aborted after battle", "node", nodeID, "error", err)
	}
}

// valueEqual compares flag values loosely enough to survive JSON round
// trips, where numbers come back as float64.
func valueEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt(v any) int {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}
