package engine

import (
	"fmt"

	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/types"
)

// UnknownTriggerEventError reports a trigger node naming an event outside
// the enumerated vocabulary. Non-fatal: the node is skipped.
type UnknownTriggerEventError struct {
	Event string
}

func (e *UnknownTriggerEventError) Error() string {
	return fmt.Sprintf("unknown trigger event %q", e.Event)
}

// dispatchTrigger routes a trigger node's event to the matching host
// effect. setFlag writes through the flag store; spawnNPC records the
// returned id so the runner can clean it up on stop.
func (r *Runner) dispatchTrigger(d types.Trigger) error {
	p := d.Params

	switch d.Event {
	case "playMusic":
		r.world.PlayMusic(paramString(p, "trackPath"))

	case "stopMusic":
		r.world.StopMusic()

	case "setFlag":
		flag := paramString(p, "flag")
		if flag == "" {
			return fmt.Errorf("setFlag: missing flag name")
		}
		if err := r.flags.Set(flag, p["value"]); err != nil {
			return fmt.Errorf("setFlag %q: %w", flag, err)
		}

	case "spawnNPC":
		id := r.world.SpawnNPC(host.NPCSpec{
			NPCID: paramString(p, "npcId"),
			Emoji: paramString(p, "emoji"),
			Name:  paramString(p, "name"),
			X:     paramFloat(p, "x"),
			Y:     paramFloat(p, "y"),
			Z:     paramFloat(p, "z"),
			Scale: paramFloat(p, "scale"),
		})
		if id != "" {
			r.activeNPCs[id] = struct{}{}
		}

	case "removeNPC":
		id := paramString(p, "npcId")
		r.world.RemoveNPC(id)
		delete(r.activeNPCs, id)

	case "showStatus":
		r.world.ShowStatus(paramString(p, "message"), paramString(p, "type"))

	case "teleport":
		r.world.Teleport(paramFloat(p, "x"), paramFloat(p, "y"), paramFloat(p, "z"))

	case "setTime":
		r.world.SetTime(toInt(p["hour"]))

	case "setWeather":
		r.world.SetWeather(paramString(p, "weather"))

	default:
		return &UnknownTriggerEventError{Event: d.Event}
	}
	return nil
}

func paramString(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

func paramFloat(p map[string]any, key string) float64 {
	f, _ := toFloat(p[key])
	return f
}
