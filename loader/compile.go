package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/questscript/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if tbl == nil {
		return ""
	}
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if tbl == nil {
		return def
	}
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if tbl == nil {
		return def
	}
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if tbl == nil {
		return nil
	}
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys from 1 → array, otherwise map.
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToStringSlice converts a Lua array table to []string.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// compileLua converts collected node tables into a validated script.
func compileLua(id string, coll *luaCollector) (*types.Script, error) {
	script := &types.Script{ID: id}

	connect := func(from string, output int, to string) {
		if to == "" {
			return
		}
		script.Connections = append(script.Connections, types.Connection{
			From:   from,
			Output: output,
			To:     to,
		})
	}

	for _, rn := range coll.nodes {
		var data types.NodeData

		switch rn.kind {
		case types.KindDialogue:
			data = types.Dialogue{
				Speaker: getString(rn.table, "speaker"),
				Text:    getString(rn.table, "text"),
			}
			connect(rn.id, 0, getString(rn.table, "next"))

		case types.KindChoice:
			data = types.Choice{
				Question: getString(rn.table, "question"),
				Options:  tableToStringSlice(getTable(rn.table, "options")),
			}
			// Per-option targets, ordered identically to the options list.
			for i, to := range tableToStringSlice(getTable(rn.table, "to")) {
				connect(rn.id, i, to)
			}

		case types.KindImage:
			data = types.Image{
				Path:       getString(rn.table, "path"),
				DurationMs: getInt(rn.table, "duration", 0),
			}
			connect(rn.id, 0, getString(rn.table, "next"))

		case types.KindItem:
			data = types.Item{
				Action: types.ItemAction(getString(rn.table, "action")),
				ItemID: getString(rn.table, "item"),
				Amount: getInt(rn.table, "amount", 1),
			}
			connect(rn.id, 0, getString(rn.table, "next"))

		case types.KindTrigger:
			data = types.Trigger{
				Event:  getString(rn.table, "event"),
				Params: tableToAnyMap(getTable(rn.table, "params")),
			}
			connect(rn.id, 0, getString(rn.table, "next"))

		case types.KindCondition:
			data = types.Condition{
				Check:  types.CheckKind(getString(rn.table, "check")),
				Target: getString(rn.table, "target"),
				Expect: toGoValue(rn.table.RawGetString("value")),
			}
			connect(rn.id, 0, getString(rn.table, "whenTrue"))
			connect(rn.id, 1, getString(rn.table, "whenFalse"))

		case types.KindCombat:
			data = types.Combat{Opponent: types.Opponent{
				Character: getString(rn.table, "character"),
				Name:      getString(rn.table, "name"),
				Health:    getInt(rn.table, "health", 0),
				Attack:    getInt(rn.table, "attack", 0),
			}}
			connect(rn.id, 0, getString(rn.table, "victory"))
			connect(rn.id, 1, getString(rn.table, "defeat"))

		case types.KindLinkScript:
			data = types.LinkScript{
				Target:       getString(rn.table, "target"),
				UseTemplates: getBool(rn.table, "useTemplates", false),
			}

		case types.KindEnd:
			data = types.End{}

		default:
			return nil, fmt.Errorf("script %q: node %q has unknown kind %q", id, rn.id, rn.kind)
		}

		script.Nodes = append(script.Nodes, types.Node{ID: rn.id, Data: data})
	}

	if err := validate(script); err != nil {
		return nil, err
	}
	return script, nil
}
