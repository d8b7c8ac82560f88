package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/questscript/types"
)

// Lua authoring DSL. Each node constructor is curried: Dialogue "id" {...}.
// Connections are declared on the node itself (next, to, whenTrue/whenFalse,
// victory/defeat) and compiled into output-indexed connections.

// rawLuaNode holds a node table before compilation.
type rawLuaNode struct {
	id    string
	kind  types.NodeKind
	table *lua.LTable
}

// luaCollector accumulates Lua definitions during file execution.
type luaCollector struct {
	nodes []rawLuaNode
}

// ParseLuaFile executes a Lua script file in a sandboxed VM and compiles the
// collected nodes into a script. The VM is discarded before returning.
func ParseLuaFile(id, path string) (*types.Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &luaCollector{}
	registerConstructors(L, coll)

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("executing script %s: %w", path, err)
	}

	return compileLua(id, coll)
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}

// registerConstructors registers the node constructors as globals. Every
// constructor is curried: Name("id") returns a function taking the table.
func registerConstructors(L *lua.LState, coll *luaCollector) {
	node := func(kind types.NodeKind) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.nodes = append(coll.nodes, rawLuaNode{id: id, kind: kind, table: tbl})
				return 0
			}))
			return 1
		})
	}

	L.SetGlobal("Dialogue", node(types.KindDialogue))
	L.SetGlobal("Choice", node(types.KindChoice))
	L.SetGlobal("Image", node(types.KindImage))
	L.SetGlobal("Item", node(types.KindItem))
	L.SetGlobal("Trigger", node(types.KindTrigger))
	L.SetGlobal("Condition", node(types.KindCondition))
	L.SetGlobal("Combat", node(types.KindCombat))
	L.SetGlobal("Link", node(types.KindLinkScript))

	// End "id" — no table, terminal node.
	L.SetGlobal("End", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		coll.nodes = append(coll.nodes, rawLuaNode{id: id, kind: types.KindEnd})
		return 0
	}))
}
