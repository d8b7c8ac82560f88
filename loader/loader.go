// Package loader resolves script ids to parsed node/connection data. Two
// authoring formats compile into the same graph: the JSON wire format
// produced by the graph editor, and a Lua DSL for hand authoring. The
// loader caches nothing across calls; the Lua VM is discarded after each
// load.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nathoo/questscript/types"
)

// Dir resolves script ids against a directory, trying <id>.json then
// <id>.lua.
type Dir struct {
	path string
}

// NewDir creates a loader rooted at the given directory.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Load reads, parses and structurally validates the script with the given
// id.
func (d *Dir) Load(id string) (*types.Script, error) {
	jsonPath := filepath.Join(d.path, id+".json")
	data, err := os.ReadFile(jsonPath)
	if err == nil {
		return ParseJSON(id, data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading script %s: %w", jsonPath, err)
	}

	luaPath := filepath.Join(d.path, id+".lua")
	if _, statErr := os.Stat(luaPath); statErr == nil {
		return ParseLuaFile(id, luaPath)
	}

	return nil, fmt.Errorf("script %q not found in %s", id, d.path)
}
