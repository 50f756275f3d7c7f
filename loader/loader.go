// Package loader reads game definitions from JSON, YAML, or Lua sources
// into immutable types.Game values. Lua worlds run in a sandboxed VM that
// is discarded after loading; no scripting happens at play time.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fable-works/fablecore/types"
)

// Load reads a game definition from path. A directory is treated as a Lua
// game directory; files dispatch on extension (.json, .yaml, .yml, .lua).
// The returned game has passed reference validation.
func Load(path string) (*types.Game, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading game %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadLuaDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	case ".lua":
		return LoadLuaFiles(path)
	default:
		return nil, fmt.Errorf("unsupported game file %s: expected .json, .yaml, .yml, or .lua", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game %s: %w", path, err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return LoadJSON(data)
	}
	return LoadYAML(data)
}

// LoadJSON decodes, builds, and validates a JSON game definition.
func LoadJSON(data []byte) (*types.Game, error) {
	var raw rawGame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing game JSON: %w", err)
	}
	return finish(&raw)
}

// LoadYAML decodes, builds, and validates a YAML game definition.
func LoadYAML(data []byte) (*types.Game, error) {
	var raw rawGame
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing game YAML: %w", err)
	}
	return finish(&raw)
}

func finish(raw *rawGame) (*types.Game, error) {
	game := build(raw)
	if err := validate(game, raw); err != nil {
		return nil, err
	}
	return game, nil
}
