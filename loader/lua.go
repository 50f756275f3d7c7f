package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/fable-works/fablecore/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game    *lua.LTable
	rooms   []luaDef
	objects []luaDef
	verbs   []luaDef
	win     *lua.LTable
}

type luaDef struct {
	id    string
	table *lua.LTable
}

// LoadLuaDir reads every .lua file in dir (game.lua first, the rest
// alphabetical), executes them in one sandboxed VM, and compiles the
// collected definitions. The VM is discarded afterwards.
func LoadLuaDir(dir string) (*types.Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Slice(files, func(i, j int) bool {
		bi, bj := filepath.Base(files[i]), filepath.Base(files[j])
		if (bi == "game.lua") != (bj == "game.lua") {
			return bi == "game.lua"
		}
		return bi < bj
	})

	return LoadLuaFiles(files...)
}

// LoadLuaFiles executes the given Lua files in order in one sandboxed VM
// and compiles the result.
func LoadLuaFiles(paths ...string) (*types.Game, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, path := range paths {
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", filepath.Base(path), err)
		}
	}

	raw, err := compileLua(coll)
	if err != nil {
		return nil, err
	}
	return finish(raw)
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach the filesystem or load code.
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

// registerAPI installs the world-building constructors as Lua globals.
// Room, Object, and Verb are curried: Room "id" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	curried := func(sink *[]luaDef) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				*sink = append(*sink, luaDef{id: id, table: L.CheckTable(1)})
				return 0
			}))
			return 1
		})
	}
	L.SetGlobal("Room", curried(&coll.rooms))
	L.SetGlobal("Object", curried(&coll.objects))
	L.SetGlobal("Verb", curried(&coll.verbs))

	L.SetGlobal("Win", L.NewFunction(func(L *lua.LState) int {
		coll.win = L.CheckTable(1)
		return 0
	}))
}
