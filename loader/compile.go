package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// compileLua converts collected Lua tables into the raw model shared with
// the JSON and YAML decoders, so all three formats funnel through the same
// build and validation path.
func compileLua(coll *collector) (*rawGame, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	raw := &rawGame{
		Metadata: rawMetadata{
			Title:       getString(coll.game, "title"),
			Author:      getString(coll.game, "author"),
			Version:     getString(coll.game, "version"),
			Description: getString(coll.game, "description"),
		},
		InitialState: rawInitial{
			CurrentRoom: getString(coll.game, "start"),
			Inventory:   getStringList(coll.game, "inventory"),
			Flags:       tableToAnyMap(getTable(coll.game, "flags")),
		},
	}

	for _, def := range coll.rooms {
		room, err := compileRoom(def)
		if err != nil {
			return nil, fmt.Errorf("compiling room %s: %w", def.id, err)
		}
		raw.Rooms = append(raw.Rooms, room)
	}
	for _, def := range coll.objects {
		obj, err := compileObject(def)
		if err != nil {
			return nil, fmt.Errorf("compiling object %s: %w", def.id, err)
		}
		raw.Objects = append(raw.Objects, obj)
	}
	for _, def := range coll.verbs {
		raw.Verbs = append(raw.Verbs, rawVerb{
			Verb:             def.id,
			Aliases:          getStringList(def.table, "aliases"),
			RequiresObject:   getBool(def.table, "requires_object", false),
			RequiresIndirect: getBool(def.table, "requires_indirect", false),
			Prepositions:     getStringList(def.table, "prepositions"),
			DefaultMessage:   getString(def.table, "default_message"),
		})
	}

	if coll.win != nil {
		win := compileWin(coll.win)
		raw.WinCondition = &win
	}
	return raw, nil
}

func compileRoom(def luaDef) (rawRoom, error) {
	room := rawRoom{
		ID:          def.id,
		Name:        getString(def.table, "name"),
		Description: getString(def.table, "description"),
		FirstVisit:  getString(def.table, "first_visit_description"),
		Objects:     getStringList(def.table, "objects"),
	}

	if exits := getTable(def.table, "exits"); exits != nil {
		room.Exits = map[string]rawExit{}
		var err error
		exits.ForEach(func(k, v lua.LValue) {
			dir, ok := k.(lua.LString)
			if !ok {
				return
			}
			switch val := v.(type) {
			case lua.LString:
				room.Exits[string(dir)] = rawExit{Target: string(val)}
			case *lua.LTable:
				room.Exits[string(dir)] = rawExit{
					Target:       getString(val, "target"),
					Locked:       getBool(val, "locked", false),
					LockMessage:  getString(val, "lock_message"),
					UnlockObject: getString(val, "unlock_object"),
					Hidden:       getBool(val, "hidden", false),
				}
			default:
				err = fmt.Errorf("exit %q must be a room id or a table", dir)
			}
		})
		if err != nil {
			return room, err
		}
	}
	return room, nil
}

func compileObject(def luaDef) (rawObject, error) {
	tbl := def.table
	obj := rawObject{
		ID:          def.id,
		Name:        getString(tbl, "name"),
		Adjectives:  getStringList(tbl, "adjectives"),
		Description: getString(tbl, "description"),
		ExamineText: getString(tbl, "examine_text"),
		Location:    getString(tbl, "location"),
		Takeable:    getBoolPtr(tbl, "takeable"),
		Droppable:   getBoolPtr(tbl, "droppable"),
		Readable:    getBool(tbl, "readable", false),
		ReadText:    getString(tbl, "read_text"),
		Openable:    getBool(tbl, "openable", false),
		IsOpen:      getBool(tbl, "is_open", false),
		Container:   getBool(tbl, "container", false),
		Contains:    getStringList(tbl, "contains"),
		Lockable:    getBool(tbl, "lockable", false),
		Locked:      getBool(tbl, "locked", false),
		KeyObject:   getString(tbl, "key_object"),
		Scenery:     getBool(tbl, "scenery", false),
		Hidden:      getBool(tbl, "hidden", false),
	}

	if actions := getTable(tbl, "actions"); actions != nil {
		obj.Actions = map[string]rawAction{}
		var err error
		actions.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			switch val := v.(type) {
			case lua.LString:
				obj.Actions[string(key)] = rawAction{isLiteral: true, literal: string(val)}
			case *lua.LTable:
				obj.Actions[string(key)] = rawAction{
					Message:        getString(val, "message"),
					Condition:      getString(val, "condition"),
					FailMessage:    getString(val, "fail_message"),
					StateChanges:   tableToAnyMap(getTable(val, "state_changes")),
					ConsumesObject: getBool(val, "consumes_object", false),
					RevealsObject:  getString(val, "reveals_object"),
					MovesPlayer:    getString(val, "moves_player"),
				}
			default:
				err = fmt.Errorf("action %q must be a string or a table", key)
			}
		})
		if err != nil {
			return obj, err
		}
	}
	return obj, nil
}

func compileWin(tbl *lua.LTable) rawWin {
	win := rawWin{
		Type:       getString(tbl, "type"),
		Room:       getString(tbl, "room"),
		Object:     getString(tbl, "object"),
		Flag:       getString(tbl, "flag"),
		WinMessage: getString(tbl, "win_message"),
	}
	if conds := getTable(tbl, "conditions"); conds != nil {
		for i := 1; i <= conds.MaxN(); i++ {
			if sub, ok := conds.RawGetInt(i).(*lua.LTable); ok {
				win.Conditions = append(win.Conditions, compileWin(sub))
			}
		}
	}
	return win
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getBoolPtr distinguishes an absent bool field from an explicit false.
func getBoolPtr(tbl *lua.LTable, key string) *bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		v := bool(b)
		return &v
	}
	return nil
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns a sequence field as a string slice.
func getStringList(tbl *lua.LTable, key string) []string {
	seq := getTable(tbl, key)
	if seq == nil {
		return nil
	}
	var out []string
	for i := 1; i <= seq.MaxN(); i++ {
		if s, ok := seq.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
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
		if maxN := val.MaxN(); maxN > 0 {
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
