package loader

import (
	"fmt"
	"strings"

	"github.com/fable-works/fablecore/types"
)

// ValidationError collects every referential integrity problem found in a
// game definition, so authors can fix them in one pass.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

var validWinTypes = map[string]bool{
	types.WinReachRoom:  true,
	types.WinHaveObject: true,
	types.WinFlagSet:    true,
	types.WinAllOf:      true,
	types.WinAnyOf:      true,
}

// validate checks a built game for referential integrity: every room,
// object, and win-condition reference must point at something that exists.
// The raw definition rides along because room object lists are folded into
// object locations during build and no longer exist on types.Room.
func validate(game *types.Game, raw *rawGame) error {
	ve := &ValidationError{}

	if game.Metadata.Title == "" {
		ve.addf("metadata.title is required")
	}
	if len(game.Rooms) == 0 {
		ve.addf("at least one room is required")
	}

	roomIDs := map[string]bool{}
	for _, room := range game.Rooms {
		if roomIDs[room.ID] {
			ve.addf("duplicate room id %q", room.ID)
		}
		roomIDs[room.ID] = true
	}
	objectIDs := map[string]bool{}
	for _, obj := range game.Objects {
		if objectIDs[obj.ID] {
			ve.addf("duplicate object id %q", obj.ID)
		}
		objectIDs[obj.ID] = true
	}

	start := game.Initial.CurrentRoom
	if start == "" {
		ve.addf("initial_state.current_room is required")
	} else if !roomIDs[start] {
		ve.addf("starting room %q does not exist", start)
	}
	for _, id := range game.Initial.Inventory {
		if !objectIDs[id] {
			ve.addf("initial inventory object %q does not exist", id)
		}
	}

	for _, rr := range raw.Rooms {
		for _, id := range rr.Objects {
			if !objectIDs[id] {
				ve.addf("room %q lists unknown object %q", rr.ID, id)
			}
		}
	}

	for _, room := range game.Rooms {
		for dir, exit := range room.Exits {
			if !roomIDs[exit.Target] {
				ve.addf("room %q exit %q leads to undefined room %q", room.ID, dir, exit.Target)
			}
			if exit.UnlockObject != "" && !objectIDs[exit.UnlockObject] {
				ve.addf("room %q exit %q unlock object %q does not exist", room.ID, dir, exit.UnlockObject)
			}
		}
	}

	for _, obj := range game.Objects {
		loc := obj.Location
		if loc != "inventory" && loc != "nowhere" && !roomIDs[loc] && !objectIDs[loc] {
			ve.addf("object %q has invalid location %q", obj.ID, loc)
		}
		for _, id := range obj.Contains {
			if !objectIDs[id] {
				ve.addf("object %q contains unknown object %q", obj.ID, id)
			}
		}
		if obj.KeyObject != "" && !objectIDs[obj.KeyObject] {
			ve.addf("object %q key object %q does not exist", obj.ID, obj.KeyObject)
		}
		if obj.Readable && obj.ReadText == "" {
			ve.addf("object %q is readable but has no read_text", obj.ID)
		}
		for key, act := range obj.Actions {
			if act.Rule == nil {
				continue
			}
			where := fmt.Sprintf("object %q action %q", obj.ID, key.Verb)
			if act.Rule.RevealsObject != "" && !objectIDs[act.Rule.RevealsObject] {
				ve.addf("%s reveals unknown object %q", where, act.Rule.RevealsObject)
			}
			if act.Rule.MovesPlayer != "" && !roomIDs[act.Rule.MovesPlayer] {
				ve.addf("%s moves player to unknown room %q", where, act.Rule.MovesPlayer)
			}
		}
	}

	verbNames := map[string]bool{}
	for _, def := range game.Verbs {
		name := strings.ToLower(def.Verb)
		if name == "" {
			ve.addf("custom verb with empty name")
			continue
		}
		if verbNames[name] {
			ve.addf("duplicate custom verb %q", name)
		}
		verbNames[name] = true
	}

	if game.WinCondition.Type != "" {
		validateWin(game.WinCondition, roomIDs, objectIDs, ve)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWin(cond types.WinCondition, roomIDs, objectIDs map[string]bool, ve *ValidationError) {
	if !validWinTypes[cond.Type] {
		ve.addf("unknown win condition type %q", cond.Type)
		return
	}
	switch cond.Type {
	case types.WinReachRoom:
		if !roomIDs[cond.Room] {
			ve.addf("win condition references unknown room %q", cond.Room)
		}
	case types.WinHaveObject:
		if !objectIDs[cond.Object] {
			ve.addf("win condition references unknown object %q", cond.Object)
		}
	case types.WinFlagSet:
		if cond.Flag == "" {
			ve.addf("flag_set win condition needs a flag name")
		}
	case types.WinAllOf, types.WinAnyOf:
		for _, sub := range cond.Conditions {
			validateWin(sub, roomIDs, objectIDs, ve)
		}
	}
}
