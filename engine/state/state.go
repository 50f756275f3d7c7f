// Package state holds the mutable session state: where everything is and
// what has happened. The static Game definition is never modified; every
// runtime change lands here.
package state

import (
	"github.com/fable-works/fablecore/types"
)

// Inventory and nowhere are sentinel locations alongside room and
// container ids.
const (
	LocInventory = "inventory"
	LocNowhere   = "nowhere"
)

// ObjectState is the runtime state of one object.
type ObjectState struct {
	Location string         `json:"location"`
	IsOpen   bool           `json:"is_open"`
	Locked   bool           `json:"locked"`
	Hidden   bool           `json:"hidden"`
	Examined bool           `json:"examined"`
	Custom   map[string]any `json:"custom,omitempty"`
}

// RoomState is the runtime state of one room.
type RoomState struct {
	Visited bool           `json:"visited"`
	Custom  map[string]any `json:"custom,omitempty"`
}

// State is the complete mutable state of a game in progress. It is created
// once per session and mutated exactly once per accepted turn.
type State struct {
	CurrentRoom  string                  `json:"current_room"`
	Inventory    []string                `json:"inventory"`
	Turns        int                     `json:"turns"`
	Score        int                     `json:"score"`
	Flags        map[string]any          `json:"flags"`
	Objects      map[string]*ObjectState `json:"objects"`
	Rooms        map[string]*RoomState   `json:"rooms"`
	GameOver     bool                    `json:"game_over"`
	Won          bool                    `json:"won"`
	DeathMessage string                  `json:"death_message,omitempty"`
}

// New creates the initial state for a game. Objects listed in the initial
// inventory start there regardless of their defined location, and the
// starting room begins visited.
func New(game *types.Game) *State {
	s := &State{
		CurrentRoom: game.Initial.CurrentRoom,
		Inventory:   append([]string(nil), game.Initial.Inventory...),
		Flags:       make(map[string]any),
		Objects:     make(map[string]*ObjectState),
		Rooms:       make(map[string]*RoomState),
	}
	for k, v := range game.Initial.Flags {
		s.Flags[k] = v
	}

	inInventory := make(map[string]bool, len(game.Initial.Inventory))
	for _, id := range game.Initial.Inventory {
		inInventory[id] = true
	}
	for i := range game.Objects {
		obj := &game.Objects[i]
		loc := obj.Location
		if inInventory[obj.ID] {
			loc = LocInventory
		}
		s.Objects[obj.ID] = &ObjectState{
			Location: loc,
			IsOpen:   obj.IsOpen,
			Locked:   obj.Locked,
			Hidden:   obj.Hidden,
		}
	}
	for i := range game.Rooms {
		s.Rooms[game.Rooms[i].ID] = &RoomState{}
	}
	if rs, ok := s.Rooms[s.CurrentRoom]; ok {
		rs.Visited = true
	}
	return s
}

// ObjectLocation returns the current location of an object, or "" if the
// object is unknown.
func (s *State) ObjectLocation(id string) string {
	if os, ok := s.Objects[id]; ok {
		return os.Location
	}
	return ""
}

// MoveObject relocates an object. Unknown ids are a no-op.
func (s *State) MoveObject(id, location string) {
	if os, ok := s.Objects[id]; ok {
		os.Location = location
	}
}

// ObjectsAt lists non-hidden objects at a location, in definition order so
// room descriptions stay deterministic.
func (s *State) ObjectsAt(game *types.Game, location string) []string {
	var ids []string
	for i := range game.Objects {
		id := game.Objects[i].ID
		if os, ok := s.Objects[id]; ok && os.Location == location && !os.Hidden {
			ids = append(ids, id)
		}
	}
	return ids
}

// ListedAt is ObjectsAt minus scenery, which belongs to the room
// description rather than the object list.
func (s *State) ListedAt(game *types.Game, location string) []string {
	var ids []string
	for _, id := range s.ObjectsAt(game, location) {
		if obj := game.Object(id); obj != nil && !obj.Scenery {
			ids = append(ids, id)
		}
	}
	return ids
}

// InInventory reports whether the player carries the object.
func (s *State) InInventory(id string) bool {
	for _, held := range s.Inventory {
		if held == id {
			return true
		}
	}
	return false
}

// AddToInventory appends the object to the inventory, preserving
// acquisition order, and relocates it there.
func (s *State) AddToInventory(id string) {
	if !s.InInventory(id) {
		s.Inventory = append(s.Inventory, id)
	}
	s.MoveObject(id, LocInventory)
}

// RemoveFromInventory drops the object from the inventory list. The
// object's location is left for the caller to set.
func (s *State) RemoveFromInventory(id string) {
	for i, held := range s.Inventory {
		if held == id {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			return
		}
	}
}

// SetFlag stores a flag value.
func (s *State) SetFlag(name string, value any) {
	s.Flags[name] = value
}

// Flag returns a flag's value, or nil when unset.
func (s *State) Flag(name string) any {
	return s.Flags[name]
}

// FlagSet reports flag truthiness.
func (s *State) FlagSet(name string) bool {
	return Truthy(s.Flags[name])
}

// Attr reads a named runtime attribute off an object's state. Unknown
// objects or attributes yield (nil, false).
func (s *State) Attr(objectID, attr string) (any, bool) {
	os, ok := s.Objects[objectID]
	if !ok {
		return nil, false
	}
	switch attr {
	case "location":
		return os.Location, true
	case "is_open":
		return os.IsOpen, true
	case "locked":
		return os.Locked, true
	case "hidden":
		return os.Hidden, true
	case "examined":
		return os.Examined, true
	}
	if v, ok := os.Custom[attr]; ok {
		return v, true
	}
	return nil, false
}

// SetAttr writes a named runtime attribute on an object's state. Unknown
// attribute names land in the object's custom map; unknown objects are a
// no-op, so dangling content references degrade instead of crashing.
func (s *State) SetAttr(objectID, attr string, value any) {
	os, ok := s.Objects[objectID]
	if !ok {
		return
	}
	switch attr {
	case "location":
		if str, ok := value.(string); ok {
			os.Location = str
		}
	case "is_open":
		os.IsOpen = Truthy(value)
	case "locked":
		os.Locked = Truthy(value)
	case "hidden":
		os.Hidden = Truthy(value)
	case "examined":
		os.Examined = Truthy(value)
	default:
		if os.Custom == nil {
			os.Custom = make(map[string]any)
		}
		os.Custom[attr] = value
	}
}

// EndGame marks the session terminal. The death message is only kept for
// losses.
func (s *State) EndGame(won bool, message string) {
	s.GameOver = true
	s.Won = won
	if !won && message != "" {
		s.DeathMessage = message
	}
}

// Truthy converts arbitrary flag/attribute values to booleans: nil and
// zero values are false, everything else true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
