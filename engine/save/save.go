// Package save implements JSON serialization and deserialization of session
// state.
package save

import (
	"encoding/json"
	"time"

	"github.com/fable-works/fablecore/engine/state"
	"github.com/fable-works/fablecore/types"
)

// FormatVersion identifies the save layout; bump on incompatible change.
const FormatVersion = "1"

// SaveData is the JSON-serializable save format. The game title is recorded
// so a save can be matched back to its world file.
type SaveData struct {
	Version string       `json:"version"`
	Game    string       `json:"game"`
	SavedAt time.Time    `json:"saved_at"`
	State   *state.State `json:"state"`
}

// Save serializes session state to JSON bytes.
func Save(game *types.Game, s *state.State) ([]byte, error) {
	data := SaveData{
		Version: FormatVersion,
		Game:    game.Metadata.Title,
		SavedAt: time.Now().UTC(),
		State:   s,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.State == nil {
		sd.State = &state.State{}
	}
	// Ensure maps are never nil after load.
	s := sd.State
	if s.Inventory == nil {
		s.Inventory = []string{}
	}
	if s.Flags == nil {
		s.Flags = map[string]any{}
	}
	if s.Objects == nil {
		s.Objects = map[string]*state.ObjectState{}
	}
	if s.Rooms == nil {
		s.Rooms = map[string]*state.RoomState{}
	}
	return &sd, nil
}
