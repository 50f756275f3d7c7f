package loader

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fable-works/fablecore/types"
)

// The raw model mirrors the on-disk game format. Exits and actions accept
// either a bare string or a full record, so the raw types carry custom
// unmarshalers and build() performs the normalization into types.Game.

type rawGame struct {
	Metadata     rawMetadata `json:"metadata" yaml:"metadata"`
	Rooms        []rawRoom   `json:"rooms" yaml:"rooms"`
	Objects      []rawObject `json:"objects" yaml:"objects"`
	Verbs        []rawVerb   `json:"verbs" yaml:"verbs"`
	InitialState rawInitial  `json:"initial_state" yaml:"initial_state"`
	WinCondition *rawWin     `json:"win_condition" yaml:"win_condition"`
}

type rawMetadata struct {
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

type rawRoom struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	FirstVisit  string             `json:"first_visit_description" yaml:"first_visit_description"`
	Exits       map[string]rawExit `json:"exits" yaml:"exits"`
	Objects     []string           `json:"objects" yaml:"objects"`
}

type rawExit struct {
	Target       string `json:"target" yaml:"target"`
	Locked       bool   `json:"locked" yaml:"locked"`
	LockMessage  string `json:"lock_message" yaml:"lock_message"`
	UnlockObject string `json:"unlock_object" yaml:"unlock_object"`
	Hidden       bool   `json:"hidden" yaml:"hidden"`
}

// UnmarshalJSON accepts either "room_id" or a full exit record.
func (e *rawExit) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Target)
	}
	type plain rawExit
	return json.Unmarshal(data, (*plain)(e))
}

func (e *rawExit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&e.Target)
	}
	type plain rawExit
	return value.Decode((*plain)(e))
}

type rawObject struct {
	ID          string               `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	Adjectives  []string             `json:"adjectives" yaml:"adjectives"`
	Description string               `json:"description" yaml:"description"`
	ExamineText string               `json:"examine_text" yaml:"examine_text"`
	Location    string               `json:"location" yaml:"location"`
	Takeable    *bool                `json:"takeable" yaml:"takeable"`
	Droppable   *bool                `json:"droppable" yaml:"droppable"`
	Readable    bool                 `json:"readable" yaml:"readable"`
	ReadText    string               `json:"read_text" yaml:"read_text"`
	Openable    bool                 `json:"openable" yaml:"openable"`
	IsOpen      bool                 `json:"is_open" yaml:"is_open"`
	Container   bool                 `json:"container" yaml:"container"`
	Contains    []string             `json:"contains" yaml:"contains"`
	Lockable    bool                 `json:"lockable" yaml:"lockable"`
	Locked      bool                 `json:"locked" yaml:"locked"`
	KeyObject   string               `json:"key_object" yaml:"key_object"`
	Scenery     bool                 `json:"scenery" yaml:"scenery"`
	Hidden      bool                 `json:"hidden" yaml:"hidden"`
	Actions     map[string]rawAction `json:"actions" yaml:"actions"`
}

type rawAction struct {
	Message        string         `json:"message" yaml:"message"`
	Condition      string         `json:"condition" yaml:"condition"`
	FailMessage    string         `json:"fail_message" yaml:"fail_message"`
	StateChanges   map[string]any `json:"state_changes" yaml:"state_changes"`
	ConsumesObject bool           `json:"consumes_object" yaml:"consumes_object"`
	RevealsObject  string         `json:"reveals_object" yaml:"reveals_object"`
	MovesPlayer    string         `json:"moves_player" yaml:"moves_player"`

	literal   string
	isLiteral bool
}

// UnmarshalJSON accepts either a bare narrative string or a full action
// record.
func (a *rawAction) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		a.isLiteral = true
		return json.Unmarshal(data, &a.literal)
	}
	type plain rawAction
	return json.Unmarshal(data, (*plain)(a))
}

func (a *rawAction) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.isLiteral = true
		return value.Decode(&a.literal)
	}
	type plain rawAction
	return value.Decode((*plain)(a))
}

type rawVerb struct {
	Verb             string   `json:"verb" yaml:"verb"`
	Aliases          []string `json:"aliases" yaml:"aliases"`
	RequiresObject   bool     `json:"requires_object" yaml:"requires_object"`
	RequiresIndirect bool     `json:"requires_indirect" yaml:"requires_indirect"`
	Prepositions     []string `json:"prepositions" yaml:"prepositions"`
	DefaultMessage   string   `json:"default_message" yaml:"default_message"`
}

type rawWin struct {
	Type       string   `json:"type" yaml:"type"`
	Room       string   `json:"room" yaml:"room"`
	Object     string   `json:"object" yaml:"object"`
	Flag       string   `json:"flag" yaml:"flag"`
	Conditions []rawWin `json:"conditions" yaml:"conditions"`
	WinMessage string   `json:"win_message" yaml:"win_message"`
}

type rawInitial struct {
	CurrentRoom string         `json:"current_room" yaml:"current_room"`
	Inventory   []string       `json:"inventory" yaml:"inventory"`
	Flags       map[string]any `json:"flags" yaml:"flags"`
}

// build converts the raw model into a types.Game, applying the format's
// defaulting rules: takeable and droppable default true, scenery objects
// default to not takeable, containers are implicitly openable, locked
// objects implicitly lockable, and room object lists and container
// contents backfill object locations.
func build(raw *rawGame) *types.Game {
	game := &types.Game{
		Metadata: types.Metadata{
			Title:       raw.Metadata.Title,
			Author:      raw.Metadata.Author,
			Version:     raw.Metadata.Version,
			Description: raw.Metadata.Description,
		},
		Initial: types.InitialState{
			CurrentRoom: raw.InitialState.CurrentRoom,
			Inventory:   raw.InitialState.Inventory,
			Flags:       raw.InitialState.Flags,
		},
	}

	// Room object lists and container contents assign locations for
	// objects that don't declare their own.
	placement := map[string]string{}
	for _, room := range raw.Rooms {
		for _, id := range room.Objects {
			placement[id] = room.ID
		}
	}
	for _, obj := range raw.Objects {
		for _, id := range obj.Contains {
			placement[id] = obj.ID
		}
	}

	for _, rr := range raw.Rooms {
		room := types.Room{
			ID:          rr.ID,
			Name:        rr.Name,
			Description: rr.Description,
			FirstVisit:  rr.FirstVisit,
			Exits:       map[string]types.Exit{},
		}
		for dir, re := range rr.Exits {
			msg := re.LockMessage
			if re.Locked && msg == "" {
				msg = "The way is locked."
			}
			room.Exits[dir] = types.Exit{
				Target:       re.Target,
				Locked:       re.Locked,
				LockMessage:  msg,
				UnlockObject: re.UnlockObject,
				Hidden:       re.Hidden,
			}
		}
		game.Rooms = append(game.Rooms, room)
	}

	for _, ro := range raw.Objects {
		obj := types.GameObject{
			ID:          ro.ID,
			Name:        ro.Name,
			Adjectives:  ro.Adjectives,
			Description: ro.Description,
			ExamineText: ro.ExamineText,
			Location:    ro.Location,
			Takeable:    boolDefault(ro.Takeable, !ro.Scenery),
			Droppable:   boolDefault(ro.Droppable, true),
			Readable:    ro.Readable,
			ReadText:    ro.ReadText,
			Openable:    ro.Openable || ro.Container,
			IsOpen:      ro.IsOpen,
			Container:   ro.Container,
			Contains:    ro.Contains,
			Lockable:    ro.Lockable || ro.Locked,
			Locked:      ro.Locked,
			KeyObject:   ro.KeyObject,
			Scenery:     ro.Scenery,
			Hidden:      ro.Hidden,
		}
		if obj.Location == "" {
			if loc, ok := placement[ro.ID]; ok {
				obj.Location = loc
			} else {
				obj.Location = "nowhere"
			}
		}
		if len(ro.Actions) > 0 {
			obj.Actions = map[types.ActionKey]types.Action{}
			for key, ra := range ro.Actions {
				obj.Actions[actionKey(key)] = buildAction(ra)
			}
		}
		game.Objects = append(game.Objects, obj)
	}

	for _, rv := range raw.Verbs {
		game.Verbs = append(game.Verbs, types.VerbDefinition{
			Verb:             rv.Verb,
			Aliases:          rv.Aliases,
			RequiresObject:   rv.RequiresObject,
			RequiresIndirect: rv.RequiresIndirect,
			Prepositions:     rv.Prepositions,
			DefaultMessage:   rv.DefaultMessage,
		})
	}

	if raw.WinCondition != nil {
		game.WinCondition = buildWin(*raw.WinCondition)
	}
	return game
}

// actionKey splits a "verb" or "verb:target" key at the first colon.
func actionKey(key string) types.ActionKey {
	verb, target, _ := strings.Cut(key, ":")
	return types.ActionKey{Verb: verb, Target: target}
}

func buildAction(ra rawAction) types.Action {
	if ra.isLiteral {
		return types.Action{Literal: ra.literal}
	}
	return types.Action{Rule: &types.ActionRule{
		Message:        ra.Message,
		Condition:      ra.Condition,
		FailMessage:    ra.FailMessage,
		StateChanges:   ra.StateChanges,
		ConsumesObject: ra.ConsumesObject,
		RevealsObject:  ra.RevealsObject,
		MovesPlayer:    ra.MovesPlayer,
	}}
}

func buildWin(rw rawWin) types.WinCondition {
	win := types.WinCondition{
		Type:       rw.Type,
		Room:       rw.Room,
		Object:     rw.Object,
		Flag:       rw.Flag,
		WinMessage: rw.WinMessage,
	}
	for _, sub := range rw.Conditions {
		win.Conditions = append(win.Conditions, buildWin(sub))
	}
	return win
}

func boolDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
