package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fable-works/fablecore/types"
)

const doorJSON = `{
  "metadata": {"title": "The Checkpoint", "author": "tester"},
  "rooms": [
    {
      "id": "start",
      "name": "Checkpoint",
      "description": "A guarded checkpoint.",
      "exits": {"north": {"target": "secret_room", "locked": true, "lock_message": "The door bars your way."}}
    },
    {
      "id": "secret_room",
      "name": "Secret Room",
      "description": "You made it.",
      "exits": {"south": "start"}
    }
  ],
  "objects": [
    {
      "id": "guard",
      "name": "guard",
      "description": "A bored guard.",
      "scenery": true,
      "location": "start",
      "actions": {
        "talk": {
          "message": "\"The code is 4-2-7.\"",
          "state_changes": {"flags.has_code": true}
        },
        "show:badge": "The guard waves you through."
      }
    },
    {
      "id": "badge",
      "name": "badge",
      "description": "A laminated badge.",
      "location": "start"
    },
    {
      "id": "box",
      "name": "box",
      "description": "A supply box.",
      "container": true,
      "location": "start",
      "contains": ["ration"]
    },
    {
      "id": "ration",
      "name": "ration",
      "description": "An old ration bar."
    }
  ],
  "verbs": [
    {"verb": "salute", "aliases": ["greet"], "default_message": "Nobody salutes back."}
  ],
  "initial_state": {"current_room": "start", "inventory": ["badge"]},
  "win_condition": {"type": "reach_room", "room": "secret_room", "win_message": "You slipped past."}
}`

func TestLoadJSON(t *testing.T) {
	game, err := LoadJSON([]byte(doorJSON))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}

	if game.Metadata.Title != "The Checkpoint" {
		t.Errorf("title = %q", game.Metadata.Title)
	}
	if len(game.Rooms) != 2 || len(game.Objects) != 4 {
		t.Fatalf("rooms=%d objects=%d", len(game.Rooms), len(game.Objects))
	}

	// String exit is normalized to a full exit record.
	secret := game.Room("secret_room")
	if exit := secret.Exits["south"]; exit.Target != "start" || exit.Locked {
		t.Errorf("south exit = %+v", exit)
	}
	start := game.Room("start")
	if exit := start.Exits["north"]; !exit.Locked || exit.LockMessage != "The door bars your way." {
		t.Errorf("north exit = %+v", exit)
	}

	guard := game.Object("guard")
	if guard.Takeable {
		t.Error("scenery object should default to not takeable")
	}
	talk, ok := guard.Actions[types.ActionKey{Verb: "talk"}]
	if !ok || talk.Rule == nil {
		t.Fatalf("talk action = %+v", talk)
	}
	if talk.Rule.StateChanges["flags.has_code"] != true {
		t.Errorf("state changes = %v", talk.Rule.StateChanges)
	}
	show, ok := guard.Actions[types.ActionKey{Verb: "show", Target: "badge"}]
	if !ok || show.Rule != nil || show.Literal != "The guard waves you through." {
		t.Fatalf("show:badge action = %+v", show)
	}

	badge := game.Object("badge")
	if !badge.Takeable || !badge.Droppable {
		t.Error("takeable/droppable should default true")
	}

	box := game.Object("box")
	if !box.Openable {
		t.Error("containers are implicitly openable")
	}
	// Contents without a location land inside their container.
	if ration := game.Object("ration"); ration.Location != "box" {
		t.Errorf("ration location = %q", ration.Location)
	}

	if len(game.Verbs) != 1 || game.Verbs[0].Verb != "salute" {
		t.Errorf("verbs = %+v", game.Verbs)
	}
	if game.WinCondition.Type != types.WinReachRoom || game.WinCondition.Room != "secret_room" {
		t.Errorf("win = %+v", game.WinCondition)
	}
}

const smallYAML = `
metadata:
  title: Cellar Run
rooms:
  - id: cellar
    name: Cellar
    description: A damp cellar.
    exits:
      up: stairs
  - id: stairs
    name: Stairs
    description: Creaky stairs.
    exits:
      down:
        target: cellar
objects:
  - id: lamp
    name: lamp
    description: A brass lamp.
    location: cellar
    actions:
      rub: "The lamp stays stubbornly lamp-shaped."
initial_state:
  current_room: cellar
win_condition:
  type: have_object
  object: lamp
`

func TestLoadYAML(t *testing.T) {
	game, err := LoadYAML([]byte(smallYAML))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if game.Room("cellar").Exits["up"].Target != "stairs" {
		t.Errorf("up exit = %+v", game.Room("cellar").Exits["up"])
	}
	lamp := game.Object("lamp")
	rub := lamp.Actions[types.ActionKey{Verb: "rub"}]
	if rub.Literal == "" || rub.Rule != nil {
		t.Errorf("rub action = %+v", rub)
	}
	if game.WinCondition.Object != "lamp" {
		t.Errorf("win = %+v", game.WinCondition)
	}
}

func TestValidationErrors(t *testing.T) {
	const broken = `{
  "metadata": {"title": "Broken"},
  "rooms": [
    {"id": "start", "name": "Start", "description": "x", "exits": {"north": "missing_room"}}
  ],
  "objects": [
    {"id": "scroll", "name": "scroll", "description": "x", "location": "start", "readable": true},
    {"id": "scroll", "name": "scroll", "description": "x", "location": "limbo"}
  ],
  "initial_state": {"current_room": "nowhere_room"},
  "win_condition": {"type": "reach_room", "room": "missing_room"}
}`

	_, err := LoadJSON([]byte(broken))
	if err == nil {
		t.Fatal("expected validation failure")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type %T: %v", err, err)
	}

	joined := strings.Join(ve.Errors, "\n")
	for _, want := range []string{
		`undefined room "missing_room"`,
		`duplicate object id "scroll"`,
		`starting room "nowhere_room" does not exist`,
		`invalid location "limbo"`,
		`readable but has no read_text`,
		`win condition references unknown room "missing_room"`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing error %q in:\n%s", want, joined)
		}
	}
}

func TestRoomObjectListValidation(t *testing.T) {
	const ghostly = `{
  "metadata": {"title": "Ghostly"},
  "rooms": [
    {"id": "start", "name": "Start", "description": "x", "objects": ["ghost"]}
  ],
  "objects": [],
  "initial_state": {"current_room": "start"}
}`

	_, err := LoadJSON([]byte(ghostly))
	if err == nil {
		t.Fatal("expected validation failure for unknown object in room list")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type %T: %v", err, err)
	}
	joined := strings.Join(ve.Errors, "\n")
	if !strings.Contains(joined, `room "start" lists unknown object "ghost"`) {
		t.Errorf("missing room object list error in:\n%s", joined)
	}
}

const luaWorld = `
Game {
  title = "Tower Climb",
  author = "tester",
  start = "base",
  inventory = {"rope"},
  flags = {warned = false},
}

Room "base" {
  name = "Tower Base",
  description = "The tower looms above.",
  exits = {
    up = {target = "summit", locked = true, lock_message = "The trapdoor is bolted."},
  },
}

Room "summit" {
  name = "Summit",
  description = "Wind howls around you.",
  exits = {down = "base"},
}

Object "rope" {
  name = "rope",
  description = "A coil of rope.",
}

Object "trapdoor" {
  name = "trapdoor",
  description = "A heavy trapdoor.",
  location = "base",
  scenery = true,
  actions = {
    knock = "A hollow boom echoes above.",
    open = {
      message = "The trapdoor creaks open.",
      condition = "flags.warned",
      fail_message = "It will not budge.",
      state_changes = {["trapdoor.is_open"] = true},
    },
  },
}

Verb "knock" {
  requires_object = true,
  default_message = "You rap your knuckles on it.",
}

Win {
  type = "reach_room",
  room = "summit",
  win_message = "You reach the summit.",
}
`

func TestLoadLua(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.lua")
	if err := os.WriteFile(path, []byte(luaWorld), 0o644); err != nil {
		t.Fatal(err)
	}

	game, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if game.Metadata.Title != "Tower Climb" {
		t.Errorf("title = %q", game.Metadata.Title)
	}
	if game.Initial.CurrentRoom != "base" || len(game.Initial.Inventory) != 1 {
		t.Errorf("initial = %+v", game.Initial)
	}

	base := game.Room("base")
	if exit := base.Exits["up"]; !exit.Locked || exit.LockMessage != "The trapdoor is bolted." {
		t.Errorf("up exit = %+v", exit)
	}

	trapdoor := game.Object("trapdoor")
	if trapdoor.Takeable {
		t.Error("scenery should not be takeable")
	}
	open := trapdoor.Actions[types.ActionKey{Verb: "open"}]
	if open.Rule == nil || open.Rule.Condition != "flags.warned" {
		t.Fatalf("open action = %+v", open)
	}
	if open.Rule.StateChanges["trapdoor.is_open"] != true {
		t.Errorf("state changes = %v", open.Rule.StateChanges)
	}
	if knock := trapdoor.Actions[types.ActionKey{Verb: "knock"}]; knock.Literal == "" {
		t.Errorf("knock action = %+v", knock)
	}

	if len(game.Verbs) != 1 || !game.Verbs[0].RequiresObject {
		t.Errorf("verbs = %+v", game.Verbs)
	}
}

func TestLoadDirDispatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "game.lua"), []byte(luaWorld), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err != nil {
		t.Fatalf("Load(dir): %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported game file") {
		t.Fatalf("err = %v", err)
	}
}
