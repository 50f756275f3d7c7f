// Package types defines the shared data structures for the FableCore engine.
// It holds the static world definition and parsed-command shapes, plus id
// lookups. No game logic lives here.
package types

// Verb identifies an action the engine knows how to dispatch. Game-defined
// verbs all map to VerbCustom and carry their canonical name separately on
// the Command.
type Verb string

const (
	// Movement
	VerbGo    Verb = "go"
	VerbNorth Verb = "north"
	VerbSouth Verb = "south"
	VerbEast  Verb = "east"
	VerbWest  Verb = "west"
	VerbUp    Verb = "up"
	VerbDown  Verb = "down"
	VerbIn    Verb = "in"
	VerbOut   Verb = "out"

	// Object manipulation
	VerbTake Verb = "take"
	VerbDrop Verb = "drop"
	VerbPut  Verb = "put"
	VerbGive Verb = "give"

	// Examination
	VerbExamine Verb = "examine"
	VerbRead    Verb = "read"

	// Containers and locks
	VerbOpen   Verb = "open"
	VerbClose  Verb = "close"
	VerbLock   Verb = "lock"
	VerbUnlock Verb = "unlock"

	// Tool use and interaction
	VerbUse    Verb = "use"
	VerbTalk   Verb = "talk"
	VerbShow   Verb = "show"
	VerbSing   Verb = "sing"
	VerbInsert Verb = "insert"

	// Session
	VerbInventory Verb = "inventory"
	VerbLook      Verb = "look"
	VerbQuit      Verb = "quit"
	VerbHelp      Verb = "help"
	VerbSave      Verb = "save"
	VerbLoad      Verb = "load"
	VerbWait      Verb = "wait"

	// Placeholder for game-defined verbs
	VerbCustom Verb = "custom"
)

// Preposition connects a direct object to an indirect object.
type Preposition string

const (
	PrepIn    Preposition = "in"
	PrepOn    Preposition = "on"
	PrepWith  Preposition = "with"
	PrepTo    Preposition = "to"
	PrepFrom  Preposition = "from"
	PrepAt    Preposition = "at"
	PrepUnder Preposition = "under"
)

// Command is a fully parsed player input. Object phrases are free text at
// this stage; resolving them to ids is the resolver's job.
type Command struct {
	Verb           Verb
	DirectObject   string // noun phrase, e.g. "brass key"
	Preposition    Preposition
	IndirectObject string
	RawInput       string
	CustomVerb     string // canonical name when Verb == VerbCustom
}

// Metadata describes the game itself.
type Metadata struct {
	Title       string
	Author      string
	Version     string
	Description string
}

// Exit leads from a room to another. Simple exits only carry a target;
// locked exits refuse passage with LockMessage until unlocked.
type Exit struct {
	Target       string
	Locked       bool
	LockMessage  string
	UnlockObject string // object id that can unlock this exit
	Hidden       bool
}

// Room is a location in the game world.
type Room struct {
	ID          string
	Name        string
	Description string
	// FirstVisit is shown instead of Description the first time the
	// player sees the room. Empty means no special first-visit text.
	FirstVisit string
	Exits      map[string]Exit // direction -> exit
}

// ActionKey addresses one entry in an object's custom-action table.
// Target is empty for plain verb keys ("open") and holds an object id for
// target-qualified keys ("give" to a specific recipient).
type ActionKey struct {
	Verb   string
	Target string
}

// ActionRule is a condition-gated custom action. Condition and StateChanges
// use the small expression language interpreted by engine/rules.
type ActionRule struct {
	Message        string
	Condition      string
	FailMessage    string
	StateChanges   map[string]any
	ConsumesObject bool
	RevealsObject  string
	MovesPlayer    string
}

// Action is either a bare narrative string that always succeeds, or a rule.
// Exactly one of the two fields is set.
type Action struct {
	Literal string
	Rule    *ActionRule
}

// GameObject is an interactive object in the game world.
type GameObject struct {
	ID          string
	Name        string
	Adjectives  []string
	Description string
	ExamineText string // shown on EXAMINE; falls back to Description
	Location    string // room id, "inventory", "nowhere", or a container id

	Takeable  bool
	Droppable bool
	Readable  bool
	ReadText  string
	Openable  bool
	IsOpen    bool
	Container bool
	Contains  []string
	Lockable  bool
	Locked    bool
	KeyObject string // object id that locks/unlocks this
	Scenery   bool   // described as part of the room, never takeable
	Hidden    bool   // invisible until revealed

	Actions map[ActionKey]Action
}

// VerbDefinition declares a game-defined verb beyond the built-in set.
type VerbDefinition struct {
	Verb             string
	Aliases          []string
	RequiresObject   bool
	RequiresIndirect bool
	// Prepositions limits which prepositions the verb accepts. Empty
	// means the full global preposition vocabulary.
	Prepositions   []string
	DefaultMessage string
}

// Win condition types.
const (
	WinReachRoom  = "reach_room"
	WinHaveObject = "have_object"
	WinFlagSet    = "flag_set"
	WinAllOf      = "all_of"
	WinAnyOf      = "any_of"
)

// WinCondition is a recursive predicate tree over the world state. AllOf
// and AnyOf nodes carry children; the leaf types test one fact each.
type WinCondition struct {
	Type       string
	Room       string
	Object     string
	Flag       string
	Conditions []WinCondition
	WinMessage string
}

// InitialState seeds a fresh session.
type InitialState struct {
	CurrentRoom string
	Inventory   []string
	Flags       map[string]any
}

// Game is a complete, validated world definition. It is loaded once and
// never mutated; all runtime change lives in the session state.
type Game struct {
	Metadata     Metadata
	Rooms        []Room
	Objects      []GameObject
	Verbs        []VerbDefinition
	Initial      InitialState
	WinCondition WinCondition
}

// Room returns the room with the given id, or nil.
func (g *Game) Room(id string) *Room {
	for i := range g.Rooms {
		if g.Rooms[i].ID == id {
			return &g.Rooms[i]
		}
	}
	return nil
}

// Object returns the object with the given id, or nil.
func (g *Game) Object(id string) *GameObject {
	for i := range g.Objects {
		if g.Objects[i].ID == id {
			return &g.Objects[i]
		}
	}
	return nil
}
