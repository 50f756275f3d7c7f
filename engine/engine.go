// Package engine executes player turns: parse, resolve, dispatch to a verb
// handler, apply effects, and evaluate the win condition. One Engine owns
// one session's state; turns are strictly sequential.
package engine

import (
	"sort"
	"strings"

	"github.com/fable-works/fablecore/engine/parser"
	"github.com/fable-works/fablecore/engine/resolve"
	"github.com/fable-works/fablecore/engine/state"
	"github.com/fable-works/fablecore/types"
)

// TurnResult is the outcome of processing one line of input.
type TurnResult struct {
	Message  string
	GameOver bool
	Won      bool
	Error    bool // the command failed; no state changed, no turn consumed
}

// Tracer observes the turn pipeline. All methods are called synchronously
// from ProcessInput; implementations must not block.
type Tracer interface {
	Input(raw string)
	Parsed(cmd types.Command)
	Resolved(rc resolve.ResolvedCommand)
	Result(res TurnResult, turns int)
}

// Engine is the authoritative holder of a game session.
type Engine struct {
	game     *types.Game
	state    *state.State
	parser   *parser.Parser
	resolver *resolve.Resolver
	tracer   Tracer
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithState starts the engine from an existing session state, for restoring
// saves.
func WithState(st *state.State) Option {
	return func(e *Engine) { e.state = st }
}

// WithTracer attaches a turn observer. A nil tracer is valid and disables
// tracing.
func WithTracer(tr Tracer) Option {
	return func(e *Engine) { e.tracer = tr }
}

// New creates an engine for a validated game definition.
func New(game *types.Game, opts ...Option) *Engine {
	e := &Engine{game: game, parser: parser.New(game)}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = state.New(game)
	}
	e.resolver = resolve.New(game, e.state)
	return e
}

// Game returns the immutable world definition.
func (e *Engine) Game() *types.Game { return e.game }

// State returns the live session state.
func (e *Engine) State() *state.State { return e.state }

// RestoreState replaces the session state, e.g. after loading a save.
func (e *Engine) RestoreState(st *state.State) {
	e.state = st
	e.resolver = resolve.New(e.game, st)
}

// ProcessInput runs one player turn and returns its result. Parse and
// resolution failures, rule violations, and meta-commands consume no turn;
// successful actions increment the turn counter and may end the game.
func (e *Engine) ProcessInput(input string) TurnResult {
	if e.tracer != nil {
		e.tracer.Input(input)
	}
	res := e.turn(input)
	if e.tracer != nil {
		e.tracer.Result(res, e.state.Turns)
	}
	return res
}

func (e *Engine) turn(input string) TurnResult {
	if e.state.GameOver {
		if e.state.Won {
			return TurnResult{Message: "The game is over. You won!", GameOver: true, Won: true}
		}
		msg := e.state.DeathMessage
		if msg == "" {
			msg = "The game is over."
		}
		return TurnResult{Message: msg, GameOver: true}
	}

	cmd, err := e.parser.Parse(input)
	if err != nil {
		return TurnResult{Message: err.Error(), Error: true}
	}
	if e.tracer != nil {
		e.tracer.Parsed(cmd)
	}

	switch cmd.Verb {
	case types.VerbQuit:
		e.state.EndGame(false, "")
		return TurnResult{Message: "Thanks for playing!", GameOver: true}
	case types.VerbHelp:
		return TurnResult{Message: helpText}
	case types.VerbSave:
		return TurnResult{Message: "Use the /save command to save your game."}
	case types.VerbLoad:
		return TurnResult{Message: "Use the /load command to restore a saved game."}
	case types.VerbInventory:
		return TurnResult{Message: e.describeInventory()}
	case types.VerbWait:
		e.state.Turns++
		return TurnResult{Message: "Time passes."}
	case types.VerbLook:
		if cmd.DirectObject == "" {
			return TurnResult{Message: e.DescribeCurrentRoom()}
		}
	}

	// ENTER <object> runs the object's custom "enter" action when one is
	// defined, so doors and vehicles can override plain movement.
	if cmd.Verb == types.VerbIn && cmd.DirectObject != "" {
		if res, handled := e.enterObject(cmd); handled {
			return res
		}
	}

	if parser.IsDirection(cmd.Verb) {
		res := e.move(string(cmd.Verb))
		if !res.Error {
			e.state.Turns++
			res = e.appendWin(res)
		}
		return res
	}

	rc, err := e.resolver.Resolve(cmd)
	if err != nil {
		return TurnResult{Message: err.Error(), Error: true}
	}
	if e.tracer != nil {
		e.tracer.Resolved(rc)
	}

	ar := e.execute(rc)
	res := TurnResult{Message: ar.message, Error: !ar.success}
	if ar.success {
		e.state.Turns++
		res = e.appendWin(res)
	}
	return res
}

// enterObject resolves the direct object of an ENTER command and runs its
// custom "enter" action if it has one. Returns handled=false when movement
// should proceed normally.
func (e *Engine) enterObject(cmd types.Command) (TurnResult, bool) {
	rc, err := e.resolver.Resolve(cmd)
	if err != nil {
		return TurnResult{}, false
	}
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return TurnResult{}, false
	}
	ar, found := e.runAction(obj, "enter", "", false)
	if !found {
		return TurnResult{}, false
	}
	res := TurnResult{Message: ar.message, Error: !ar.success}
	if ar.success {
		e.state.Turns++
		res = e.appendWin(res)
	}
	return res, true
}

func (e *Engine) move(direction string) TurnResult {
	room := e.game.Room(e.state.CurrentRoom)
	if room == nil {
		return TurnResult{Message: "You are nowhere.", Error: true}
	}

	exit, ok := room.Exits[direction]
	if !ok {
		return TurnResult{Message: "You can't go " + direction + " from here.", Error: true}
	}
	if exit.Locked {
		msg := exit.LockMessage
		if msg == "" {
			msg = "The way is locked."
		}
		return TurnResult{Message: msg, Error: true}
	}

	e.state.CurrentRoom = exit.Target
	return TurnResult{Message: e.DescribeCurrentRoom()}
}

// DescribeCurrentRoom renders the current room: name, description (with
// first-visit substitution), visible objects, and exits. It marks the room
// visited as a side effect.
func (e *Engine) DescribeCurrentRoom() string {
	room := e.game.Room(e.state.CurrentRoom)
	if room == nil {
		return "You are nowhere."
	}

	rs := e.state.Rooms[room.ID]
	firstVisit := rs != nil && !rs.Visited
	if rs != nil {
		rs.Visited = true
	}

	var lines []string
	lines = append(lines, "**"+room.Name+"**", "")
	if firstVisit && room.FirstVisit != "" {
		lines = append(lines, room.FirstVisit)
	} else {
		lines = append(lines, room.Description)
	}

	listed := e.state.ListedAt(e.game, room.ID)
	if len(listed) > 0 {
		lines = append(lines, "")
		for _, id := range listed {
			if obj := e.game.Object(id); obj != nil {
				lines = append(lines, "There is a "+obj.Name+" here.")
			}
		}
	}

	if exits := describeExits(room); exits != "" {
		lines = append(lines, "", exits)
	}
	return strings.Join(lines, "\n")
}

// directionOrder fixes the listing order of exits; map iteration would
// shuffle them between calls.
var directionOrder = map[string]int{
	"north": 0, "south": 1, "east": 2, "west": 3,
	"up": 4, "down": 5, "in": 6, "out": 7,
}

func describeExits(room *types.Room) string {
	var dirs []string
	for direction, exit := range room.Exits {
		if exit.Hidden {
			continue
		}
		dirs = append(dirs, direction)
	}
	if len(dirs) == 0 {
		return "There are no obvious exits."
	}
	sort.Slice(dirs, func(i, j int) bool {
		oi, iok := directionOrder[dirs[i]]
		oj, jok := directionOrder[dirs[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		}
		return dirs[i] < dirs[j]
	})
	if len(dirs) == 1 {
		return "There is an exit to the " + dirs[0] + "."
	}
	return "There are exits to the " + strings.Join(dirs[:len(dirs)-1], ", ") + " and " + dirs[len(dirs)-1] + "."
}

func (e *Engine) describeInventory() string {
	if len(e.state.Inventory) == 0 {
		return "You are empty-handed."
	}
	lines := []string{"You are carrying:"}
	for _, id := range e.state.Inventory {
		if obj := e.game.Object(id); obj != nil {
			lines = append(lines, "  - "+obj.Name)
		}
	}
	return strings.Join(lines, "\n")
}

// appendWin evaluates the win condition after a turn-consuming action and
// folds the win message into the result when the game is won.
func (e *Engine) appendWin(res TurnResult) TurnResult {
	if !e.evalWin(e.game.WinCondition) {
		return res
	}
	e.state.EndGame(true, "")
	msg := e.game.WinCondition.WinMessage
	if msg == "" {
		msg = "Congratulations! You have won!"
	}
	res.Message += "\n\n" + msg
	res.GameOver = true
	res.Won = true
	return res
}

func (e *Engine) evalWin(cond types.WinCondition) bool {
	switch cond.Type {
	case types.WinReachRoom:
		return e.state.CurrentRoom == cond.Room
	case types.WinHaveObject:
		return cond.Object != "" && e.state.InInventory(cond.Object)
	case types.WinFlagSet:
		return cond.Flag != "" && e.state.FlagSet(cond.Flag)
	case types.WinAllOf:
		if len(cond.Conditions) == 0 {
			return false
		}
		for _, sub := range cond.Conditions {
			if !e.evalWin(sub) {
				return false
			}
		}
		return true
	case types.WinAnyOf:
		for _, sub := range cond.Conditions {
			if e.evalWin(sub) {
				return true
			}
		}
		return false
	}
	return false
}

const helpText = `**Available Commands**

Movement:
  NORTH (N), SOUTH (S), EAST (E), WEST (W)
  UP (U), DOWN (D), IN, OUT

Objects:
  TAKE/GET <object> - Pick up an object
  DROP <object> - Drop an object
  EXAMINE/X <object> - Look at something closely
  OPEN/CLOSE <object> - Open or close something
  PUT <object> IN/ON <container> - Put something somewhere
  UNLOCK <door> WITH <key> - Unlock something
  TALK TO <character> - Strike up a conversation

Information:
  LOOK (L) - Describe your surroundings
  INVENTORY (I) - List what you're carrying
  HELP - Show this message

Game:
  QUIT (Q) - End the game
  SAVE / LOAD - Save or restore your progress`
