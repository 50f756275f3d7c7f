// Package parser turns tokenized player input into Command values.
//
// The grammar is Infocom-style:
//
//	COMMAND := VERB [DIRECT-OBJ] [PREPOSITION INDIRECT-OBJ]
//
// Object phrases stay as free text; mapping them to object ids is the
// resolver's job. Games may extend the verb vocabulary with custom verbs,
// which parse by the same rules but read their arity and preposition set
// from the verb definition.
package parser

import (
	"fmt"
	"strings"

	"github.com/fable-works/fablecore/engine/lexer"
	"github.com/fable-works/fablecore/types"
)

// ParseError is a user-facing parse failure. Message is shown verbatim.
type ParseError struct {
	Message string
	Input   string
}

func (e *ParseError) Error() string { return e.Message }

func fail(input, format string, args ...any) (types.Command, error) {
	return types.Command{}, &ParseError{Message: fmt.Sprintf(format, args...), Input: input}
}

var verbAliases = map[string]types.Verb{
	"go":   types.VerbGo,
	"walk": types.VerbGo,
	"move": types.VerbGo,

	"take":  types.VerbTake,
	"get":   types.VerbTake,
	"grab":  types.VerbTake,
	"pick":  types.VerbTake, // "pick up" handled as a two-word verb
	"drop":  types.VerbDrop,
	"put":   types.VerbPut,
	"place": types.VerbPut,
	"give":  types.VerbGive,

	"examine": types.VerbExamine,
	"x":       types.VerbExamine,
	"inspect": types.VerbExamine,
	"look":    types.VerbLook, // "look at" handled as a two-word verb
	"l":       types.VerbLook,
	"read":    types.VerbRead,

	"open":   types.VerbOpen,
	"close":  types.VerbClose,
	"shut":   types.VerbClose,
	"lock":   types.VerbLock,
	"unlock": types.VerbUnlock,

	"use": types.VerbUse,

	"talk":    types.VerbTalk,
	"speak":   types.VerbTalk,
	"say":     types.VerbTalk,
	"show":    types.VerbShow,
	"present": types.VerbShow,
	"display": types.VerbShow,
	"sing":    types.VerbSing,
	"insert":  types.VerbInsert,

	"inventory": types.VerbInventory,
	"i":         types.VerbInventory,
	"inv":       types.VerbInventory,

	"quit":    types.VerbQuit,
	"q":       types.VerbQuit,
	"help":    types.VerbHelp,
	"?":       types.VerbHelp,
	"save":    types.VerbSave,
	"load":    types.VerbLoad,
	"restore": types.VerbLoad,
	"wait":    types.VerbWait,
	"z":       types.VerbWait,
}

// twoWordVerbs maps verb phrases that must be recognized before single-word
// aliases, keyed "first second".
var twoWordVerbs = map[string]types.Verb{
	"pick up":    types.VerbTake,
	"put down":   types.VerbDrop,
	"look at":    types.VerbExamine,
	"look in":    types.VerbExamine,
	"look under": types.VerbExamine,
	"turn on":    types.VerbUse,
	"turn off":   types.VerbUse,
	"switch on":  types.VerbUse,
	"switch off": types.VerbUse,
	"talk to":    types.VerbTalk,
	"speak to":   types.VerbTalk,
	"speak with": types.VerbTalk,
}

var directionWords = map[string]types.Verb{
	"north":   types.VerbNorth,
	"n":       types.VerbNorth,
	"south":   types.VerbSouth,
	"s":       types.VerbSouth,
	"east":    types.VerbEast,
	"e":       types.VerbEast,
	"west":    types.VerbWest,
	"w":       types.VerbWest,
	"up":      types.VerbUp,
	"u":       types.VerbUp,
	"down":    types.VerbDown,
	"d":       types.VerbDown,
	"in":      types.VerbIn,
	"enter":   types.VerbIn,
	"inside":  types.VerbIn,
	"out":     types.VerbOut,
	"outside": types.VerbOut,
	"exit":    types.VerbOut,
	"leave":   types.VerbOut,
}

var prepositionWords = map[string]types.Preposition{
	"in":      types.PrepIn,
	"into":    types.PrepIn,
	"inside":  types.PrepIn,
	"on":      types.PrepOn,
	"onto":    types.PrepOn,
	"upon":    types.PrepOn,
	"with":    types.PrepWith,
	"using":   types.PrepWith,
	"to":      types.PrepTo,
	"from":    types.PrepFrom,
	"at":      types.PrepAt,
	"under":   types.PrepUnder,
	"beneath": types.PrepUnder,
	"below":   types.PrepUnder,
}

// prepSurface is the canonical surface word per preposition, used in
// "<Preposition> what?" errors.
var prepSurface = map[types.Preposition]string{
	types.PrepIn:    "in",
	types.PrepOn:    "on",
	types.PrepWith:  "with",
	types.PrepTo:    "to",
	types.PrepFrom:  "from",
	types.PrepAt:    "at",
	types.PrepUnder: "under",
}

var requiresObject = map[types.Verb]bool{
	types.VerbTake:    true,
	types.VerbDrop:    true,
	types.VerbPut:     true,
	types.VerbGive:    true,
	types.VerbExamine: true,
	types.VerbRead:    true,
	types.VerbOpen:    true,
	types.VerbClose:   true,
	types.VerbLock:    true,
	types.VerbUnlock:  true,
	types.VerbUse:     true,
	types.VerbTalk:    true,
	types.VerbShow:    true,
	types.VerbInsert:  true,
}

var takesIndirect = map[types.Verb]bool{
	types.VerbPut:    true,
	types.VerbGive:   true,
	types.VerbLock:   true,
	types.VerbUnlock: true,
	types.VerbUse:    true,
	types.VerbShow:   true,
	types.VerbInsert: true,
}

// IsDirection reports whether the verb is one of the eight movement verbs.
func IsDirection(v types.Verb) bool {
	switch v {
	case types.VerbNorth, types.VerbSouth, types.VerbEast, types.VerbWest,
		types.VerbUp, types.VerbDown, types.VerbIn, types.VerbOut:
		return true
	}
	return false
}

// Parser parses player input against the built-in grammar plus any custom
// verbs the game defines.
type Parser struct {
	customVerbs   map[string]types.VerbDefinition // canonical lowercase name
	customAliases map[string]string               // alias -> canonical name
}

// New builds a parser for the given game. A nil game yields a parser with
// only the built-in vocabulary.
func New(game *types.Game) *Parser {
	p := &Parser{
		customVerbs:   make(map[string]types.VerbDefinition),
		customAliases: make(map[string]string),
	}
	if game == nil {
		return p
	}
	for _, def := range game.Verbs {
		name := strings.ToLower(def.Verb)
		p.customVerbs[name] = def
		for _, alias := range def.Aliases {
			p.customAliases[strings.ToLower(alias)] = name
		}
	}
	return p
}

// Parse converts one line of player input into a Command. Errors are always
// *ParseError values with player-facing messages.
func (p *Parser) Parse(text string) (types.Command, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return fail(raw, "I beg your pardon?")
	}

	tokens := lexer.Tokenize(raw)
	if len(tokens) == 0 {
		return fail(raw, "I beg your pardon?")
	}
	words := lexer.Words(tokens)
	if len(words) == 0 {
		return fail(raw, "I don't understand that.")
	}

	first := words[0]
	rest := words[1:]

	// Two-word verb phrases take priority over single-word aliases so
	// that "look at lamp" examines rather than redescribing the room.
	if len(rest) > 0 {
		if verb, ok := twoWordVerbs[first+" "+rest[0]]; ok {
			return p.parseWithVerb(verb, "", rest[1:], raw)
		}
	}
	if verb, ok := verbAliases[first]; ok {
		return p.parseWithVerb(verb, "", rest, raw)
	}
	if verb, ok := directionWords[first]; ok {
		// "enter shed" keeps the object so the engine can run the
		// shed's own enter action; a bare direction just moves.
		return types.Command{Verb: verb, DirectObject: strings.Join(rest, " "), RawInput: raw}, nil
	}
	if _, ok := p.customVerbs[first]; ok {
		return p.parseCustomVerb(first, rest, raw)
	}
	if canonical, ok := p.customAliases[first]; ok {
		return p.parseCustomVerb(canonical, rest, raw)
	}

	return fail(raw, "I don't know the word %q.", first)
}

func (p *Parser) parseWithVerb(verb types.Verb, customName string, rest []string, raw string) (types.Command, error) {
	if verb == types.VerbGo {
		if len(rest) == 0 {
			return fail(raw, "Go where?")
		}
		if dir, ok := directionWords[rest[0]]; ok {
			return types.Command{Verb: dir, RawInput: raw}, nil
		}
		return fail(raw, "I don't know how to go %q.", rest[0])
	}

	// Bare LOOK redescribes the room.
	if verb == types.VerbLook && len(rest) == 0 {
		return types.Command{Verb: types.VerbLook, RawInput: raw}, nil
	}

	if requiresObject[verb] && len(rest) == 0 {
		return fail(raw, "%s what?", upperFirst(string(verb)))
	}
	if len(rest) == 0 {
		return types.Command{Verb: verb, CustomVerb: customName, RawInput: raw}, nil
	}

	prepIndex := -1
	var prep types.Preposition
	if takesIndirect[verb] {
		for i, word := range rest {
			if pr, ok := prepositionWords[word]; ok {
				prepIndex = i
				prep = pr
				break
			}
		}
	}

	if prepIndex < 0 {
		return types.Command{
			Verb:         verb,
			DirectObject: strings.Join(rest, " "),
			CustomVerb:   customName,
			RawInput:     raw,
		}, nil
	}

	direct := rest[:prepIndex]
	indirect := rest[prepIndex+1:]
	if len(direct) == 0 {
		return fail(raw, "%s what?", upperFirst(string(verb)))
	}
	if len(indirect) == 0 {
		return fail(raw, "%s what?", upperFirst(prepSurface[prep]))
	}

	return types.Command{
		Verb:           verb,
		DirectObject:   strings.Join(direct, " "),
		Preposition:    prep,
		IndirectObject: strings.Join(indirect, " "),
		CustomVerb:     customName,
		RawInput:       raw,
	}, nil
}

func (p *Parser) parseCustomVerb(name string, rest []string, raw string) (types.Command, error) {
	def := p.customVerbs[name]

	if def.RequiresObject && len(rest) == 0 {
		return fail(raw, "%s what?", upperFirst(name))
	}
	if len(rest) == 0 {
		return types.Command{Verb: types.VerbCustom, CustomVerb: name, RawInput: raw}, nil
	}

	// The verb definition may restrict which prepositions split the
	// phrase; an empty list means the full global vocabulary.
	prepIndex := -1
	var prep types.Preposition
	if def.RequiresIndirect || len(def.Prepositions) > 0 {
		allowed := make(map[string]bool, len(def.Prepositions))
		for _, w := range def.Prepositions {
			allowed[strings.ToLower(w)] = true
		}
		for i, word := range rest {
			pr, known := prepositionWords[word]
			if !known {
				continue
			}
			if len(allowed) > 0 && !allowed[word] {
				continue
			}
			prepIndex = i
			prep = pr
			break
		}
	}

	if prepIndex < 0 {
		return types.Command{
			Verb:         types.VerbCustom,
			DirectObject: strings.Join(rest, " "),
			CustomVerb:   name,
			RawInput:     raw,
		}, nil
	}

	direct := rest[:prepIndex]
	indirect := rest[prepIndex+1:]
	if len(direct) == 0 && def.RequiresObject {
		return fail(raw, "%s what?", upperFirst(name))
	}
	if len(indirect) == 0 {
		return fail(raw, "%s what?", upperFirst(prepSurface[prep]))
	}

	return types.Command{
		Verb:           types.VerbCustom,
		DirectObject:   strings.Join(direct, " "),
		Preposition:    prep,
		IndirectObject: strings.Join(indirect, " "),
		CustomVerb:     name,
		RawInput:       raw,
	}, nil
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
