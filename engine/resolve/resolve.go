// Package resolve maps free-text object phrases in parsed commands to
// concrete object ids, applying visibility and disambiguation rules.
package resolve

import (
	"strings"

	"github.com/fable-works/fablecore/engine/state"
	"github.com/fable-works/fablecore/types"
)

// ResolvedCommand is a Command whose object phrases have been replaced by
// object ids.
type ResolvedCommand struct {
	Verb             types.Verb
	DirectObjectID   string
	Preposition      types.Preposition
	IndirectObjectID string
	RawInput         string
	CustomVerb       string
}

// NotFoundError means no visible object matched the phrase.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return "You can't see any " + e.Ref + " here."
}

// NotCarriedError is the inventory-scoped variant of NotFoundError.
type NotCarriedError struct {
	Ref string
}

func (e *NotCarriedError) Error() string {
	return "You're not carrying any " + e.Ref + "."
}

// AmbiguityError means more than one visible object matched. Names carries
// the display names of every tied candidate.
type AmbiguityError struct {
	Ref   string
	Names []string
}

func (e *AmbiguityError) Error() string {
	return "Which " + e.Ref + " do you mean?"
}

// Scope restricts where a context-scoped resolution looks.
type Scope int

const (
	Anywhere Scope = iota
	RoomOnly
	InventoryOnly
)

// Resolver resolves references against one game and session.
type Resolver struct {
	game  *types.Game
	state *state.State
}

// New builds a resolver. The state pointer is shared with the engine; the
// visibility set is recomputed on every call, never cached.
func New(game *types.Game, st *state.State) *Resolver {
	return &Resolver{game: game, state: st}
}

// Visible returns every object the player can currently refer to: objects
// in the current room or inventory, plus the contents of open containers
// located in either, minus anything hidden.
func (r *Resolver) Visible() []*types.GameObject {
	var visible []*types.GameObject
	room := r.state.CurrentRoom

	for i := range r.game.Objects {
		obj := &r.game.Objects[i]
		os, ok := r.state.Objects[obj.ID]
		if !ok || os.Hidden {
			continue
		}

		loc := os.Location
		if loc == room || loc == state.LocInventory {
			visible = append(visible, obj)
			continue
		}

		// Inside an open container that is itself in reach.
		container := r.state.Objects[loc]
		if container == nil || !container.IsOpen {
			continue
		}
		if container.Location == room || container.Location == state.LocInventory {
			visible = append(visible, obj)
		}
	}
	return visible
}

// Match finds the objects a phrase refers to, in strict priority order:
// exact id, exact name, adjective-scored name, then a single-word substring
// fallback. The first rule producing any match wins.
func (r *Resolver) Match(ref string, objects []*types.GameObject) []*types.GameObject {
	ref = strings.ToLower(strings.TrimSpace(ref))
	words := strings.Fields(ref)
	if len(words) == 0 {
		return nil
	}

	asID := strings.ReplaceAll(ref, " ", "_")
	for _, obj := range objects {
		if obj.ID == asID {
			return []*types.GameObject{obj}
		}
	}

	var exact []*types.GameObject
	for _, obj := range objects {
		if strings.ToLower(obj.Name) == ref {
			exact = append(exact, obj)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	// Adjective scoring: try every split of the phrase into leading
	// adjectives plus a trailing noun. All supplied adjectives must be in
	// the object's adjective set; more adjectives means a more specific,
	// higher-scoring match.
	best := -1
	var scored []*types.GameObject
	for _, obj := range objects {
		score := scoreMatch(obj, words)
		if score < 0 {
			continue
		}
		switch {
		case score > best:
			best = score
			scored = []*types.GameObject{obj}
		case score == best:
			scored = append(scored, obj)
		}
	}
	if len(scored) > 0 {
		return scored
	}

	if len(words) == 1 {
		var partial []*types.GameObject
		for _, obj := range objects {
			name := strings.ToLower(obj.Name)
			if strings.Contains(name, words[0]) || strings.Contains(words[0], name) {
				partial = append(partial, obj)
			}
		}
		return partial
	}
	return nil
}

func scoreMatch(obj *types.GameObject, words []string) int {
	name := strings.ToLower(obj.Name)
	adjectives := make(map[string]bool, len(obj.Adjectives))
	for _, a := range obj.Adjectives {
		adjectives[strings.ToLower(a)] = true
	}

	best := -1
	for split := 0; split < len(words); split++ {
		noun := strings.Join(words[split:], " ")
		if noun != name {
			continue
		}
		ok := true
		for _, adj := range words[:split] {
			if !adjectives[adj] {
				ok = false
				break
			}
		}
		if ok && split > best {
			best = split
		}
	}
	return best
}

// Resolve maps a command's object phrases to ids. The direct phrase is
// resolved before the indirect one and the first failure wins.
func (r *Resolver) Resolve(cmd types.Command) (ResolvedCommand, error) {
	visible := r.Visible()
	rc := ResolvedCommand{
		Verb:        cmd.Verb,
		Preposition: cmd.Preposition,
		RawInput:    cmd.RawInput,
		CustomVerb:  cmd.CustomVerb,
	}

	if cmd.DirectObject != "" {
		id, err := r.resolveOne(cmd.DirectObject, visible)
		if err != nil {
			return ResolvedCommand{}, err
		}
		rc.DirectObjectID = id
	}
	if cmd.IndirectObject != "" {
		id, err := r.resolveOne(cmd.IndirectObject, visible)
		if err != nil {
			return ResolvedCommand{}, err
		}
		rc.IndirectObjectID = id
	}
	return rc, nil
}

func (r *Resolver) resolveOne(ref string, visible []*types.GameObject) (string, error) {
	matches := r.Match(ref, visible)
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Ref: ref}
	case 1:
		return matches[0].ID, nil
	}
	names := make([]string, len(matches))
	for i, obj := range matches {
		names[i] = obj.Name
	}
	return "", &AmbiguityError{Ref: ref, Names: names}
}

// ResolveScoped resolves one phrase inside a narrowed visibility set, for
// call sites that want inventory-specific error phrasing.
func (r *Resolver) ResolveScoped(ref string, scope Scope) (string, error) {
	visible := r.Visible()
	switch scope {
	case RoomOnly:
		visible = r.filterByLocation(visible, r.state.CurrentRoom)
	case InventoryOnly:
		visible = r.filterByLocation(visible, state.LocInventory)
	}

	matches := r.Match(ref, visible)
	switch len(matches) {
	case 0:
		if scope == InventoryOnly {
			return "", &NotCarriedError{Ref: ref}
		}
		return "", &NotFoundError{Ref: ref}
	case 1:
		return matches[0].ID, nil
	}
	names := make([]string, len(matches))
	for i, obj := range matches {
		names[i] = obj.Name
	}
	return "", &AmbiguityError{Ref: ref, Names: names}
}

func (r *Resolver) filterByLocation(objects []*types.GameObject, location string) []*types.GameObject {
	var out []*types.GameObject
	for _, obj := range objects {
		if r.state.ObjectLocation(obj.ID) == location {
			out = append(out, obj)
		}
	}
	return out
}
