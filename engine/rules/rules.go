// Package rules interprets the condition/effect mini-language used by
// custom object actions: boolean expressions over flags, inventory, and
// object attributes, plus the state-change mappings that actions apply.
package rules

import (
	"strings"

	"github.com/fable-works/fablecore/engine/state"
	"github.com/fable-works/fablecore/types"
)

// Eval evaluates a condition expression against the session state.
// Precedence is lexical: the expression splits on " && " before " || ",
// then a leading "!" negates, then the predicate forms apply:
//
//	inventory.includes('id')   inventory membership
//	flags.name                 flag truthiness
//	object.attribute           runtime attribute truthiness
//	name                       bare flag truthiness
//
// Unknown objects and attributes evaluate false. Conditions are always
// evaluated fresh; nothing is cached.
func Eval(expr string, st *state.State) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}

	if parts := strings.Split(expr, " && "); len(parts) > 1 {
		for _, part := range parts {
			if !Eval(part, st) {
				return false
			}
		}
		return true
	}
	if parts := strings.Split(expr, " || "); len(parts) > 1 {
		for _, part := range parts {
			if Eval(part, st) {
				return true
			}
		}
		return false
	}
	if strings.HasPrefix(expr, "!") {
		return !Eval(expr[1:], st)
	}
	if id, ok := inventoryRef(expr); ok {
		return st.InInventory(id)
	}
	if flag, ok := strings.CutPrefix(expr, "flags."); ok {
		return st.FlagSet(flag)
	}
	if objID, attr, ok := strings.Cut(expr, "."); ok {
		v, found := st.Attr(objID, attr)
		return found && state.Truthy(v)
	}
	return st.FlagSet(expr)
}

// inventoryRef extracts the id from inventory.includes('id') or
// inventory.includes("id").
func inventoryRef(expr string) (string, bool) {
	arg, ok := strings.CutPrefix(expr, "inventory.includes(")
	if !ok {
		return "", false
	}
	arg, ok = strings.CutSuffix(arg, ")")
	if !ok {
		return "", false
	}
	arg = strings.TrimSpace(arg)
	if len(arg) >= 2 && (arg[0] == '\'' || arg[0] == '"') && arg[len(arg)-1] == arg[0] {
		return arg[1 : len(arg)-1], true
	}
	return "", false
}

// Apply executes a rule's effects: state changes first, then reveal,
// consume, and player movement. actorID is the object the action lives on,
// used by consumes_object.
func Apply(rule *types.ActionRule, actorID string, st *state.State) {
	for key, value := range rule.StateChanges {
		target, attr, ok := strings.Cut(key, ".")
		switch {
		case !ok:
			st.SetFlag(key, value)
		case target == "flags":
			st.SetFlag(attr, value)
		default:
			st.SetAttr(target, attr, value)
		}
	}

	if rule.RevealsObject != "" {
		st.SetAttr(rule.RevealsObject, "hidden", false)
	}
	if rule.ConsumesObject {
		st.RemoveFromInventory(actorID)
		st.MoveObject(actorID, state.LocNowhere)
	}
	if rule.MovesPlayer != "" {
		st.CurrentRoom = rule.MovesPlayer
	}
}

// Hint inspects a failed compound condition and synthesizes a nudge from
// the first failing conjunct it recognizes: missing inventory items name
// the item, and flags mentioning "talk" suggest conversation. Returns ""
// when no heuristic applies.
func Hint(expr string, game *types.Game, st *state.State) string {
	for _, part := range strings.Split(expr, " && ") {
		part = strings.TrimSpace(part)
		if Eval(part, st) {
			continue
		}
		if id, ok := inventoryRef(part); ok {
			if obj := game.Object(id); obj != nil {
				return "You seem to be missing the " + obj.Name + "."
			}
			return "You seem to be missing something."
		}
		flag := part
		if cut, ok := strings.CutPrefix(part, "flags."); ok {
			flag = cut
		}
		if !strings.Contains(flag, ".") && strings.Contains(flag, "talk") {
			return "Perhaps you should talk to someone first."
		}
	}
	return ""
}
