package engine

import (
	"github.com/fable-works/fablecore/engine/rules"
	"github.com/fable-works/fablecore/types"
)

// lookupAction finds the action an object defines for a verb, preferring a
// key scoped to the specific target over the bare verb.
func lookupAction(obj *types.GameObject, verb, target string) (types.Action, bool) {
	if target != "" {
		if act, found := obj.Actions[types.ActionKey{Verb: verb, Target: target}]; found {
			return act, true
		}
	}
	act, found := obj.Actions[types.ActionKey{Verb: verb}]
	return act, found
}

// runAction executes an object's custom action for a verb, if one exists.
// The second return reports whether the object defined any action at all;
// callers fall through to built-in handling when it is false.
//
// A literal action always succeeds. A rule action evaluates its condition
// against current state: on success the rule's state changes are applied
// and its message returned; on failure the fail_message is returned, or a
// synthesized hint when hintOnFail is set, or "Nothing happens."
func (e *Engine) runAction(obj *types.GameObject, verb, target string, hintOnFail bool) (actionResult, bool) {
	act, found := lookupAction(obj, verb, target)
	if !found {
		return actionResult{}, false
	}

	if act.Rule == nil {
		return ok(act.Literal), true
	}

	rule := act.Rule
	if !rules.Eval(rule.Condition, e.state) {
		if rule.FailMessage != "" {
			return deny(rule.FailMessage), true
		}
		if hintOnFail {
			if hint := rules.Hint(rule.Condition, e.game, e.state); hint != "" {
				return deny(hint), true
			}
		}
		return deny("Nothing happens."), true
	}

	rules.Apply(rule, obj.ID, e.state)
	return ok(rule.Message), true
}
