package engine

import (
	"strings"

	"github.com/fable-works/fablecore/engine/resolve"
	"github.com/fable-works/fablecore/engine/state"
	"github.com/fable-works/fablecore/types"
)

// actionResult is the outcome of one verb handler. Failed actions consume
// no turn.
type actionResult struct {
	message string
	success bool
}

func ok(message string) actionResult   { return actionResult{message: message, success: true} }
func deny(message string) actionResult { return actionResult{message: message} }

func (e *Engine) execute(rc resolve.ResolvedCommand) actionResult {
	switch rc.Verb {
	case types.VerbTake:
		return e.handleTake(rc)
	case types.VerbDrop:
		return e.handleDrop(rc)
	case types.VerbExamine:
		return e.handleExamine(rc)
	case types.VerbRead:
		return e.handleRead(rc)
	case types.VerbOpen:
		return e.handleOpen(rc)
	case types.VerbClose:
		return e.handleClose(rc)
	case types.VerbPut:
		return e.handlePut(rc)
	case types.VerbGive:
		return e.handleGive(rc)
	case types.VerbLock:
		return e.handleLock(rc)
	case types.VerbUnlock:
		return e.handleUnlock(rc)
	case types.VerbUse:
		return e.handleUse(rc)
	case types.VerbTalk:
		return e.handleTalk(rc)
	case types.VerbShow:
		return e.handleShow(rc)
	case types.VerbSing:
		return e.handleSing(rc)
	case types.VerbInsert:
		return e.handleInsert(rc)
	case types.VerbCustom:
		return e.handleCustom(rc)
	}
	return deny("I don't know how to do that.")
}

func (e *Engine) handleTake(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "take", "", false); found {
		return res
	}

	os := e.state.Objects[obj.ID]
	if os == nil {
		return deny("You can't see that here.")
	}
	if os.Location == state.LocInventory {
		return deny("You already have that.")
	}
	if !obj.Takeable {
		return deny("You can't take the " + obj.Name + ".")
	}
	if container := e.game.Object(os.Location); container != nil && container.Container {
		if cs := e.state.Objects[container.ID]; cs != nil && !cs.IsOpen {
			return deny("The " + container.Name + " is closed.")
		}
	}

	e.state.AddToInventory(obj.ID)
	return ok("Taken.")
}

func (e *Engine) handleDrop(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "drop", "", false); found {
		return res
	}
	if !e.state.InInventory(obj.ID) {
		return deny("You're not carrying that.")
	}
	if !obj.Droppable {
		return deny("You can't drop the " + obj.Name + ".")
	}

	e.state.RemoveFromInventory(obj.ID)
	e.state.MoveObject(obj.ID, e.state.CurrentRoom)
	return ok("Dropped.")
}

func (e *Engine) handleExamine(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	os := e.state.Objects[obj.ID]
	if os != nil {
		os.Examined = true
	}
	if res, found := e.runAction(obj, "examine", "", false); found {
		return res
	}

	text := obj.ExamineText
	if text == "" {
		text = obj.Description
	}
	if obj.Container && os != nil && os.IsOpen {
		if contents := e.containerContents(obj.ID); contents != "" {
			text += "\n\nInside the " + obj.Name + " you see: " + contents
		} else {
			text += "\n\nThe " + obj.Name + " is empty."
		}
	}
	return ok(text)
}

func (e *Engine) handleRead(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "read", "", false); found {
		return res
	}
	if !obj.Readable {
		return deny("There's nothing to read on the " + obj.Name + ".")
	}
	if obj.ReadText == "" {
		return ok("It's blank.")
	}
	return ok(obj.ReadText)
}

func (e *Engine) handleOpen(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "open", "", false); found {
		return res
	}

	os := e.state.Objects[obj.ID]
	if os == nil {
		return deny("You can't see that here.")
	}
	if !obj.Openable {
		return deny("You can't open the " + obj.Name + ".")
	}
	if os.IsOpen {
		return deny("It's already open.")
	}
	if os.Locked {
		return deny("It's locked.")
	}

	os.IsOpen = true
	if obj.Container {
		if contents := e.containerContents(obj.ID); contents != "" {
			return ok("Opened. Inside you see: " + contents)
		}
	}
	return ok("Opened.")
}

func (e *Engine) handleClose(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "close", "", false); found {
		return res
	}

	os := e.state.Objects[obj.ID]
	if os == nil {
		return deny("You can't see that here.")
	}
	if !obj.Openable {
		return deny("You can't close the " + obj.Name + ".")
	}
	if !os.IsOpen {
		return deny("It's already closed.")
	}
	os.IsOpen = false
	return ok("Closed.")
}

func (e *Engine) handlePut(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if rc.IndirectObjectID == "" {
		return deny("Put it where?")
	}
	target := e.game.Object(rc.IndirectObjectID)
	if target == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "put", rc.IndirectObjectID, false); found {
		return res
	}

	if !e.state.InInventory(obj.ID) {
		return deny("You're not holding the " + obj.Name + ".")
	}
	if rc.Preposition == types.PrepIn {
		if !target.Container {
			return deny("You can't put things in the " + target.Name + ".")
		}
		if ts := e.state.Objects[target.ID]; ts != nil && !ts.IsOpen {
			return deny("The " + target.Name + " is closed.")
		}
	}

	e.state.RemoveFromInventory(obj.ID)
	e.state.MoveObject(obj.ID, target.ID)
	return ok("Done.")
}

func (e *Engine) handleGive(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if rc.IndirectObjectID == "" {
		return deny("Give it to whom?")
	}
	recipient := e.game.Object(rc.IndirectObjectID)
	if recipient == nil {
		return deny("You can't see that here.")
	}
	if !e.state.InInventory(obj.ID) {
		return deny("You're not holding the " + obj.Name + ".")
	}

	if res, found := e.runAction(obj, "give", recipient.ID, false); found {
		// The recipient keeps the object unless the rule already
		// consumed it.
		if res.success && e.state.InInventory(obj.ID) {
			e.state.RemoveFromInventory(obj.ID)
			e.state.MoveObject(obj.ID, recipient.ID)
		}
		return res
	}
	return deny("The " + recipient.Name + " doesn't seem interested.")
}

func (e *Engine) handleLock(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "lock", rc.IndirectObjectID, false); found {
		return res
	}
	if rc.IndirectObjectID == "" {
		return deny("Lock it with what?")
	}
	key := e.game.Object(rc.IndirectObjectID)
	if key == nil {
		return deny("You can't see that here.")
	}

	os := e.state.Objects[obj.ID]
	if os == nil {
		return deny("You can't see that here.")
	}
	if !obj.Lockable {
		return deny("You can't lock the " + obj.Name + ".")
	}
	if os.Locked {
		return deny("It's already locked.")
	}
	if os.IsOpen {
		return deny("You'll need to close it first.")
	}
	if obj.KeyObject != key.ID {
		return deny("The " + key.Name + " doesn't fit.")
	}

	os.Locked = true
	return ok("Locked.")
}

func (e *Engine) handleUnlock(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	// Probe custom actions first so code locks and puzzles can unlock
	// without a physical key.
	if res, found := e.runAction(obj, "unlock", rc.IndirectObjectID, false); found {
		return res
	}
	if rc.IndirectObjectID == "" {
		return deny("Unlock it with what?")
	}
	key := e.game.Object(rc.IndirectObjectID)
	if key == nil {
		return deny("You can't see that here.")
	}

	os := e.state.Objects[obj.ID]
	if os == nil {
		return deny("You can't see that here.")
	}
	if !obj.Lockable {
		return deny("You can't unlock the " + obj.Name + ".")
	}
	if !os.Locked {
		return deny("It's not locked.")
	}
	if obj.KeyObject != key.ID {
		return deny("The " + key.Name + " doesn't fit.")
	}

	os.Locked = false
	return ok("Unlocked.")
}

func (e *Engine) handleUse(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}

	if rc.IndirectObjectID != "" {
		if res, found := e.runAction(obj, "use_with", rc.IndirectObjectID, false); found {
			return res
		}
		targetName := "that"
		if target := e.game.Object(rc.IndirectObjectID); target != nil {
			targetName = "the " + target.Name
		}
		return deny("You can't use the " + obj.Name + " with " + targetName + ".")
	}

	if res, found := e.runAction(obj, "use", "", false); found {
		return res
	}
	return deny("You're not sure how to use the " + obj.Name + ".")
}

func (e *Engine) handleTalk(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if res, found := e.runAction(obj, "talk", "", false); found {
		return res
	}
	return deny("The " + obj.Name + " has nothing to say.")
}

func (e *Engine) handleShow(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	if rc.IndirectObjectID == "" {
		return deny("Show it to whom?")
	}
	recipient := e.game.Object(rc.IndirectObjectID)
	if recipient == nil {
		return deny("You can't see that here.")
	}
	if !e.state.InInventory(obj.ID) {
		return deny("You're not holding the " + obj.Name + ".")
	}
	if res, found := e.runAction(obj, "show", recipient.ID, false); found {
		return res
	}
	return deny("The " + recipient.Name + " seems unimpressed.")
}

func (e *Engine) handleSing(rc resolve.ResolvedCommand) actionResult {
	if rc.DirectObjectID != "" {
		if obj := e.game.Object(rc.DirectObjectID); obj != nil {
			if res, found := e.runAction(obj, "sing", "", false); found {
				return res
			}
		}
	} else if res, found := e.roomAction("sing"); found {
		return res
	}
	return ok("Your singing echoes for a moment, then fades.")
}

func (e *Engine) handleInsert(rc resolve.ResolvedCommand) actionResult {
	obj := e.game.Object(rc.DirectObjectID)
	if obj == nil {
		return deny("You can't see that here.")
	}
	// INSERT is the one handler that synthesizes hints from failed
	// compound conditions.
	if res, found := e.runAction(obj, "insert", rc.IndirectObjectID, true); found {
		return res
	}

	if rc.IndirectObjectID == "" {
		return deny("Insert it into what?")
	}
	target := e.game.Object(rc.IndirectObjectID)
	if target == nil {
		return deny("You can't see that here.")
	}
	if !e.state.InInventory(obj.ID) {
		return deny("You're not holding the " + obj.Name + ".")
	}
	if !target.Container {
		return deny("The " + obj.Name + " doesn't fit.")
	}
	if ts := e.state.Objects[target.ID]; ts != nil && !ts.IsOpen {
		return deny("The " + target.Name + " is closed.")
	}

	e.state.RemoveFromInventory(obj.ID)
	e.state.MoveObject(obj.ID, target.ID)
	return ok("Done.")
}

// handleCustom routes game-defined verbs. With a direct object it probes
// that object's action table; without one it searches every object in the
// current room for a matching action.
func (e *Engine) handleCustom(rc resolve.ResolvedCommand) actionResult {
	verb := rc.CustomVerb

	if rc.DirectObjectID != "" {
		obj := e.game.Object(rc.DirectObjectID)
		if obj == nil {
			return deny("You can't see that here.")
		}
		if res, found := e.runAction(obj, verb, rc.IndirectObjectID, false); found {
			return res
		}
	} else if res, found := e.roomAction(verb); found {
		return res
	}

	return deny(e.customDefaultMessage(verb))
}

// roomAction probes every visible object in the current room for an action
// under the given verb; the first object defining one wins.
func (e *Engine) roomAction(verb string) (actionResult, bool) {
	for _, id := range e.state.ObjectsAt(e.game, e.state.CurrentRoom) {
		obj := e.game.Object(id)
		if obj == nil {
			continue
		}
		if res, found := e.runAction(obj, verb, "", false); found {
			return res, true
		}
	}
	return actionResult{}, false
}

func (e *Engine) customDefaultMessage(verb string) string {
	for _, def := range e.game.Verbs {
		if strings.EqualFold(def.Verb, verb) && def.DefaultMessage != "" {
			return def.DefaultMessage
		}
	}
	return "Nothing happens."
}

// containerContents lists the visible contents of a container as a
// comma-separated string, empty when it holds nothing.
func (e *Engine) containerContents(containerID string) string {
	var names []string
	for _, id := range e.state.ObjectsAt(e.game, containerID) {
		if obj := e.game.Object(id); obj != nil {
			names = append(names, obj.Name)
		}
	}
	return strings.Join(names, ", ")
}
