package rules

import (
	"testing"

	"github.com/fable-works/fablecore/engine/state"
	"github.com/fable-works/fablecore/types"
)

func ruleGame() *types.Game {
	return &types.Game{
		Rooms: []types.Room{{ID: "start", Name: "Start"}, {ID: "vault", Name: "Vault"}},
		Objects: []types.GameObject{
			{ID: "door", Name: "door", Location: "start", Lockable: true, Locked: true},
			{ID: "coin", Name: "gold coin", Location: "start", Takeable: true},
			{ID: "prize", Name: "prize", Location: "start", Hidden: true, Takeable: true},
		},
		Initial: types.InitialState{CurrentRoom: "start"},
	}
}

func TestEval(t *testing.T) {
	st := state.New(ruleGame())
	st.SetFlag("has_code", true)
	st.SetFlag("count", 0)
	st.AddToInventory("coin")

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"empty is true", "", true},
		{"bare flag set", "has_code", true},
		{"bare flag unset", "no_such_flag", false},
		{"bare flag zero value", "count", false},
		{"flags prefix", "flags.has_code", true},
		{"flags prefix unset", "flags.missing", false},
		{"object attribute", "door.locked", true},
		{"object attribute false", "door.is_open", false},
		{"unknown object", "ghost.locked", false},
		{"unknown attribute", "door.charge", false},
		{"negation", "!door.is_open", true},
		{"negated true", "!door.locked", false},
		{"inventory includes single quotes", "inventory.includes('coin')", true},
		{"inventory includes double quotes", `inventory.includes("coin")`, true},
		{"inventory missing", "inventory.includes('prize')", false},
		{"conjunction true", "has_code && door.locked", true},
		{"conjunction one false", "has_code && door.is_open", false},
		{"disjunction", "door.is_open || has_code", true},
		{"disjunction all false", "door.is_open || flags.missing", false},
		{"conjunction splits before disjunction", "door.is_open || has_code && door.locked", true},
		{"negated conjunct", "!door.is_open && has_code", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eval(tt.expr, st); got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestApplyStateChanges(t *testing.T) {
	st := state.New(ruleGame())

	Apply(&types.ActionRule{
		Message: "Click!",
		StateChanges: map[string]any{
			"door.locked":    false,
			"door.is_open":   true,
			"flags.unlocked": true,
			"visited_vault":  1,
		},
	}, "door", st)

	if st.Objects["door"].Locked {
		t.Error("door.locked should be cleared")
	}
	if !st.Objects["door"].IsOpen {
		t.Error("door.is_open should be set")
	}
	if !st.FlagSet("unlocked") {
		t.Error("flags.x key should set flag x")
	}
	if !st.FlagSet("visited_vault") {
		t.Error("bare key should set a flag")
	}
}

func TestApplyRevealConsumeMove(t *testing.T) {
	st := state.New(ruleGame())
	st.AddToInventory("coin")

	Apply(&types.ActionRule{
		Message:        "Whirr.",
		RevealsObject:  "prize",
		ConsumesObject: true,
		MovesPlayer:    "vault",
	}, "coin", st)

	if st.Objects["prize"].Hidden {
		t.Error("reveals_object should unhide the prize")
	}
	if st.InInventory("coin") {
		t.Error("consumes_object should remove the coin from inventory")
	}
	if got := st.ObjectLocation("coin"); got != state.LocNowhere {
		t.Errorf("consumed coin location = %q, want nowhere", got)
	}
	if st.CurrentRoom != "vault" {
		t.Errorf("moves_player: current room = %q, want vault", st.CurrentRoom)
	}
}

func TestHint(t *testing.T) {
	game := ruleGame()
	st := state.New(game)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"missing item named", "inventory.includes('coin')", "You seem to be missing the gold coin."},
		{"missing unknown item", "inventory.includes('widget')", "You seem to be missing something."},
		{"talk flag", "flags.talked_to_guard", "Perhaps you should talk to someone first."},
		{"bare talk flag", "guard_talk_done", "Perhaps you should talk to someone first."},
		{"unrecognized shape", "door.is_open", ""},
		{"first failing conjunct wins", "door.locked && inventory.includes('coin')", "You seem to be missing the gold coin."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.expr, game, st); got != tt.want {
				t.Errorf("Hint(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}

	// Satisfied conjuncts are skipped.
	st.AddToInventory("coin")
	st.SetFlag("talk_done", false)
	got := Hint("inventory.includes('coin') && flags.talk_done", game, st)
	if got != "Perhaps you should talk to someone first." {
		t.Errorf("Hint skipped wrong conjunct: %q", got)
	}
}
