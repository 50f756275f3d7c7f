package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/types"
)

// testGame returns a minimal world for CLI testing.
func testGame() *types.Game {
	return &types.Game{
		Metadata: types.Metadata{Title: "Test Game", Description: "Welcome to the test."},
		Rooms: []types.Room{
			{
				ID: "hall", Name: "Grand Hall", Description: "A grand hall.",
				Exits: map[string]types.Exit{"north": {Target: "garden"}},
			},
			{
				ID: "garden", Name: "Garden", Description: "A peaceful garden.",
				Exits: map[string]types.Exit{"south": {Target: "hall"}},
			},
		},
		Objects: []types.GameObject{
			{
				ID: "key", Name: "rusty key", Description: "An old key.",
				Location: "hall", Takeable: true, Droppable: true,
			},
		},
		Initial: types.InitialState{CurrentRoom: "hall"},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Engine:  engine.New(testGame()),
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
	}
	return c, &out
}

func TestIntroAndStartingRoom(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "A grand hall.") {
		t.Error("expected starting room description in output")
	}
	// Room headers are rendered without emphasis markers.
	if strings.Contains(output, "**") {
		t.Error("emphasis markers leaked into plain output")
	}
}

func TestBasicGameplay(t *testing.T) {
	c, out := newTestCLI(t, "take key\nnorth\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Taken.") {
		t.Error("expected take acknowledgment")
	}
	if !strings.Contains(output, "A peaceful garden.") {
		t.Error("expected garden description after moving north")
	}
}

func TestAgainRepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "take key\ndrop key\nagain\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "You're not carrying that.") {
		t.Errorf("again did not repeat drop:\n%s", out.String())
	}
}

func TestAgainWithNoHistory(t *testing.T) {
	c, out := newTestCLI(t, "g\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected repeat warning")
	}
}

func TestCommentsAndBlankLinesSkipped(t *testing.T) {
	c, out := newTestCLI(t, "# script header\n\ntake key\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Taken.") {
		t.Error("expected script to reach take command")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	c, out := newTestCLI(t, "take key\n/save slot1\ndrop key\n/load slot1\ninventory\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Game saved to slot1.") {
		t.Fatalf("save missing:\n%s", output)
	}
	if !strings.Contains(output, "Game loaded from slot1 (turn 1).") {
		t.Fatalf("load missing:\n%s", output)
	}
	// The restored inventory still holds the key dropped after saving.
	if !strings.Contains(output, "You are carrying:\n  - rusty key") {
		t.Errorf("inventory after load wrong:\n%s", output)
	}
}

func TestUnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/frobnicate\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command: /frobnicate") {
		t.Error("expected unknown meta warning")
	}
}

func TestStateDump(t *testing.T) {
	c, out := newTestCLI(t, "take key\n/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "[Turn: 1]") || !strings.Contains(output, "[Location: hall]") {
		t.Errorf("state dump wrong:\n%s", output)
	}
	if !strings.Contains(output, "[Inventory: [key]]") {
		t.Errorf("inventory dump wrong:\n%s", output)
	}
}
