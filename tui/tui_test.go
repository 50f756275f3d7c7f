package tui

import (
	"strings"
	"testing"

	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"**Great Hall**", kindRoomTitle},
		{"There is a brass key here.", kindObjects},
		{"There is an exit to the north.", kindExits},
		{"There are exits to the east, south and west.", kindExits},
		{"There are no obvious exits.", kindExits},
		{"Congratulations! You have won!", kindWin},
		{"The game is over. You won!", kindWin},
		{"You can't see any sword here.", kindError},
		{"You're not carrying that.", kindError},
		{"You already have that.", kindError},
		{"I don't know how to do that.", kindError},
		{"Which key do you mean?", kindError},
		{"It's locked.", kindError},
		{`The guard says, "Halt! Who goes there?"`, kindDialogue},
		{"A grand hall with vaulted ceilings.", kindNarrative},
		{"Taken.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestRenderLineStripsTitleMarkers(t *testing.T) {
	got := renderLine("**Great Hall**", kindRoomTitle)
	if strings.Contains(got, "*") {
		t.Errorf("expected ** markers stripped, got %q", got)
	}
	if !strings.Contains(got, "Great Hall") {
		t.Errorf("expected room name in output, got %q", got)
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The great hall stretches before you with its vaulted ceiling.", 30,
			"The great hall stretches\nbefore you with its vaulted\nceiling."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")
	h.Push("take key")

	prev, ok := h.Prev()
	if !ok || prev != "take key" {
		t.Errorf("expected 'take key', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look") // skipped
	h.Push("look") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "go north" {
		t.Errorf("expected 'go north' after reset, got %q", prev)
	}
}

// testGame returns a minimal world for TUI testing.
func testGame() *types.Game {
	return &types.Game{
		Metadata: types.Metadata{
			Title:       "Test Adventure",
			Author:      "Tester",
			Description: "A tiny world.",
		},
		Rooms: []types.Room{
			{
				ID:          "hall",
				Name:        "Hall",
				Description: "A grand hall.",
				Exits:       map[string]types.Exit{"north": {Target: "garden"}},
			},
			{
				ID:          "garden",
				Name:        "Garden",
				Description: "A peaceful garden.",
				Exits:       map[string]types.Exit{"south": {Target: "hall"}},
			},
		},
		Objects: []types.GameObject{
			{
				ID: "key", Name: "rusty key", Description: "An old key.",
				Location: "hall", Takeable: true, Droppable: true,
			},
		},
		Initial:      types.InitialState{CurrentRoom: "hall"},
		WinCondition: types.WinCondition{Type: types.WinReachRoom, Room: "garden"},
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := New(engine.New(testGame()))

	_, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("expected quit=true for /quit")
	}

	_, quit = m.handleMeta("/exit")
	if !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	eng := engine.New(testGame())
	m := New(eng)
	m.saveDir = t.TempDir()

	eng.ProcessInput("take key")

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Game saved") {
		t.Errorf("expected save confirmation, got %v", output)
	}

	eng.ProcessInput("drop key")

	output, quit = m.handleMeta("/load test")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Game loaded from test (turn 1).") {
		t.Errorf("expected load confirmation, got %v", output)
	}
	if len(eng.State().Inventory) != 1 || eng.State().Inventory[0] != "key" {
		t.Errorf("expected restored inventory [key], got %v", eng.State().Inventory)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := New(engine.New(testGame()))
	m.saveDir = t.TempDir()

	output, quit := m.handleMeta("/load nonexistent")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := New(engine.New(testGame()))

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/quit", "look", "inventory"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := New(engine.New(testGame()))

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := New(engine.New(testGame()))

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}

	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Location: hall") {
		t.Error("expected location in state output")
	}
	if !strings.Contains(joined, "Turn:") {
		t.Error("expected turn count in state output")
	}
}

func TestAppendOutputEchoesInput(t *testing.T) {
	m := New(engine.New(testGame()))

	m = m.appendOutput(gameOutputMsg{input: "take key", lines: []string{"Taken."}})

	if len(m.rawLines) != 3 { // echo + message + separator
		t.Fatalf("expected 3 raw lines, got %d", len(m.rawLines))
	}
	if !m.rawLines[0].isInput || m.rawLines[0].text != "> take key" {
		t.Errorf("expected echoed input first, got %+v", m.rawLines[0])
	}
	if m.rawLines[1].text != "Taken." {
		t.Errorf("expected engine message, got %+v", m.rawLines[1])
	}
}
