// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the FableCore game engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/engine/save"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".fablecore", "saves"),
	}
}

// Run starts the game loop. It shows the intro, describes the starting
// room, then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	meta := c.Engine.Game().Metadata
	if meta.Title != "" {
		c.printLine(meta.Title)
	}
	if meta.Description != "" {
		c.printLine(meta.Description)
	}
	c.printLine("")
	c.printLine(c.render(c.Engine.DescribeCurrentRoom()))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		res := c.Engine.ProcessInput(input)
		c.printLine(c.render(res.Message))
		if res.GameOver {
			return
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Engine.Game(), c.Engine.State())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Engine.RestoreState(sd.State)
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.State.Turns))
	c.printLine(c.render(c.Engine.DescribeCurrentRoom()))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"",
		"Game commands:",
		"  look (l)               — Describe the room",
		"  examine <thing> (x)    — Look closely at something",
		"  go <dir>               — Move (or just type n/s/e/w/u/d)",
		"  take/get <item>        — Pick something up",
		"  drop <item>            — Put something down",
		"  open / close <thing>   — Open or close something",
		"  unlock <door> with <key>",
		"  put <item> in <container>",
		"  talk to <npc>          — Talk to someone",
		"  give <item> to <npc>   — Give an item to someone",
		"  inventory (i)          — Check what you're carrying",
		"  wait                   — Let time pass",
		"  again (g)              — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State()
	c.printSystem(fmt.Sprintf("Turn: %d", s.Turns))
	c.printSystem(fmt.Sprintf("Location: %s", s.CurrentRoom))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	if len(s.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", s.Flags))
	}
}

// render strips the markdown-ish emphasis the engine uses for room titles;
// the plain terminal has nowhere to put it.
func (c *CLI) render(text string) string {
	return strings.ReplaceAll(text, "**", "")
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
