// FableCore is a data-driven engine for text adventure games.
// Usage: fablecore [--version] [--plain] [--script <file>] [--auto [turns]] [--trace] <game_file_or_dir>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fable-works/fablecore/cli"
	"github.com/fable-works/fablecore/config"
	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/loader"
	"github.com/fable-works/fablecore/player"
	"github.com/fable-works/fablecore/telemetry"
	"github.com/fable-works/fablecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultAutoTurns = 50

func main() {
	plain := false
	trace := false
	auto := false
	autoTurns := defaultAutoTurns
	var gamePath string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("fablecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--auto":
			auto = true
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					autoTurns = n
					i++
				}
			}
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if gamePath == "" {
				gamePath = args[i]
			}
		}
	}

	if gamePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fablecore [--version] [--plain] [--script <file>] [--auto [turns]] [--trace] <game_file_or_dir>\n")
		os.Exit(1)
	}

	game, err := loader.Load(gamePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	var opts []engine.Option
	if trace {
		opts = append(opts, engine.WithTracer(telemetry.New(os.Stderr)))
	}
	eng := engine.New(game, opts...)

	// AI player mode: Gemini plays the game.
	if auto {
		if err := runAuto(eng, autoTurns); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Script mode: replay commands from a file, echoing each one.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(eng).Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runAuto lets the Gemini model play the game, printing each turn.
func runAuto(eng *engine.Engine, maxTurns int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	apiKey, err := cfg.RequireAPIKey()
	if err != nil {
		return err
	}

	ctx := context.Background()
	model, err := player.NewGeminiModel(ctx, apiKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("creating model: %w", err)
	}
	defer model.Close()

	meta := eng.Game().Metadata
	fmt.Printf("%s: AI playthrough (%s, max %d turns)\n\n", meta.Title, cfg.Model, maxTurns)
	fmt.Println(eng.DescribeCurrentRoom())

	p := player.New(model, player.WithOnTurn(func(turn int, command string, res engine.TurnResult) {
		fmt.Printf("\n[%d] > %s\n%s\n", turn, command, res.Message)
	}))

	session, err := p.Play(ctx, eng, maxTurns)
	if err != nil {
		return err
	}

	fmt.Printf("\nFinished after %d turns: ", session.Turns)
	switch {
	case session.Won:
		fmt.Println("the model won the game.")
	case session.GaveUp:
		fmt.Println("the model got stuck and gave up.")
	default:
		fmt.Println("turn limit reached.")
	}
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
