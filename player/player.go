// Package player drives an engine session with a Gemini model standing in
// for the human. It feeds the model the recent narrative, takes a single
// command back, and loops until the game ends or progress stalls.
package player

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/types"
)

//go:embed prompts/system.txt
var systemPrompt string

// Model produces the next command for a prompt. Implementations must
// return a single line of player input.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Session records what happened during one automated playthrough.
type Session struct {
	Turns        int
	Commands     []string
	Responses    []string
	RoomsVisited map[string]bool
	Won          bool
	GaveUp       bool
}

// Player plays games autonomously through a Model.
type Player struct {
	model         Model
	maxStuckTurns int
	onTurn        func(turn int, command string, res engine.TurnResult)
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithOnTurn installs a per-turn callback, called after each command is
// executed.
func WithOnTurn(fn func(turn int, command string, res engine.TurnResult)) PlayerOption {
	return func(p *Player) { p.onTurn = fn }
}

// WithMaxStuckTurns overrides how many consecutive no-progress turns are
// tolerated before the player gives up.
func WithMaxStuckTurns(n int) PlayerOption {
	return func(p *Player) { p.maxStuckTurns = n }
}

// New creates a player around a Model.
func New(model Model, opts ...PlayerOption) *Player {
	p := &Player{model: model, maxStuckTurns: 10}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play runs the game until it ends, maxTurns is reached, or the player is
// stuck. The engine should be freshly constructed; Play issues the opening
// LOOK itself.
func (p *Player) Play(ctx context.Context, eng *engine.Engine, maxTurns int) (*Session, error) {
	session := &Session{RoomsVisited: map[string]bool{}}
	session.Responses = append(session.Responses, eng.DescribeCurrentRoom())
	session.RoomsVisited[eng.State().CurrentRoom] = true

	stuck := 0
	for session.Turns < maxTurns {
		if stuck >= p.maxStuckTurns {
			session.GaveUp = true
			break
		}

		command, err := p.nextCommand(ctx, eng.Game(), session)
		if err != nil {
			return session, fmt.Errorf("generating command: %w", err)
		}

		res := eng.ProcessInput(command)
		session.Turns++
		session.Commands = append(session.Commands, command)
		session.Responses = append(session.Responses, res.Message)

		oldRooms := len(session.RoomsVisited)
		session.RoomsVisited[eng.State().CurrentRoom] = true
		if len(session.RoomsVisited) > oldRooms || !res.Error {
			stuck = 0
		} else {
			stuck++
		}

		if p.onTurn != nil {
			p.onTurn(session.Turns, command, res)
		}
		if res.GameOver {
			session.Won = res.Won
			break
		}
	}
	return session, nil
}

func (p *Player) nextCommand(ctx context.Context, game *types.Game, session *Session) (string, error) {
	reply, err := p.model.Generate(ctx, buildContext(game, session))
	if err != nil {
		return "", err
	}
	return CleanCommand(reply), nil
}

// buildContext assembles the model prompt: objective, the last few turns,
// and the current situation.
func buildContext(game *types.Game, session *Session) string {
	parts := []string{
		"Game: " + game.Metadata.Title,
		"Objective: " + describeObjective(game),
		"",
		"Recent history (last 5 turns):",
	}

	start := len(session.Commands) - 5
	if start < 0 {
		start = 0
	}
	for i := start; i < len(session.Commands); i++ {
		parts = append(parts, "> "+session.Commands[i], session.Responses[i+1], "")
	}

	parts = append(parts,
		"Current situation:",
		session.Responses[len(session.Responses)-1],
		"",
		"What is your next command?")
	return strings.Join(parts, "\n")
}

// describeObjective renders the win condition in human terms.
func describeObjective(game *types.Game) string {
	win := game.WinCondition
	switch win.Type {
	case types.WinReachRoom:
		if room := game.Room(win.Room); room != nil {
			return "Reach the " + room.Name
		}
		return "Reach " + win.Room
	case types.WinHaveObject:
		if obj := game.Object(win.Object); obj != nil {
			return "Obtain the " + obj.Name
		}
		return "Obtain " + win.Object
	case types.WinFlagSet:
		return fmt.Sprintf("Complete the objective (%s)", win.Flag)
	}
	return "Explore and complete the game"
}

// CleanCommand strips the decorations models add around a command: code
// fences, quotes, and trailing commentary lines. The first usable line
// wins.
func CleanCommand(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "`")
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// GeminiModel is the production Model backed by the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiModel dials the Gemini API. Close releases the connection.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(50)
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) Close() {
	m.client.Close()
}

func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}
