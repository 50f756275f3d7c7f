package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleRoomTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	styleObjects = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleWin = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindRoomTitle
	kindObjects
	kindExits
	kindDialogue
	kindError
	kindWin
)

// classifyLine determines what kind of output line this is. The engine
// marks room titles with surrounding ** and keeps its object and exit
// sentences to fixed shapes, so prefix checks are enough.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
		return kindRoomTitle
	case strings.HasPrefix(line, "There is a ") && strings.HasSuffix(line, " here."):
		return kindObjects
	case strings.HasPrefix(line, "There is an exit"),
		strings.HasPrefix(line, "There are exits"),
		line == "There are no obvious exits.":
		return kindExits
	case strings.HasPrefix(line, "Congratulations!"),
		strings.HasPrefix(line, "The game is over"):
		return kindWin
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You're not"),
		strings.HasPrefix(line, "You already"),
		strings.HasPrefix(line, "I don't"),
		strings.HasPrefix(line, "I beg"),
		strings.HasPrefix(line, "Which "),
		strings.HasPrefix(line, "It's locked"):
		return kindError
	case strings.Contains(line, `"`):
		return kindDialogue
	default:
		return kindNarrative
	}
}

// renderLine applies the style for a line's kind. Room titles drop their
// ** markers; lipgloss provides the emphasis instead.
func renderLine(line string, kind lineKind) string {
	switch kind {
	case kindRoomTitle:
		return styleRoomTitle.Render(strings.Trim(line, "*"))
	case kindObjects:
		return styleObjects.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindWin:
		return styleWin.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
