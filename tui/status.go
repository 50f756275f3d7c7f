package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing
// current room, exits, inventory, and turn count.
func (m Model) renderStatusBar() string {
	st := m.engine.State()
	game := m.engine.Game()

	roomName := st.CurrentRoom
	var dirs []string
	if room := game.Room(st.CurrentRoom); room != nil {
		roomName = room.Name
		for dir, exit := range room.Exits {
			if !exit.Hidden {
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Strings(dirs)

	left := fmt.Sprintf(" %s | Exits: %s", roomName, strings.Join(dirs, ","))
	right := fmt.Sprintf("T:%d ", st.Turns)

	// Show inventory items if they fit, otherwise just the count.
	if len(st.Inventory) > 0 {
		var names []string
		for _, id := range st.Inventory {
			name := id
			if obj := game.Object(id); obj != nil {
				name = obj.Name
			}
			names = append(names, name)
		}
		candidate := fmt.Sprintf("Inv: %s | T:%d ", strings.Join(names, ", "), st.Turns)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | T:%d ", len(st.Inventory), st.Turns)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
