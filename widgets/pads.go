package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-metronome/midi"
	"go-metronome/theme"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	return lipgloss.NewStyle().Foreground(theme.Hex(color)).Render("■")
}

// RenderPadGrid mirrors a Launchpad: the top button row, then the 8x8 grid
// with the side column, row 7 first. Pads without an update are dark.
func RenderPadGrid(leds []midi.LEDUpdate) string {
	var grid [midi.TopRow + 1][midi.SideCol + 1][3]uint8
	for _, l := range leds {
		if l.Row >= 0 && l.Row <= midi.TopRow && l.Col >= 0 && l.Col <= midi.SideCol {
			grid[l.Row][l.Col] = l.Color
		}
	}

	var lines []string
	for row := midi.TopRow; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col <= midi.SideCol; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			if row == midi.TopRow && col == midi.SideCol {
				line.WriteString(" ")
				continue
			}
			line.WriteString(RenderPad(grid[row][col]))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
