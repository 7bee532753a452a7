package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-metronome/theme"
)

// Step row geometry: each step is CellWidth columns, with one extra column
// between beats (groups of four).
const (
	CellWidth = 3
	BeatSize  = 4
)

// StepCell is one step as the row draws it
type StepCell struct {
	Active   bool
	Audible  bool // passes the resolution filter
	Playhead bool
	Cursor   bool
}

// StepX is the left column of step i within the row
func StepX(i int) int {
	return i*CellWidth + i/BeatSize
}

// StepAt maps a column within the row back to a step
func StepAt(x, steps int) (int, bool) {
	if x < 0 {
		return 0, false
	}
	for i := 0; i < steps; i++ {
		left := StepX(i)
		if x >= left && x < left+CellWidth {
			return i, true
		}
	}
	return 0, false
}

// RowWidth is the rendered width of a row of n steps
func RowWidth(n int) int {
	if n == 0 {
		return 0
	}
	return StepX(n-1) + CellWidth
}

// RenderStepRow draws the sixteen steps on one line
func RenderStepRow(th *theme.Theme, cells []StepCell) string {
	var out strings.Builder
	for i, c := range cells {
		if i > 0 && i%BeatSize == 0 {
			out.WriteString(" ")
		}
		out.WriteString(renderCell(th, c))
	}
	return out.String()
}

func renderCell(th *theme.Theme, c StepCell) string {
	sym := th.Symbols.StepEmpty
	color := th.Muted()
	switch {
	case c.Active && c.Audible:
		sym, color = th.Symbols.StepActive, th.Active()
	case c.Active:
		sym, color = th.Symbols.StepMuted, th.FG()
	}
	if c.Playhead {
		sym, color = th.Symbols.StepPlayhead, th.Success()
	}
	if c.Cursor {
		if c.Active {
			sym = th.Symbols.CursorActive
		} else if !c.Playhead {
			sym = th.Symbols.CursorEmpty
		}
		color = th.Cursor()
	}
	return lipgloss.NewStyle().Foreground(color).Width(CellWidth).Align(lipgloss.Center).Render(string(sym))
}

// RenderStepNumbers labels the first step of each beat
func RenderStepNumbers(th *theme.Theme, steps int) string {
	style := lipgloss.NewStyle().Foreground(th.Muted())
	line := []rune(strings.Repeat(" ", RowWidth(steps)))
	for i := 0; i < steps; i += BeatSize {
		label := []rune(fmt.Sprintf("%d", i+1))
		x := StepX(i) + 1
		copy(line[x:], label)
	}
	return style.Render(string(line))
}

// RenderToneStage draws one band per tone, top to bottom. The selected band
// is highlighted.
func RenderToneStage(th *theme.Theme, tones []float64, selected int, width int) string {
	lines := make([]string, len(tones))
	bar := width - 10
	if bar < 4 {
		bar = 4
	}
	for i, f := range tones {
		sym, color := th.Symbols.Tone, th.Muted()
		if i == selected {
			sym, color = th.Symbols.ToneSelected, th.Accent()
		}
		label := fmt.Sprintf("%7.1fHz", f)
		lines[i] = lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(string(sym), bar) + " " + label)
	}
	return strings.Join(lines, "\n")
}
