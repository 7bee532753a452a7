package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"go-metronome/midi"
	"go-metronome/theme"
)

func testTheme() *theme.Theme {
	return theme.New(&theme.Palette{Colors: []theme.RGB{{0, 0, 0}, {255, 255, 255}}})
}

func TestStepGeometry(t *testing.T) {
	cases := []struct {
		step, x int
	}{
		{0, 0}, {1, 3}, {3, 9}, {4, 13}, {8, 26}, {15, 48},
	}
	for _, tc := range cases {
		if got := StepX(tc.step); got != tc.x {
			t.Fatalf("StepX(%d) = %d, want %d", tc.step, got, tc.x)
		}
		for dx := 0; dx < CellWidth; dx++ {
			if got, ok := StepAt(tc.x+dx, 16); !ok || got != tc.step {
				t.Fatalf("StepAt(%d) = %d, %v; want %d", tc.x+dx, got, ok, tc.step)
			}
		}
	}
	for _, gap := range []int{-1, 12, 25, 51, 200} {
		if s, ok := StepAt(gap, 16); ok {
			t.Fatalf("StepAt(%d) hit step %d, want a miss", gap, s)
		}
	}
	if RowWidth(16) != 51 {
		t.Fatalf("row width = %d", RowWidth(16))
	}
}

func TestRenderStepRowWidth(t *testing.T) {
	cells := make([]StepCell, 16)
	cells[0] = StepCell{Active: true, Audible: true}
	cells[5] = StepCell{Playhead: true}
	cells[9] = StepCell{Cursor: true}
	row := RenderStepRow(testTheme(), cells)
	if w := lipgloss.Width(row); w != RowWidth(16) {
		t.Fatalf("row width = %d, want %d", w, RowWidth(16))
	}
	if !strings.Contains(row, "●") || !strings.Contains(row, "▶") || !strings.Contains(row, "□") {
		t.Fatalf("row missing symbols: %q", row)
	}
}

func TestRenderToneStage(t *testing.T) {
	out := RenderToneStage(testTheme(), []float64{440, 880}, 1, 30)
	if lipgloss.Height(out) != 2 {
		t.Fatalf("height = %d", lipgloss.Height(out))
	}
	if !strings.Contains(out, "880.0Hz") || !strings.Contains(out, "━") {
		t.Fatalf("stage = %q", out)
	}
}

func TestRenderPadGrid(t *testing.T) {
	out := RenderPadGrid(midi.RenderGrid(midi.GridView{Tones: 5, Playhead: -1}))
	if lipgloss.Height(out) != 9 {
		t.Fatalf("height = %d, want 9", lipgloss.Height(out))
	}
}
