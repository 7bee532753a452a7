package midi

import "testing"

func TestStepPadsRoundTrip(t *testing.T) {
	seen := map[[2]int]bool{}
	for i := 0; i < GridSteps; i++ {
		row, col := StepPad(i)
		if seen[[2]int{row, col}] {
			t.Fatalf("step %d shares pad %d,%d", i, row, col)
		}
		seen[[2]int{row, col}] = true

		got := MapPad(PadEvent{Row: row, Col: col, Velocity: 100}, 5)
		if got.Action != ActionToggleStep || got.Index != i {
			t.Fatalf("pad for step %d decoded as %+v", i, got)
		}
	}
	if r, c := StepPad(0); r != 1 || c != 0 {
		t.Fatalf("step 0 at %d,%d, want 1,0", r, c)
	}
}

func TestMapPad(t *testing.T) {
	cases := []struct {
		name string
		evt  PadEvent
		want PadAction
	}{
		{"play", PadEvent{Row: TopRow, Col: TopPlay}, PadAction{Action: ActionPlay}},
		{"resolution", PadEvent{Row: TopRow, Col: TopResolution}, PadAction{Action: ActionResolution}},
		{"tempo down", PadEvent{Row: TopRow, Col: TopTempoDown}, PadAction{Action: ActionTempoDown}},
		{"tempo up", PadEvent{Row: TopRow, Col: TopTempoUp}, PadAction{Action: ActionTempoUp}},
		{"unused top", PadEvent{Row: TopRow, Col: 7}, PadAction{}},
		{"top tone", PadEvent{Row: 4, Col: SideCol}, PadAction{Action: ActionTone, Index: 0}},
		{"bottom tone", PadEvent{Row: 0, Col: SideCol}, PadAction{Action: ActionTone, Index: 4}},
		{"beyond tones", PadEvent{Row: 5, Col: SideCol}, PadAction{}},
		{"upper grid", PadEvent{Row: 5, Col: 3}, PadAction{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapPad(tc.evt, 5); got != tc.want {
				t.Fatalf("MapPad(%+v) = %+v, want %+v", tc.evt, got, tc.want)
			}
		})
	}
}

func TestTonePadsRoundTrip(t *testing.T) {
	for i := 0; i < 5; i++ {
		row, col := TonePad(i, 5)
		got := MapPad(PadEvent{Row: row, Col: col}, 5)
		if got.Action != ActionTone || got.Index != i {
			t.Fatalf("tone %d decoded as %+v", i, got)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	v := GridView{Playhead: 2, Playing: true, Tone: 1, Tones: 5}
	v.Active[0] = true
	v.Active[1] = true
	v.Audible[0] = true
	v.Audible[2] = true

	leds := RenderGrid(v)
	if len(leds) != GridSteps+5+4 {
		t.Fatalf("rendered %d leds", len(leds))
	}
	at := map[[2]int]LEDUpdate{}
	for _, l := range leds {
		at[[2]int{l.Row, l.Col}] = l
	}
	color := func(row, col int) [3]uint8 { return at[[2]int{row, col}].Color }

	r, c := StepPad(0)
	if color(r, c) != LEDStepOn {
		t.Fatal("audible active step not lit")
	}
	r, c = StepPad(1)
	if color(r, c) != LEDStepMuted {
		t.Fatal("silenced active step not dimmed")
	}
	r, c = StepPad(2)
	if color(r, c) != LEDPlayhead {
		t.Fatal("playhead not drawn")
	}
	r, c = TonePad(1, 5)
	if l := at[[2]int{r, c}]; l.Color != LEDToneSelected || l.Channel != ChannelPulse {
		t.Fatalf("selected tone = %+v", l)
	}
	if color(TopRow, TopPlay) != LEDStop {
		t.Fatal("play button should show stop while playing")
	}

	v.Playing = false
	for _, l := range RenderGrid(v) {
		if l.Color == LEDPlayhead {
			t.Fatal("playhead drawn while stopped")
		}
	}
}
