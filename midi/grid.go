package midi

// The metronome grid:
//   rows 0-1      sixteen steps, row 1 holds steps 0-7 and row 0 steps 8-15
//   side column   rows 4..0 pick tones from the top down
//   top row       play/stop, resolution, tempo down, tempo up
const (
	TopPlay = iota
	TopResolution
	TopTempoDown
	TopTempoUp
)

// GridSteps is how many step pads the grid has
const GridSteps = 16

// Action is what a pad press asks the metronome to do
type Action int

const (
	ActionNone Action = iota
	ActionToggleStep
	ActionTone
	ActionPlay
	ActionResolution
	ActionTempoDown
	ActionTempoUp
)

// PadAction is a decoded pad press. Index is the step or tone for the
// actions that carry one.
type PadAction struct {
	Action Action
	Index  int
}

// StepPad returns the pad for step i
func StepPad(i int) (row, col int) {
	return 1 - i/8, i % 8
}

// TonePad returns the side-column pad for tone i
func TonePad(i, tones int) (row, col int) {
	return tones - 1 - i, SideCol
}

// MapPad decodes a press. tones is how many tones the side column offers.
func MapPad(e PadEvent, tones int) PadAction {
	switch {
	case e.Row == TopRow:
		switch e.Col {
		case TopPlay:
			return PadAction{Action: ActionPlay}
		case TopResolution:
			return PadAction{Action: ActionResolution}
		case TopTempoDown:
			return PadAction{Action: ActionTempoDown}
		case TopTempoUp:
			return PadAction{Action: ActionTempoUp}
		}
	case e.Col == SideCol:
		if e.Row >= 0 && e.Row < tones && e.Row < GridRows {
			return PadAction{Action: ActionTone, Index: tones - 1 - e.Row}
		}
	case e.Row == 0 || e.Row == 1:
		if e.Col >= 0 && e.Col < 8 {
			return PadAction{Action: ActionToggleStep, Index: (1-e.Row)*8 + e.Col}
		}
	}
	return PadAction{}
}

// GridView is what the LEDs show, copied out of the metronome state
type GridView struct {
	Active   [GridSteps]bool
	Audible  [GridSteps]bool // passes the resolution filter
	Playhead int             // -1 when nothing has played
	Playing  bool
	Tone     int
	Tones    int
}

// Grid colours
var (
	LEDStepOn       = [3]uint8{0, 255, 0}
	LEDStepMuted    = [3]uint8{0, 100, 0}
	LEDStepOff      = [3]uint8{40, 60, 120}
	LEDPlayhead     = [3]uint8{255, 255, 255}
	LEDToneSelected = [3]uint8{255, 200, 0}
	LEDTone         = [3]uint8{255, 100, 0}
	LEDPlay         = [3]uint8{0, 255, 0}
	LEDStop         = [3]uint8{255, 0, 0}
	LEDControl      = [3]uint8{0, 200, 200}
)

// RenderGrid lays out every lit pad for v. Pads not returned are dark.
func RenderGrid(v GridView) []LEDUpdate {
	leds := make([]LEDUpdate, 0, GridSteps+v.Tones+4)

	for i := 0; i < GridSteps; i++ {
		row, col := StepPad(i)
		color := LEDStepOff
		switch {
		case v.Active[i] && v.Audible[i]:
			color = LEDStepOn
		case v.Active[i]:
			color = LEDStepMuted
		}
		if i == v.Playhead && v.Playing {
			color = LEDPlayhead
		}
		leds = append(leds, LEDUpdate{Row: row, Col: col, Color: color})
	}

	for i := 0; i < v.Tones && i < GridRows; i++ {
		row, col := TonePad(i, v.Tones)
		color, ch := LEDTone, ChannelStatic
		if i == v.Tone {
			color = LEDToneSelected
			if v.Playing {
				ch = ChannelPulse
			}
		}
		leds = append(leds, LEDUpdate{Row: row, Col: col, Color: color, Channel: ch})
	}

	play := LEDPlay
	if v.Playing {
		play = LEDStop
	}
	leds = append(leds,
		LEDUpdate{Row: TopRow, Col: TopPlay, Color: play},
		LEDUpdate{Row: TopRow, Col: TopResolution, Color: LEDControl},
		LEDUpdate{Row: TopRow, Col: TopTempoDown, Color: LEDControl},
		LEDUpdate{Row: TopRow, Col: TopTempoUp, Color: LEDControl},
	)
	return leds
}
