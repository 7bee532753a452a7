package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-metronome/debug"
)

// Launchpad X note layout:
//   grid     row 0 (bottom) = notes 11-18 ... row 7 = notes 81-88
//   side     col 8 = notes 19, 29 ... 89
//   top row  row 8 = CC 91-98
const (
	GridRows = 8
	TopRow   = 8
	SideCol  = 8
)

var (
	sysexProgrammerMode = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}
	sysexBrightnessMax  = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}
	sysexLEDFeedback    = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}
)

// Launchpad drives a Novation Launchpad X in programmer mode
type Launchpad struct {
	id   string
	send func(msg gomidi.Message) error
	stop func()

	pads      chan PadEvent
	closeOnce sync.Once
}

// OpenLaunchpad puts the device in programmer mode and starts listening.
// Either port may be nil.
func OpenLaunchpad(id string, in drivers.In, out drivers.Out) (*Launchpad, error) {
	lp := &Launchpad{
		id:   id,
		pads: make(chan PadEvent, 32),
	}

	if out != nil {
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send
		for _, msg := range [][]byte{sysexProgrammerMode, sysexBrightnessMax, sysexLEDFeedback} {
			if err := send(gomidi.SysEx(msg)); err != nil {
				debug.Warn("launchpad", "%s: sysex failed: %v", id, err)
			}
		}
	}

	if in != nil {
		stop, err := gomidi.ListenTo(in, lp.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stop = stop
	}

	debug.Log("launchpad", "opened %s", id)
	return lp, nil
}

// handle runs on the driver's goroutine; a full channel drops the press
func (lp *Launchpad) handle(msg gomidi.Message, _ int32) {
	evt, ok := decodePad(msg)
	if !ok {
		return
	}
	select {
	case lp.pads <- evt:
	default:
		debug.LogEvery(10, "launchpad", "pad dropped")
	}
}

func decodePad(msg gomidi.Message) (PadEvent, bool) {
	var channel, key, value uint8
	if msg.GetNoteOn(&channel, &key, &value) && value > 0 {
		if row, col, ok := noteToPad(key); ok {
			return PadEvent{Row: row, Col: col, Velocity: value}, true
		}
	}
	if msg.GetControlChange(&channel, &key, &value) && value > 0 {
		if key >= 91 && key <= 98 {
			return PadEvent{Row: TopRow, Col: int(key - 91), Velocity: value}, true
		}
	}
	return PadEvent{}, false
}

func (lp *Launchpad) ID() string { return lp.id }
func (lp *Launchpad) Type() ControllerType { return ControllerLaunchpad }

func (lp *Launchpad) PadEvents() <-chan PadEvent { return lp.pads }

// SetLEDBatch sends one NoteOn per update; the caller diffs so batches stay small
func (lp *Launchpad) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil {
		return nil
	}
	for _, u := range updates {
		msg := gomidi.NoteOn(u.Channel, padToNote(u.Row, u.Col), NearestColor(u.Color))
		if err := lp.send(msg); err != nil {
			return fmt.Errorf("led %d,%d: %w", u.Row, u.Col, err)
		}
	}
	debug.LogEvery(100, "launchpad", "led batch=%d", len(updates))
	return nil
}

// Close blanks every LED and stops listening
func (lp *Launchpad) Close() error {
	lp.closeOnce.Do(func() {
		if lp.send != nil {
			var off []LEDUpdate
			for row := 0; row <= TopRow; row++ {
				for col := 0; col <= SideCol; col++ {
					if row == TopRow && col == SideCol {
						continue
					}
					off = append(off, LEDUpdate{Row: row, Col: col})
				}
			}
			lp.SetLEDBatch(off)
		}
		if lp.stop != nil {
			lp.stop()
		}
		close(lp.pads)
	})
	return nil
}

func padToNote(row, col int) uint8 {
	if row == TopRow {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToPad(note uint8) (row, col int, ok bool) {
	if note >= 91 && note <= 98 {
		return TopRow, int(note - 91), true
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row >= GridRows || col < 0 || col > SideCol {
		return 0, 0, false
	}
	return row, col, true
}

// paletteRGB approximates the Launchpad X palette entries we draw with
var paletteRGB = []struct {
	velocity uint8
	rgb      [3]uint8
}{
	{ColorOff, [3]uint8{0, 0, 0}},
	{ColorRed, [3]uint8{255, 0, 0}},
	{ColorOrange, [3]uint8{255, 100, 0}},
	{ColorYellow, [3]uint8{255, 200, 0}},
	{ColorDimGreen, [3]uint8{0, 100, 0}},
	{ColorBrightGreen, [3]uint8{0, 255, 0}},
	{ColorCyan, [3]uint8{0, 200, 200}},
	{ColorDimBlue, [3]uint8{40, 60, 120}},
	{ColorBlue, [3]uint8{0, 100, 255}},
	{ColorPurple, [3]uint8{150, 0, 200}},
	{ColorWhite, [3]uint8{255, 255, 255}},
}

// NearestColor maps an RGB colour to the closest palette velocity
func NearestColor(rgb [3]uint8) uint8 {
	best := ColorOff
	bestDist := -1
	for _, p := range paletteRGB {
		dr := int(rgb[0]) - int(p.rgb[0])
		dg := int(rgb[1]) - int(p.rgb[1])
		db := int(rgb[2]) - int(p.rgb[2])
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = p.velocity, dist
		}
	}
	return best
}
