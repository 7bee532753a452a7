package sequencer

import (
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-metronome/config"
	"go-metronome/errkind"
)

const (
	MinTempo = config.MinTempo
	MaxTempo = config.MaxTempo

	DefaultTempo      = 120.0
	DefaultNoteLength = 0.10
)

// Transport is the playback clock state. Cursor and NextNoteTime belong to the
// Scheduler; everything else is set through State's mutators.
type Transport struct {
	Tempo        float64
	Resolution   Resolution
	Playing      bool
	Cursor       int
	NextNoteTime float64 // audio-clock seconds
}

// DisplayState tracks what the render loop last drew
type DisplayState struct {
	LastDrawn int  // -1 before the first frame
	Dirty     bool // pattern or tone edited since last draw
}

// State is the single source of truth for one metronome instance. It is not
// safe for concurrent use; every reader and writer runs on the same consumer.
type State struct {
	Pattern    Pattern
	Tones      []float64
	Tone       int
	NoteLength float64 // seconds
	Transport  Transport
	Display    DisplayState
}

// NewState creates a new state with defaults
func NewState() *State {
	tones := make([]float64, len(DefaultTones))
	copy(tones, DefaultTones)
	return &State{
		Tones:      tones,
		NoteLength: DefaultNoteLength,
		Transport: Transport{
			Tempo:      DefaultTempo,
			Resolution: Sixteenth,
		},
		Display: DisplayState{LastDrawn: -1},
	}
}

// ToggleStep flips step i and marks the display dirty
func (s *State) ToggleStep(i int) error {
	if i < 0 || i >= NumSteps {
		return fault.New(fmt.Sprintf("step %d out of range", i),
			ftag.With(errkind.InvalidConfig),
			fmsg.WithDesc("step out of range", fmt.Sprintf("Step must be between 1 and %d.", NumSteps)))
	}
	s.Pattern[i].Active = !s.Pattern[i].Active
	s.Display.Dirty = true
	return nil
}

// SetTone selects a tone, clamped to the tone list, and marks the display dirty
func (s *State) SetTone(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(s.Tones)-1 {
		i = len(s.Tones) - 1
	}
	s.Tone = i
	s.Display.Dirty = true
}

// SetTones replaces the tone ladder, re-clamping the selection
func (s *State) SetTones(tones []float64) error {
	if len(tones) == 0 {
		return fault.New("empty tone list", ftag.With(errkind.InvalidConfig))
	}
	for _, f := range tones {
		if !(f > 0) {
			return fault.New(fmt.Sprintf("bad tone frequency %v", f), ftag.With(errkind.InvalidConfig))
		}
	}
	s.Tones = append(s.Tones[:0:0], tones...)
	s.SetTone(s.Tone)
	return nil
}

// Frequency is the pitch every tone is scheduled at right now
func (s *State) Frequency() float64 {
	return s.Tones[s.Tone]
}

// SetResolution rejects unknown modes
func (s *State) SetResolution(r Resolution) error {
	if !r.Valid() {
		return fault.New(fmt.Sprintf("unknown resolution %d", int(r)),
			ftag.With(errkind.InvalidConfig),
			fmsg.WithDesc("unknown resolution", "Resolution must be 16th, 8th or quarter."))
	}
	s.Transport.Resolution = r
	return nil
}

// SetTempo clamps bpm into [MinTempo, MaxTempo] and returns the value applied
func (s *State) SetTempo(bpm float64) float64 {
	if math.IsNaN(bpm) || bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	s.Transport.Tempo = bpm
	return bpm
}

// SetNoteLength sets the tone duration in seconds; non-positive values are ignored
func (s *State) SetNoteLength(sec float64) {
	if sec > 0 {
		s.NoteLength = sec
	}
}

// SecondsPerStep is the length of one 16th note at the current tempo
func (s *State) SecondsPerStep() float64 {
	return 0.25 * (60.0 / s.Transport.Tempo)
}
