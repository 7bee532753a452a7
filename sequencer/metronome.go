package sequencer

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-metronome/debug"
	"go-metronome/errkind"
)

// Labels returned by TogglePlay for the transport button
const (
	LabelPlay = "play"
	LabelStop = "stop"
)

// Ticker is the heartbeat that wakes the scheduler. Ticks carry no data.
type Ticker interface {
	Start() error
	Stop()
	Ticks() <-chan struct{}
}

// Metronome wires state, scheduler, note queue and display together. Its
// methods are the only way in, and must all be called from one goroutine
// (the TUI update loop or Run).
type Metronome struct {
	State     *State
	Queue     *NoteQueue
	Scheduler *Scheduler
	Display   *Display

	engine Engine
	timer  Ticker
}

// Option configures a Metronome at construction
type Option func(m *Metronome) error

// WithTempo sets the starting tempo (clamped)
func WithTempo(bpm float64) Option {
	return func(m *Metronome) error {
		m.State.SetTempo(bpm)
		return nil
	}
}

// WithResolution sets the starting resolution
func WithResolution(r Resolution) Option {
	return func(m *Metronome) error {
		return m.State.SetResolution(r)
	}
}

// WithTones replaces the tone ladder
func WithTones(tones []float64) Option {
	return func(m *Metronome) error {
		return m.State.SetTones(tones)
	}
}

// WithTone selects the starting tone (clamped)
func WithTone(i int) Option {
	return func(m *Metronome) error {
		m.State.SetTone(i)
		return nil
	}
}

// WithNoteLength sets the tone duration in seconds
func WithNoteLength(sec float64) Option {
	return func(m *Metronome) error {
		m.State.SetNoteLength(sec)
		return nil
	}
}

// WithScheduleAhead sets the look-ahead window in seconds
func WithScheduleAhead(sec float64) Option {
	return func(m *Metronome) error {
		if !(sec > 0) {
			return fault.New("schedule-ahead window must be positive", ftag.With(errkind.InvalidConfig))
		}
		m.Scheduler.ScheduleAhead = sec
		return nil
	}
}

// WithActiveSteps turns on the given steps
func WithActiveSteps(steps ...int) Option {
	return func(m *Metronome) error {
		for _, i := range steps {
			if i < 0 || i >= NumSteps {
				return fault.New("step out of range", ftag.With(errkind.InvalidConfig))
			}
			m.State.Pattern[i].Active = true
		}
		m.State.Display.Dirty = true
		return nil
	}
}

// New creates a metronome playing through engine and woken by timer. A nil
// timer is allowed; TogglePlay then reports the timer as unavailable.
func New(engine Engine, timer Ticker, opts ...Option) (*Metronome, error) {
	state := NewState()
	queue := &NoteQueue{}
	m := &Metronome{
		State:     state,
		Queue:     queue,
		Scheduler: NewScheduler(state, engine, queue),
		Display:   NewDisplay(state, queue),
		engine:    engine,
		timer:     timer,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Ticks exposes the timer's wake-ups (nil when there is no timer)
func (m *Metronome) Ticks() <-chan struct{} {
	if m.timer == nil {
		return nil
	}
	return m.timer.Ticks()
}

// Now reads the audio clock
func (m *Metronome) Now() float64 {
	return m.engine.Now()
}

// Playing reports whether the transport is running
func (m *Metronome) Playing() bool {
	return m.State.Transport.Playing
}

// TogglePlay starts or stops playback and returns the label the transport
// button should show next. A timer that cannot start is a hard failure.
func (m *Metronome) TogglePlay() (string, error) {
	t := &m.State.Transport
	if t.Playing {
		t.Playing = false
		m.timer.Stop()
		debug.Log("transport", "stop at %.4f", m.engine.Now())
		return LabelPlay, nil
	}

	if m.timer == nil {
		return LabelPlay, fault.New("no timer source",
			ftag.With(errkind.TimerUnavailable),
			fmsg.WithDesc("no timer source", "Audio unavailable: no timer to drive playback."))
	}

	m.Scheduler.Start()
	// Notes still queued from an earlier run would sit after the new start
	// time and break the queue's ordering.
	m.Queue.DropFrom(t.NextNoteTime)

	if err := m.timer.Start(); err != nil {
		return LabelPlay, fault.Wrap(err,
			ftag.With(errkind.TimerUnavailable),
			fmsg.WithDesc("start timer", "Audio unavailable: the timer could not start."))
	}
	t.Playing = true
	debug.Log("transport", "play at %.4f tempo=%.1f res=%s", t.NextNoteTime, t.Tempo, t.Resolution)
	return LabelStop, nil
}

// Tick handles one timer wake-up. Ticks that arrive after Stop are ignored.
func (m *Metronome) Tick() int {
	if !m.State.Transport.Playing {
		return 0
	}
	return m.Scheduler.Pass()
}

// Frame runs the render-loop step against the audio clock
func (m *Metronome) Frame(dragging bool) Frame {
	return m.Display.Frame(m.engine.Now(), dragging)
}

// ToggleStep flips a step
func (m *Metronome) ToggleStep(i int) error {
	return m.State.ToggleStep(i)
}

// SetTone selects a tone (clamped)
func (m *Metronome) SetTone(i int) {
	m.State.SetTone(i)
}

// SetResolution changes which steps sound
func (m *Metronome) SetResolution(r Resolution) error {
	return m.State.SetResolution(r)
}

// CycleResolution steps to the next resolution and returns it
func (m *Metronome) CycleResolution() Resolution {
	r := m.State.Transport.Resolution.Next()
	m.State.Transport.Resolution = r
	m.State.Display.Dirty = true
	return r
}

// SetTempo sets the BPM (clamped) and returns the applied value
func (m *Metronome) SetTempo(bpm float64) float64 {
	applied := m.State.SetTempo(bpm)
	m.State.Display.Dirty = true
	return applied
}

// AdjustTempo nudges the tempo by delta BPM
func (m *Metronome) AdjustTempo(delta float64) float64 {
	return m.SetTempo(m.State.Transport.Tempo + delta)
}
