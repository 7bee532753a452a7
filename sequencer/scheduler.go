package sequencer

import (
	"go-metronome/debug"
)

// DefaultScheduleAhead is how far past the audio clock each pass commits tones (seconds)
const DefaultScheduleAhead = 0.1

// Engine is the audio engine the scheduler commits tones to. Now must be
// monotonic; ScheduleTone is fire-and-forget and cannot be retracted.
type Engine interface {
	Now() float64
	ScheduleTone(freq, start, duration float64) error
}

// Scheduler walks the step cursor ahead of the audio clock. It owns
// Transport.Cursor and Transport.NextNoteTime; everything else it reads from
// State at the moment each note is emitted, so edits land on the next pass.
type Scheduler struct {
	state  *State
	engine Engine
	queue  *NoteQueue

	ScheduleAhead float64

	emitted int
	missed  int
}

// NewScheduler creates a scheduler over shared state
func NewScheduler(state *State, engine Engine, queue *NoteQueue) *Scheduler {
	return &Scheduler{
		state:         state,
		engine:        engine,
		queue:         queue,
		ScheduleAhead: DefaultScheduleAhead,
	}
}

// Start rewinds the cursor to step 0 at the current audio time
func (s *Scheduler) Start() {
	t := &s.state.Transport
	t.Cursor = 0
	t.NextNoteTime = s.engine.Now()
}

// Pass emits every step due before now+ScheduleAhead and returns how many it emitted
func (s *Scheduler) Pass() int {
	n := 0
	for s.state.Transport.NextNoteTime < s.engine.Now()+s.ScheduleAhead {
		s.emit(s.state.Transport.Cursor, s.state.Transport.NextNoteTime)
		s.Advance()
		n++
	}
	return n
}

// Advance moves the cursor one 16th note, using the tempo in effect now
func (s *Scheduler) Advance() {
	t := &s.state.Transport
	t.NextNoteTime += s.state.SecondsPerStep()
	t.Cursor = (t.Cursor + 1) % NumSteps
}

func (s *Scheduler) emit(step int, at float64) {
	// The queue sees every step, audible or not; the playhead keeps 16th granularity.
	s.queue.Push(ScheduledNote{Step: step, Time: at})
	s.emitted++

	if !s.state.Transport.Resolution.Audible(step) {
		return
	}
	if !s.state.Pattern[step].Active {
		return
	}

	freq := s.state.Frequency()
	if err := s.engine.ScheduleTone(freq, at, s.state.NoteLength); err != nil {
		s.missed++
		debug.Warn("sched", "missed step=%d at=%.4f freq=%.2f: %v", step, at, freq, err)
		return
	}
	debug.Log("sched", "step=%d at=%.4f freq=%.2f", step, at, freq)
}

// Emitted returns how many notes have been pushed to the queue
func (s *Scheduler) Emitted() int {
	return s.emitted
}

// Missed returns how many tones the engine refused
func (s *Scheduler) Missed() int {
	return s.missed
}
