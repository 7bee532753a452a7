package sequencer

import (
	"context"
	"time"
)

// FrameRate is the refresh rate of the headless render loop
const FrameRate = 60

// FrameFunc draws one frame. It is only called when the frame needs a repaint.
type FrameFunc func(f Frame, s *State)

// Command is a unit of user input applied on the metronome's goroutine
type Command func(m *Metronome)

// Run is the headless single-consumer loop: timer ticks, frames and commands
// are serialised here, so none of them need locks. It returns when ctx is done.
func (m *Metronome) Run(ctx context.Context, commands <-chan Command, draw FrameFunc) error {
	frames := time.NewTicker(time.Second / FrameRate)
	defer frames.Stop()

	ticks := m.Ticks()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			m.Tick()
		case <-frames.C:
			if f := m.Frame(false); f.Redraw && draw != nil {
				draw(f, m.State)
			}
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			cmd(m)
		}
	}
}
