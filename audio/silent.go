package audio

import (
	"sync/atomic"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"go-metronome/debug"
	"go-metronome/errkind"
)

// Silent is a wall-clock engine with no output. It accepts every tone and
// counts it, which keeps the transport and display running without a device.
type Silent struct {
	start  time.Time
	now    func() time.Time
	scheds atomic.Int64
	failed atomic.Int64
}

// NewSilent starts the silent clock at zero
func NewSilent() *Silent {
	return &Silent{start: time.Now(), now: time.Now}
}

// Now returns seconds since the engine was created
func (s *Silent) Now() float64 {
	return s.now().Sub(s.start).Seconds()
}

// ScheduleTone records the tone in the debug log
func (s *Silent) ScheduleTone(freq, start, duration float64) error {
	if !(freq > 0) || !(duration > 0) {
		s.failed.Add(1)
		return fault.New("tone needs a positive frequency and duration", ftag.With(errkind.InvalidConfig))
	}
	s.scheds.Add(1)
	debug.Log("silent", "tone %.1fHz at %.4f for %.3fs", freq, start, duration)
	return nil
}

// Stats returns how many tones were accepted and how many were rejected
func (s *Silent) Stats() (sent, failed int) {
	return int(s.scheds.Load()), int(s.failed.Load())
}
