// Package audio holds the sample-accurate tone engine: a mixer of short sine
// voices clocked by the frames it has rendered, plus a silent stand-in.
package audio

import "go-metronome/debug"

// Engine is the clock and tone sink the scheduler commits notes into.
// Times are seconds on the engine's own monotonic clock.
type Engine interface {
	Now() float64
	ScheduleTone(freq, start, duration float64) error
}

// Reporter is implemented by engines that count what they delivered
type Reporter interface {
	Stats() (sent, failed int)
}

// LogStats writes the delivery counts of e to the debug log, if it keeps any
func LogStats(name string, e Engine) {
	r, ok := e.(Reporter)
	if !ok {
		return
	}
	sent, failed := r.Stats()
	debug.Log("audio", "%s sent=%d failed=%d", name, sent, failed)
}

// SampleSource renders interleaved stereo float32 frames
type SampleSource interface {
	Process(dst []float32)
}
