package audio

import (
	"math"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"go-metronome/debug"
	"go-metronome/errkind"
)

// MaxVoices caps how many tones may be pending or sounding at once
const MaxVoices = 64

// ErrVoicesExhausted is returned when a tone arrives while every voice is busy
var ErrVoicesExhausted = fault.New("all voices busy", ftag.With(errkind.ScheduleFailed))

type voice struct {
	start int64
	tone  *Tone
}

// Mixer sums scheduled tones into a stereo stream. The scheduler calls
// ScheduleTone from its goroutine while the audio device pulls Process from
// another, so voices are guarded by a mutex.
type Mixer struct {
	mu         sync.Mutex
	sampleRate int
	pos        int64
	voices     []voice
}

// NewMixer creates a mixer at the given sample rate
func NewMixer(sampleRate int) *Mixer {
	return &Mixer{sampleRate: sampleRate}
}

// SampleRate returns the rate the mixer renders at
func (m *Mixer) SampleRate() int { return m.sampleRate }

// Now is the audio clock: frames rendered so far in seconds
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.pos) / float64(m.sampleRate)
}

// Voices returns how many tones are pending or sounding
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// ScheduleTone commits a tone starting at start seconds on the mixer clock.
// A start already in the past plays from the next rendered frame.
func (m *Mixer) ScheduleTone(freq, start, duration float64) error {
	if !(freq > 0) || !(duration > 0) {
		return fault.New("tone needs a positive frequency and duration", ftag.With(errkind.InvalidConfig))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.voices) >= MaxVoices {
		return ErrVoicesExhausted
	}
	frame := int64(math.Round(start * float64(m.sampleRate)))
	if frame < m.pos {
		debug.LogEvery(50, "mixer", "late tone %.4f clamped to %.4f", start, float64(m.pos)/float64(m.sampleRate))
		frame = m.pos
	}
	m.voices = append(m.voices, voice{start: frame, tone: NewTone(freq, duration, m.sampleRate)})
	return nil
}

// Process fills dst with interleaved stereo frames and advances the clock
func (m *Mixer) Process(dst []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(dst) / 2
	for i := 0; i < frames; i++ {
		now := m.pos + int64(i)
		var sum float64
		for _, v := range m.voices {
			if now >= v.start && !v.tone.Done() {
				s, _ := v.tone.Sample()
				sum += s
			}
		}
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		dst[2*i] = float32(sum)
		dst[2*i+1] = float32(sum)
	}
	m.pos += int64(frames)

	live := m.voices[:0]
	for _, v := range m.voices {
		if !v.tone.Done() {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = voice{}
	}
	m.voices = live
}
