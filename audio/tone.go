package audio

import "math"

const (
	// Gain applied to every voice so a few overlapping tones don't clip
	Gain = 0.3

	// Fade in/out length in seconds, long enough to avoid clicks at note edges
	FadeSeconds = 0.002
)

// Tone is a sine oscillator with a linear attack and release. It knows only
// its own length in frames; the mixer decides when it starts.
type Tone struct {
	phase  float64
	step   float64
	pos    int
	length int
	fade   int
}

// NewTone builds a tone of freq Hz lasting duration seconds
func NewTone(freq, duration float64, sampleRate int) *Tone {
	length := int(math.Round(duration * float64(sampleRate)))
	if length < 1 {
		length = 1
	}
	fade := int(FadeSeconds * float64(sampleRate))
	if fade*2 > length {
		fade = length / 2
	}
	return &Tone{
		step:   2 * math.Pi * freq / float64(sampleRate),
		length: length,
		fade:   fade,
	}
}

// Len is the tone length in frames
func (t *Tone) Len() int { return t.length }

// Done reports whether every frame has been rendered
func (t *Tone) Done() bool { return t.pos >= t.length }

// Sample returns the next mono sample and whether the tone has finished
func (t *Tone) Sample() (float64, bool) {
	if t.pos >= t.length {
		return 0, true
	}
	env := 1.0
	if t.fade > 0 {
		if t.pos < t.fade {
			env = float64(t.pos) / float64(t.fade)
		} else if rem := t.length - t.pos; rem <= t.fade {
			env = float64(rem-1) / float64(t.fade)
		}
	}
	s := math.Sin(t.phase) * env * Gain
	t.phase += t.step
	if t.phase >= 2*math.Pi {
		t.phase -= 2 * math.Pi
	}
	t.pos++
	return s, t.pos >= t.length
}
