package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/Southclaws/fault/ftag"

	"go-metronome/errkind"
)

func render(m *Mixer, frames int) []float32 {
	buf := make([]float32, frames*2)
	m.Process(buf)
	return buf
}

func TestMixerClockAdvancesWithFrames(t *testing.T) {
	m := NewMixer(1000)
	if m.Now() != 0 {
		t.Fatalf("now = %v, want 0", m.Now())
	}
	render(m, 250)
	if m.Now() != 0.25 {
		t.Fatalf("now = %v, want 0.25", m.Now())
	}
	render(m, 750)
	if m.Now() != 1 {
		t.Fatalf("now = %v, want 1", m.Now())
	}
}

func TestMixerStartsToneAtSampleOffset(t *testing.T) {
	m := NewMixer(1000)
	if err := m.ScheduleTone(100, 0.010, 0.008); err != nil {
		t.Fatal(err)
	}
	buf := render(m, 30)

	for i := 0; i < 10; i++ {
		if buf[2*i] != 0 {
			t.Fatalf("frame %d = %v before the tone starts", i, buf[2*i])
		}
	}
	var heard bool
	for i := 10; i < 18; i++ {
		if buf[2*i] != buf[2*i+1] {
			t.Fatalf("frame %d not centred: %v / %v", i, buf[2*i], buf[2*i+1])
		}
		if buf[2*i] != 0 {
			heard = true
		}
	}
	if !heard {
		t.Fatal("tone never sounded")
	}
	for i := 18; i < 30; i++ {
		if buf[2*i] != 0 {
			t.Fatalf("frame %d = %v after the tone ended", i, buf[2*i])
		}
	}
	if m.Voices() != 0 {
		t.Fatalf("voices = %d, want finished voice released", m.Voices())
	}
}

func TestMixerLateToneClamped(t *testing.T) {
	m := NewMixer(1000)
	render(m, 20)
	if err := m.ScheduleTone(100, 0.001, 0.010); err != nil {
		t.Fatal(err)
	}
	buf := render(m, 10)
	var heard bool
	for i := 0; i < 10; i++ {
		if buf[2*i] != 0 {
			heard = true
		}
	}
	if !heard {
		t.Fatal("late tone was dropped instead of played now")
	}
}

func TestMixerVoicesExhausted(t *testing.T) {
	m := NewMixer(1000)
	for i := 0; i < MaxVoices; i++ {
		if err := m.ScheduleTone(440, 1, 0.1); err != nil {
			t.Fatalf("voice %d: %v", i, err)
		}
	}
	err := m.ScheduleTone(440, 1, 0.1)
	if !errors.Is(err, ErrVoicesExhausted) {
		t.Fatalf("err = %v, want ErrVoicesExhausted", err)
	}
	if kind := ftag.Get(err); kind != errkind.ScheduleFailed {
		t.Fatalf("kind = %q", kind)
	}
}

func TestMixerRejectsBadTone(t *testing.T) {
	m := NewMixer(1000)
	for _, tc := range []struct{ freq, dur float64 }{{0, 0.1}, {440, 0}, {math.NaN(), 0.1}} {
		if err := m.ScheduleTone(tc.freq, 0, tc.dur); err == nil {
			t.Fatalf("ScheduleTone(%v, 0, %v): expected error", tc.freq, tc.dur)
		}
	}
}

func TestMixerClips(t *testing.T) {
	m := NewMixer(1000)
	for i := 0; i < 10; i++ {
		m.ScheduleTone(250, 0, 0.1)
	}
	for _, s := range render(m, 100) {
		if s > 1 || s < -1 {
			t.Fatalf("sample %v out of range", s)
		}
	}
}
