package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

type constSource float32

func (c constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = float32(c)
	}
}

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	r := NewStreamReader(constSource(0.5))
	p := make([]byte, 20)
	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 16 {
		t.Fatalf("n = %d, want 16 (two whole stereo frames)", n)
	}
	for i := 0; i < 4; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != 0.5 {
			t.Fatalf("sample %d = %v, want 0.5", i, got)
		}
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r := NewStreamReader(constSource(1))
	n, err := r.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Fatalf("Read(7 bytes) = %d, %v", n, err)
	}
}

func TestStreamReaderDrivesMixerClock(t *testing.T) {
	m := NewMixer(1000)
	r := NewStreamReader(m)
	r.Read(make([]byte, 8*500))
	if m.Now() != 0.5 {
		t.Fatalf("now = %v, want 0.5", m.Now())
	}
}
