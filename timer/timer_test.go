package timer

import (
	"testing"
	"time"

	"github.com/Southclaws/fault/ftag"

	"go-metronome/errkind"
)

func waitTick(t *testing.T, s *Source, within time.Duration) {
	t.Helper()
	select {
	case <-s.Ticks():
	case <-time.After(within):
		t.Fatalf("no tick within %s", within)
	}
}

func TestNewRejectsBadInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Millisecond} {
		_, err := New(d)
		if err == nil {
			t.Fatalf("New(%s): expected error", d)
		}
		if kind := ftag.Get(err); kind != errkind.InvalidConfig {
			t.Fatalf("New(%s): kind %q", d, kind)
		}
	}
}

func TestStartTicksImmediately(t *testing.T) {
	s, err := New(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitTick(t, s, time.Second)
}

func TestTicksRepeat(t *testing.T) {
	s, _ := New(5 * time.Millisecond)
	defer s.Close()
	s.Start()
	for i := 0; i < 4; i++ {
		waitTick(t, s, time.Second)
	}
}

func TestStopHaltsTicks(t *testing.T) {
	s, _ := New(5 * time.Millisecond)
	defer s.Close()
	s.Start()
	waitTick(t, s, time.Second)
	s.Stop()

	// drain a tick that may have been buffered before Stop
	select {
	case <-s.Ticks():
	default:
	}
	select {
	case <-s.Ticks():
		t.Fatal("tick after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTicksCoalesce(t *testing.T) {
	s, _ := New(time.Millisecond)
	defer s.Close()
	s.Start()
	time.Sleep(30 * time.Millisecond)
	if n := len(s.ticks); n > 1 {
		t.Fatalf("%d ticks buffered, want at most 1", n)
	}
}

func TestSetInterval(t *testing.T) {
	s, _ := New(time.Hour)
	defer s.Close()
	s.Start()
	waitTick(t, s, time.Second)

	if err := s.SetInterval(5 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	waitTick(t, s, time.Second)

	if err := s.SetInterval(0); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestClosedSourceUnavailable(t *testing.T) {
	s, _ := New(time.Millisecond)
	s.Close()
	s.Close()

	err := s.Start()
	if kind := ftag.Get(err); kind != errkind.TimerUnavailable {
		t.Fatalf("start after close: kind %q (%v)", kind, err)
	}
	s.Stop()
}
