package midi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

type recorder struct {
	mu   sync.Mutex
	msgs []gomidi.Message
	err  error
}

func (r *recorder) send(msg gomidi.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) snapshot() []gomidi.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gomidi.Message(nil), r.msgs...)
}

func TestFrequencyToNote(t *testing.T) {
	cases := []struct {
		freq float64
		want uint8
	}{
		{440, 69},
		{261.626, 60},
		{523.251, 72},
		{587.330, 74},
		{659.255, 76},
		{783.991, 79},
		{880, 81},
		{450, 69},
		{1, 0},
		{0, 0},
		{-5, 0},
		{40000, 127},
	}
	for _, tc := range cases {
		if got := FrequencyToNote(tc.freq); got != tc.want {
			t.Fatalf("FrequencyToNote(%v) = %d, want %d", tc.freq, got, tc.want)
		}
	}
}

func TestScheduleToneQueuesOnAndOff(t *testing.T) {
	rec := &recorder{}
	o := NewOutput(rec.send, 10)
	if err := o.ScheduleTone(440, 1.0, 0.1); err != nil {
		t.Fatal(err)
	}
	if o.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", o.Pending())
	}
	on, off := o.queue[0], o.queue[1]
	if on.At > off.At {
		on, off = off, on
	}
	if on.Type != NoteOn || on.Note != 69 || on.Channel != 9 || on.At != 1.0 {
		t.Fatalf("note on = %+v", on)
	}
	if off.Type != NoteOff || off.At != 1.1 {
		t.Fatalf("note off = %+v", off)
	}
	if err := o.ScheduleTone(440, 1, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestNewOutputChannelFallback(t *testing.T) {
	for _, ch := range []int{0, 17, -1} {
		if o := NewOutput(nil, ch); o.channel != 0 {
			t.Fatalf("channel %d mapped to %d, want 0", ch, o.channel)
		}
	}
}

func TestRunDispatchesInTimeOrder(t *testing.T) {
	rec := &recorder{}
	o := NewOutput(rec.send, 1)

	now := o.Now()
	o.ScheduleTone(880, now+0.02, 0.01)
	o.ScheduleTone(440, now, 0.01)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(rec.snapshot()) < 4 {
		select {
		case <-deadline:
			t.Fatalf("sent %d messages, want 4", len(rec.snapshot()))
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	var ch, key, vel uint8
	want := []struct {
		on   bool
		note uint8
	}{{true, 69}, {false, 69}, {true, 81}, {false, 81}}
	for i, msg := range rec.snapshot() {
		if want[i].on {
			if !msg.GetNoteOn(&ch, &key, &vel) || key != want[i].note {
				t.Fatalf("message %d = %v, want note on %d", i, msg, want[i].note)
			}
		} else if !msg.GetNoteOff(&ch, &key, &vel) || key != want[i].note {
			t.Fatalf("message %d = %v, want note off %d", i, msg, want[i].note)
		}
	}
	if sent, failed := o.Stats(); sent != 4 || failed != 0 {
		t.Fatalf("stats = %d/%d", sent, failed)
	}
}

func TestFlushReleasesSoundingNotes(t *testing.T) {
	rec := &recorder{}
	o := NewOutput(rec.send, 1)

	// One note already sounding, one not yet started.
	o.mu.Lock()
	o.push(Event{Type: NoteOff, Note: 60, At: 5})
	o.push(Event{Type: NoteOn, Note: 62, Velocity: 100, At: 6})
	o.push(Event{Type: NoteOff, Note: 62, At: 6.1})
	o.mu.Unlock()

	o.Flush()
	msgs := rec.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("flush sent %d messages, want 1", len(msgs))
	}
	var ch, key, vel uint8
	if !msgs[0].GetNoteOff(&ch, &key, &vel) || key != 60 {
		t.Fatalf("flush sent %v", msgs[0])
	}
	if o.Pending() != 0 {
		t.Fatalf("pending = %d", o.Pending())
	}
}

func TestSendFailureCounted(t *testing.T) {
	rec := &recorder{err: errors.New("port gone")}
	o := NewOutput(rec.send, 1)
	o.dispatch(Event{Type: NoteOn, Note: 60, Velocity: 1})
	if sent, failed := o.Stats(); sent != 0 || failed != 1 {
		t.Fatalf("stats = %d/%d", sent, failed)
	}
}
