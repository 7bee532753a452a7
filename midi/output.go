package midi

import (
	"container/heap"
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-metronome/debug"
	"go-metronome/errkind"
)

// DefaultVelocity is the NoteOn velocity for metronome clicks
const DefaultVelocity uint8 = 100

// Sender writes one message to a port
type Sender func(msg gomidi.Message) error

// eventHeap orders events by time, then by insertion
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At < h[j].At
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any) { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Output is an engine that plays tones as notes on a MIDI port. Tones are
// split into NoteOn/NoteOff events and dispatched by Run when due.
type Output struct {
	mu      sync.Mutex
	queue   eventHeap
	seq     uint64
	send    Sender
	channel uint8

	start time.Time
	now   func() time.Time

	interrupt chan struct{}

	sent   int
	failed int
}

// NewOutput creates an output on a 1-based MIDI channel writing through send
func NewOutput(send Sender, channel int) *Output {
	if channel < 1 || channel > 16 {
		channel = 1
	}
	return &Output{
		send:      send,
		channel:   uint8(channel - 1),
		start:     time.Now(),
		now:       time.Now,
		interrupt: make(chan struct{}, 1),
	}
}

// OpenOutput opens the named port. An empty name picks the first port.
func OpenOutput(portName string, channel int) (*Output, error) {
	outs, err := OutPorts(portTimeout)
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		return nil, fault.New("no MIDI output ports",
			ftag.With(errkind.AudioUnavailable),
			fmsg.WithDesc("no MIDI output ports", "Audio unavailable: no MIDI output port found."))
	}

	port := outs[0]
	if portName != "" {
		port, err = gomidi.FindOutPort(portName)
		if err != nil {
			return nil, fault.Wrap(err,
				ftag.With(errkind.AudioUnavailable),
				fmsg.WithDesc("find port "+portName, "Audio unavailable: MIDI port "+portName+" not found."))
		}
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fault.Wrap(err,
			ftag.With(errkind.AudioUnavailable),
			fmsg.WithDesc("open port", "Audio unavailable: could not open MIDI port "+port.String()+"."))
	}
	debug.Log("midi", "output on %s ch=%d", port.String(), channel)
	return NewOutput(send, channel), nil
}

// FrequencyToNote returns the nearest equal-tempered MIDI note (A4 = 69)
func FrequencyToNote(freq float64) uint8 {
	if !(freq > 0) {
		return 0
	}
	n := math.Round(69 + 12*math.Log2(freq/440))
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

// Now is wall time since the output was created, in seconds
func (o *Output) Now() float64 {
	return o.now().Sub(o.start).Seconds()
}

// ScheduleTone queues a NoteOn at start and a NoteOff at start+duration
func (o *Output) ScheduleTone(freq, start, duration float64) error {
	if !(freq > 0) || !(duration > 0) {
		return fault.New("tone needs a positive frequency and duration", ftag.With(errkind.InvalidConfig))
	}
	note := FrequencyToNote(freq)

	o.mu.Lock()
	o.push(Event{Type: NoteOn, Channel: o.channel, Note: note, Velocity: DefaultVelocity, At: start})
	o.push(Event{Type: NoteOff, Channel: o.channel, Note: note, At: start + duration})
	o.mu.Unlock()

	o.wake()
	return nil
}

func (o *Output) push(e Event) {
	o.seq++
	e.seq = o.seq
	heap.Push(&o.queue, e)
}

// wake tells Run the head of the queue may have changed
func (o *Output) wake() {
	select {
	case o.interrupt <- struct{}{}:
	default:
	}
}

// Pending returns how many events are waiting
func (o *Output) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Stats returns how many messages were sent and how many sends failed
func (o *Output) Stats() (sent, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent, o.failed
}

// Run dispatches events as they fall due until ctx is done, then releases
// any notes still held.
func (o *Output) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer o.Flush()

	for {
		o.mu.Lock()
		var next *Event
		if len(o.queue) > 0 {
			next = &o.queue[0]
		}
		var wait time.Duration
		if next != nil {
			wait = time.Duration((next.At - o.Now()) * float64(time.Second))
		}
		o.mu.Unlock()

		if next == nil {
			select {
			case <-ctx.Done():
				return
			case <-o.interrupt:
			}
			continue
		}

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-o.interrupt:
				// an earlier event may have arrived
				timer.Stop()
				continue
			case <-timer.C:
			}
		}

		o.mu.Lock()
		if len(o.queue) == 0 || o.queue[0].At > o.Now() {
			o.mu.Unlock()
			continue
		}
		evt := heap.Pop(&o.queue).(Event)
		o.mu.Unlock()

		o.dispatch(evt)
	}
}

func (o *Output) dispatch(evt Event) {
	var msg gomidi.Message
	switch evt.Type {
	case NoteOn:
		msg = gomidi.NoteOn(evt.Channel, evt.Note, evt.Velocity)
	case NoteOff:
		msg = gomidi.NoteOff(evt.Channel, evt.Note)
	default:
		return
	}

	err := o.send(msg)
	o.mu.Lock()
	if err != nil {
		o.failed++
	} else {
		o.sent++
	}
	o.mu.Unlock()

	if err != nil {
		debug.Warn("dispatch", "send failed: %v", err)
		return
	}
	debug.Log("dispatch", "ch=%d at=%.4f type=%#x note=%d", evt.Channel+1, evt.At, evt.Type, evt.Note)
}

// Flush empties the queue. NoteOffs for notes that already sounded are sent
// at once so nothing is left hanging on the receiver.
func (o *Output) Flush() {
	o.mu.Lock()
	var offs []Event
	unsent := make(map[uint8]int)
	for len(o.queue) > 0 {
		e := heap.Pop(&o.queue).(Event)
		switch {
		case e.Type == NoteOn:
			unsent[e.Note]++
		case unsent[e.Note] > 0:
			unsent[e.Note]--
		default:
			offs = append(offs, e)
		}
	}
	o.mu.Unlock()

	for _, e := range offs {
		o.dispatch(e)
	}
}
