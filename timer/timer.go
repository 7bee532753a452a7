// Package timer is the metronome's heartbeat: a worker goroutine that wakes
// the scheduler at a fixed interval and keeps running however busy the UI is.
package timer

import (
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-metronome/debug"
	"go-metronome/errkind"
)

// DefaultInterval is how often the scheduler is woken while playing
const DefaultInterval = 25 * time.Millisecond

// ErrUnavailable is returned once the source has been closed
var ErrUnavailable = fault.New("timer source closed",
	ftag.With(errkind.TimerUnavailable),
	fmsg.WithDesc("timer source closed", "Audio unavailable: the timer worker has shut down."))

type command int

const (
	cmdStart command = iota
	cmdStop
	cmdInterval
)

type message struct {
	cmd      command
	interval time.Duration
}

// Source emits empty ticks every interval between Start and Stop. Ticks are
// coalesced: a consumer that falls behind sees one pending tick, not a backlog.
type Source struct {
	control chan message
	ticks   chan struct{}
	quit    chan struct{}
	done    chan struct{}

	closeOnce sync.Once
}

// New starts the worker goroutine. It idles until Start.
func New(interval time.Duration) (*Source, error) {
	if interval <= 0 {
		return nil, fault.New("timer interval must be positive", ftag.With(errkind.InvalidConfig))
	}
	s := &Source{
		control: make(chan message),
		ticks:   make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.loop(interval)
	return s, nil
}

// Ticks is the channel the consumer selects on
func (s *Source) Ticks() <-chan struct{} {
	return s.ticks
}

// Start begins ticking. The first tick is delivered immediately.
func (s *Source) Start() error {
	return s.send(message{cmd: cmdStart})
}

// Stop halts ticking. A tick already buffered may still be received.
func (s *Source) Stop() {
	if err := s.send(message{cmd: cmdStop}); err != nil {
		debug.Log("timer", "stop after close ignored")
	}
}

// SetInterval changes the tick period, taking effect on the next tick
func (s *Source) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fault.New("timer interval must be positive", ftag.With(errkind.InvalidConfig))
	}
	return s.send(message{cmd: cmdInterval, interval: d})
}

// Close stops the worker. Further Start calls fail with ErrUnavailable.
func (s *Source) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
	})
}

func (s *Source) send(msg message) error {
	select {
	case <-s.quit:
		return ErrUnavailable
	default:
	}
	select {
	case s.control <- msg:
		return nil
	case <-s.quit:
		return ErrUnavailable
	}
}

func (s *Source) tick() {
	select {
	case s.ticks <- struct{}{}:
	default:
	}
}

func (s *Source) loop(interval time.Duration) {
	defer close(s.done)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stop()

	for {
		select {
		case <-s.quit:
			return
		case msg := <-s.control:
			switch msg.cmd {
			case cmdStart:
				if ticker == nil {
					ticker = time.NewTicker(interval)
					tickC = ticker.C
				}
				s.tick()
				debug.Log("timer", "start interval=%s", interval)
			case cmdStop:
				stop()
				debug.Log("timer", "stop")
			case cmdInterval:
				interval = msg.interval
				if ticker != nil {
					ticker.Reset(interval)
				}
				debug.Log("timer", "interval=%s", interval)
			}
		case <-tickC:
			s.tick()
		}
	}
}
