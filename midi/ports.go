package midi

import (
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-metronome/errkind"
)

// portTimeout bounds a port listing; CoreMIDI can hang indefinitely
const portTimeout = 3 * time.Second

// ErrPortsTimeout means the MIDI driver did not answer in time
var ErrPortsTimeout = fault.New("MIDI port listing timed out",
	ftag.With(errkind.AudioUnavailable),
	fmsg.WithDesc("port listing timed out", "MIDI unavailable: the driver is not responding (try: sudo killall coreaudiod midiserver)."))

// Ports is one snapshot of the driver's ports
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// ListPorts asks the registered driver for its ports, giving up after timeout
func ListPorts(timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: gomidi.GetInPorts(), Outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		return Ports{}, ErrPortsTimeout
	}
}

// OutPorts lists only output ports
func OutPorts(timeout time.Duration) ([]drivers.Out, error) {
	p, err := ListPorts(timeout)
	return p.Outs, err
}

// Names returns the port names in driver order
func (p Ports) Names() (ins, outs []string) {
	for _, in := range p.Ins {
		ins = append(ins, in.String())
	}
	for _, out := range p.Outs {
		outs = append(outs, out.String())
	}
	return ins, outs
}

// IsLaunchpad matches the MIDI (not DAW) port of a Novation Launchpad
func IsLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
