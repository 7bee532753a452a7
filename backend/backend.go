// Package backend opens the audio engine named in the config. It is the only
// package that links the platform audio and MIDI drivers.
package backend

import (
	"context"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-metronome/audio"
	"go-metronome/audio/speaker"
	"go-metronome/config"
	"go-metronome/debug"
	"go-metronome/errkind"
	"go-metronome/midi"
)

const midiListTimeout = 3 * time.Second

// Closer releases an engine
type Closer func()

// Open starts the engine for cfg.Backend. MIDI dispatch runs until ctx is done.
func Open(ctx context.Context, cfg *config.Config) (audio.Engine, Closer, error) {
	switch cfg.Backend {
	case config.BackendOto, "":
		synth, err := speaker.Open(cfg.SampleRate)
		if err != nil {
			return nil, nil, err
		}
		return synth, func() {
			if err := synth.Close(); err != nil {
				debug.Warn("audio", "close: %v", err)
			}
		}, nil

	case config.BackendMIDI:
		out, err := midi.OpenOutput(cfg.MIDIPort, int(cfg.MIDIChannel))
		if err != nil {
			return nil, nil, err
		}
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			out.Run(runCtx)
			close(done)
		}()
		return out, func() {
			cancel()
			<-done
			audio.LogStats("midi", out)
			gomidi.CloseDriver()
		}, nil

	case config.BackendNone:
		silent := audio.NewSilent()
		return silent, func() { audio.LogStats("none", silent) }, nil
	}

	return nil, nil, fault.New("unknown backend "+string(cfg.Backend),
		ftag.With(errkind.AudioUnavailable),
		fmsg.WithDesc("unknown backend", "Audio unavailable: unknown backend "+string(cfg.Backend)+"."))
}

// OpenOrSilent falls back to the silent engine when the configured one fails,
// so the grid stays usable. The error is returned for display.
func OpenOrSilent(ctx context.Context, cfg *config.Config) (audio.Engine, Closer, error) {
	engine, closer, err := Open(ctx, cfg)
	if err == nil {
		return engine, closer, nil
	}
	debug.Warn("audio", "%s backend failed, running silent: %v", cfg.Backend, err)
	silent := audio.NewSilent()
	return silent, func() { audio.LogStats("fallback", silent) }, err
}

// ListPorts returns MIDI port names, for the CLI
func ListPorts() (ins, outs []string, err error) {
	ports, err := midi.ListPorts(midiListTimeout)
	if err != nil {
		return nil, nil, err
	}
	ins, outs = ports.Names()
	return ins, outs, nil
}

// StartDevices runs Launchpad hot-plug detection until ctx is done
func StartDevices(ctx context.Context) *midi.DeviceManager {
	dm := midi.NewDeviceManager()
	go dm.Run(ctx)
	return dm
}
