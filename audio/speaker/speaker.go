// Package speaker plays an audio.Mixer through the system output with oto.
package speaker

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/ebitengine/oto/v3"

	"go-metronome/audio"
	"go-metronome/debug"
	"go-metronome/errkind"
)

// bufferFrames keeps device latency near 10ms at common sample rates
const bufferFrames = 512

// Synth is the speaker-backed engine. Its clock is the mixer's frame count,
// so it only moves while oto is pulling audio.
type Synth struct {
	*audio.Mixer

	ctx    *oto.Context
	player *oto.Player
	reader *audio.StreamReader
}

// Open creates the oto context and starts streaming silence until tones are
// scheduled. Only one oto context can exist per process.
func Open(sampleRate int) (*Synth, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fault.Wrap(err,
			ftag.With(errkind.AudioUnavailable),
			fmsg.WithDesc("open audio device", "Audio unavailable: could not open the sound device."))
	}
	<-ready

	mixer := audio.NewMixer(sampleRate)
	reader := audio.NewStreamReader(mixer)
	player := ctx.NewPlayer(reader)
	player.SetBufferSize(bufferFrames * 2 * 4)
	player.Play()

	debug.Log("audio", "oto ready: %d Hz stereo float32", sampleRate)
	return &Synth{
		Mixer:  mixer,
		ctx:    ctx,
		player: player,
		reader: reader,
	}, nil
}

// Close stops playback. Tones still pending in the mixer are dropped.
func (s *Synth) Close() error {
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("close audio player"))
	}
	debug.Log("audio", "oto closed")
	return s.reader.Close()
}
