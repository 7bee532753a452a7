package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/mitchellh/go-homedir"

	"go-metronome/errkind"
)

// Backend names the audio engine a session plays through
type Backend string

const (
	BackendOto  Backend = "oto"
	BackendMIDI Backend = "midi"
	BackendNone Backend = "none"
)

// Tempo bounds shared by the config boundary and the sequencer state
const (
	MinTempo = 20.0
	MaxTempo = 300.0
)

// Config is the main configuration structure. Patterns are never stored here.
type Config struct {
	Tempo         float64   `json:"tempo"`
	Resolution    string    `json:"resolution"`
	Tone          int       `json:"tone"`
	Tones         []float64 `json:"tones,omitempty"`
	LookaheadMs   float64   `json:"lookaheadMs"`
	ScheduleAhead float64   `json:"scheduleAheadSec"`
	NoteLength    float64   `json:"noteLengthSec"`
	Backend       Backend   `json:"backend"`
	MIDIPort      string    `json:"midiPort,omitempty"`
	MIDIChannel   uint8     `json:"midiChannel,omitempty"`
	SampleRate    int       `json:"sampleRate"`
	Palette       string    `json:"palette,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:         120,
		Resolution:    "16th",
		Tone:          0,
		Tones:         []float64{523.251, 587.330, 659.255, 783.991, 880.000},
		LookaheadMs:   25,
		ScheduleAhead: 0.1,
		NoteLength:    0.10,
		Backend:       BackendOto,
		MIDIChannel:   1,
		SampleRate:    48000,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-metronome"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns where --debug writes its log
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Missing fields keep their defaults.
func LoadFrom(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(errkind.InvalidConfig),
			fmsg.WithDesc("decode config", "The config file is not valid JSON."))
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate clamps tempo and tone into range and rejects values the scheduler
// cannot run with.
func (c *Config) Validate() error {
	if math.IsNaN(c.Tempo) || c.Tempo < MinTempo {
		c.Tempo = MinTempo
	}
	if c.Tempo > MaxTempo {
		c.Tempo = MaxTempo
	}

	if len(c.Tones) == 0 {
		return invalid("no tones configured")
	}
	for _, f := range c.Tones {
		if !(f > 0) {
			return invalid("tone frequencies must be positive")
		}
	}
	if c.Tone < 0 {
		c.Tone = 0
	}
	if c.Tone >= len(c.Tones) {
		c.Tone = len(c.Tones) - 1
	}

	if !(c.LookaheadMs > 0) {
		return invalid("lookahead must be positive")
	}
	if !(c.ScheduleAhead > 0) {
		return invalid("schedule-ahead window must be positive")
	}
	if !(c.NoteLength > 0) {
		return invalid("note length must be positive")
	}

	switch c.Backend {
	case BackendOto, BackendMIDI, BackendNone:
	case "":
		c.Backend = BackendOto
	default:
		return invalid("unknown backend " + string(c.Backend))
	}

	if c.SampleRate <= 0 {
		return invalid("sample rate must be positive")
	}
	switch {
	case c.MIDIChannel == 0:
		c.MIDIChannel = 1
	case c.MIDIChannel > 16:
		return invalid("MIDI channel must be 1-16")
	}

	return nil
}

// Channel checks a 1-based MIDI channel from the command line
func Channel(n int) (uint8, error) {
	if n < 1 || n > 16 {
		return 0, invalid(fmt.Sprintf("MIDI channel %d is not in 1-16", n))
	}
	return uint8(n), nil
}

func invalid(msg string) error {
	return fault.New(msg,
		ftag.With(errkind.InvalidConfig),
		fmsg.WithDesc(msg, "Invalid configuration: "+msg+"."))
}
