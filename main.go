package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-metronome/backend"
	"go-metronome/config"
	"go-metronome/debug"
	"go-metronome/headless"
	"go-metronome/sequencer"
	"go-metronome/theme"
	"go-metronome/timer"
	"go-metronome/tui"
)

var (
	Version = "dev"

	flags struct {
		config        string
		tempo         float64
		resolution    string
		tone          int
		lookahead     float64
		scheduleAhead float64
		noteLength    float64
		backend       string
		port          string
		channel       int
		palette       string
		steps         string
		headless      bool
		debug         bool
		saveConfig    bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "go-metronome",
	Short: "A 16-step metronome with a look-ahead audio scheduler",
	Long: `go-metronome plays a 16-step click pattern with sample-accurate timing.

A coarse timer wakes the scheduler every few milliseconds; the scheduler
commits tones into the audio engine a short window ahead, so the click stays
steady however busy the terminal is.

Audio goes to the speakers (oto), a MIDI port, or nowhere (none). A Novation
Launchpad is picked up automatically when plugged in.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.config, "config", "", "config file (default ~/.config/go-metronome/config.json)")
	f.Float64VarP(&flags.tempo, "tempo", "t", 120, "tempo in BPM (20-300)")
	f.StringVarP(&flags.resolution, "resolution", "r", "16th", "which steps sound: 16th, 8th or quarter")
	f.IntVar(&flags.tone, "tone", 0, "starting tone index")
	f.Float64Var(&flags.lookahead, "lookahead", 25, "scheduler wake-up interval in ms")
	f.Float64Var(&flags.scheduleAhead, "schedule-ahead", 0.1, "how far ahead tones are committed, in seconds")
	f.Float64Var(&flags.noteLength, "note-length", 0.1, "tone length in seconds")
	f.StringVarP(&flags.backend, "backend", "b", "oto", "audio backend: oto, midi or none")
	f.StringVar(&flags.port, "port", "", "MIDI output port for --backend midi (default first port)")
	f.IntVar(&flags.channel, "channel", 1, "MIDI channel for --backend midi (1-16)")
	f.StringVar(&flags.palette, "palette", "", "palette name or .gpl file")
	f.StringVar(&flags.steps, "steps", "0,4,8,12", "comma-separated active steps (0-15) at startup")
	f.BoolVar(&flags.headless, "headless", false, "no TUI: start playing and print the playhead")
	f.BoolVar(&flags.debug, "debug", false, "write a debug log next to the config file")
	f.BoolVar(&flags.saveConfig, "save-config", false, "store the effective settings as the new defaults")

	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, outs, err := backend.ListPorts()
		if err != nil {
			return err
		}
		fmt.Println("inputs:")
		for i, name := range ins {
			fmt.Printf("  %d: %s\n", i, name)
		}
		fmt.Println("outputs:")
		for i, name := range outs {
			fmt.Printf("  %d: %s\n", i, name)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if issue := fmsg.GetIssue(err); issue != "" {
			fmt.Fprintln(os.Stderr, issue)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and lays the explicitly set flags over it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.config != "" {
		cfg, err = config.LoadFrom(flags.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("tempo") {
		cfg.Tempo = flags.tempo
	}
	if set("resolution") {
		cfg.Resolution = flags.resolution
	}
	if set("tone") {
		cfg.Tone = flags.tone
	}
	if set("lookahead") {
		cfg.LookaheadMs = flags.lookahead
	}
	if set("schedule-ahead") {
		cfg.ScheduleAhead = flags.scheduleAhead
	}
	if set("note-length") {
		cfg.NoteLength = flags.noteLength
	}
	if set("backend") {
		cfg.Backend = config.Backend(flags.backend)
	}
	if set("port") {
		cfg.MIDIPort = flags.port
	}
	if set("channel") {
		ch, err := config.Channel(flags.channel)
		if err != nil {
			return nil, err
		}
		cfg.MIDIChannel = ch
	}
	if set("palette") {
		cfg.Palette = flags.palette
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if flags.debug {
		path, err := config.LogPath()
		if err == nil {
			err = debug.Enable(path)
		}
		if err != nil {
			return fault.Wrap(err, fmsg.With("enable debug log"))
		}
		defer debug.Disable()
	}

	if flags.saveConfig {
		if err := cfg.Save(); err != nil {
			return fault.Wrap(err, fmsg.WithDesc("save config", "Could not write the config file."))
		}
	}

	resolution, err := sequencer.ParseResolution(cfg.Resolution)
	if err != nil {
		return err
	}
	steps, err := sequencer.ParseSteps(flags.steps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, closeEngine, engineErr := backend.OpenOrSilent(ctx, cfg)
	defer closeEngine()

	ticker, err := timer.New(time.Duration(cfg.LookaheadMs * float64(time.Millisecond)))
	if err != nil {
		return err
	}
	defer ticker.Close()

	metro, err := sequencer.New(engine, ticker,
		sequencer.WithTones(cfg.Tones),
		sequencer.WithTone(cfg.Tone),
		sequencer.WithTempo(cfg.Tempo),
		sequencer.WithResolution(resolution),
		sequencer.WithNoteLength(cfg.NoteLength),
		sequencer.WithScheduleAhead(cfg.ScheduleAhead),
		sequencer.WithActiveSteps(steps...),
	)
	if err != nil {
		return err
	}
	debug.Log("main", "tempo=%.1f res=%s backend=%s lookahead=%.0fms window=%.3fs",
		cfg.Tempo, resolution, cfg.Backend, cfg.LookaheadMs, cfg.ScheduleAhead)

	if flags.headless {
		if engineErr != nil {
			fmt.Fprintln(os.Stderr, "warning:", fmsg.GetIssue(engineErr))
		}
		return headless.Run(ctx, metro, os.Stdin, os.Stdout)
	}

	palette, err := theme.Load(cfg.Palette)
	if err != nil {
		return fault.Wrap(err, fmsg.WithDesc("load palette", "Could not load palette "+cfg.Palette+"."))
	}

	model := tui.NewModel(metro, backend.StartDevices(ctx), theme.New(palette), string(cfg.Backend))
	if engineErr != nil {
		model.SetStatus(engineErr)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fault.Wrap(err, fmsg.With("run TUI"))
	}
	return nil
}
