// Command tonetest checks an audio backend by playing a short scale through
// the look-ahead scheduler.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	"go-metronome/audio"
	"go-metronome/backend"
	"go-metronome/config"
	"go-metronome/debug"
	"go-metronome/sequencer"
	"go-metronome/timer"
)

var opts struct {
	backend string
	port    string
	channel int
	tempo   float64
	verbose bool
}

func main() {
	root := &cobra.Command{
		Use:          "tonetest",
		Short:        "Audio backend test scripts",
		SilenceUsage: true,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all MIDI ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("(waiting up to 3 seconds...)")
			ins, outs, err := backend.ListPorts()
			if err != nil {
				return err
			}
			fmt.Println("=== MIDI Input Ports ===")
			for i, name := range ins {
				fmt.Printf("  %d: %s\n", i, name)
			}
			fmt.Println("\n=== MIDI Output Ports ===")
			for i, name := range outs {
				fmt.Printf("  %d: %s\n", i, name)
			}
			return nil
		},
	}

	beep := &cobra.Command{
		Use:   "beep",
		Short: "Play one bar of quarter notes on each tone",
		RunE:  runBeep,
	}
	beep.Flags().StringVarP(&opts.backend, "backend", "b", "oto", "oto, midi or none")
	beep.Flags().StringVar(&opts.port, "port", "", "MIDI output port")
	beep.Flags().IntVar(&opts.channel, "channel", 1, "MIDI channel")
	beep.Flags().Float64VarP(&opts.tempo, "tempo", "t", 120, "tempo in BPM")
	beep.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log scheduling to stderr")

	root.AddCommand(list, beep)
	if err := root.Execute(); err != nil {
		if issue := fmsg.GetIssue(err); issue != "" {
			fmt.Fprintln(os.Stderr, issue)
		}
		os.Exit(1)
	}
}

func runBeep(cmd *cobra.Command, args []string) error {
	if opts.verbose {
		debug.EnableWriter(os.Stderr)
	}

	cfg := config.DefaultConfig()
	cfg.Backend = config.Backend(opts.backend)
	cfg.MIDIPort = opts.port
	ch, err := config.Channel(opts.channel)
	if err != nil {
		return err
	}
	cfg.MIDIChannel = ch
	cfg.Tempo = opts.tempo
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine, closeEngine, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEngine()

	ticker, err := timer.New(time.Duration(cfg.LookaheadMs * float64(time.Millisecond)))
	if err != nil {
		return err
	}
	defer ticker.Close()

	metro, err := sequencer.New(engine, ticker,
		sequencer.WithTempo(cfg.Tempo),
		sequencer.WithTones(cfg.Tones),
		sequencer.WithResolution(sequencer.Quarter),
		sequencer.WithActiveSteps(0, 4, 8, 12),
	)
	if err != nil {
		return err
	}

	// One bar per tone, plus the look-ahead tail.
	bar := time.Duration(float64(sequencer.NumSteps) * metro.State.SecondsPerStep() * float64(time.Second))
	runCtx, stop := context.WithTimeout(ctx, bar*time.Duration(len(cfg.Tones))+250*time.Millisecond)
	defer stop()

	if _, err := metro.TogglePlay(); err != nil {
		return err
	}
	fmt.Printf("playing %d tones at %.0f BPM through %s\n", len(cfg.Tones), cfg.Tempo, cfg.Backend)

	bars := 0
	metro.Run(runCtx, nil, func(f sequencer.Frame, s *sequencer.State) {
		if !f.Changed {
			return
		}
		if f.Step == sequencer.NumSteps-1 {
			bars++
			s.SetTone(bars)
		}
		if f.Step%4 == 0 {
			fmt.Printf("  tone %d  %.1f Hz  step %02d\n", s.Tone, s.Frequency(), f.Step+1)
		}
	})
	metro.TogglePlay()

	fmt.Printf("scheduled %d notes, %d refused by the engine\n", metro.Scheduler.Emitted(), metro.Scheduler.Missed())
	if r, ok := engine.(audio.Reporter); ok {
		sent, failed := r.Stats()
		fmt.Printf("%s delivered %d, failed %d\n", cfg.Backend, sent, failed)
	}
	return nil
}
