// Package headless runs the metronome without a TUI, printing the playhead
// and reading simple line commands.
package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-metronome/debug"
	"go-metronome/sequencer"
)

// Run starts playback and prints each step as it becomes audible.
// Lines on in are commands: p, r, +, -, t<n> for tone n, or a step number
// 1..16 as printed.
func Run(ctx context.Context, metro *sequencer.Metronome, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := metro.TogglePlay(); err != nil {
		return err
	}

	commands := make(chan sequencer.Command)
	go readCommands(ctx, in, commands, cancel)

	err := metro.Run(ctx, commands, func(f sequencer.Frame, s *sequencer.State) {
		if f.Changed {
			fmt.Fprintln(out, formatStep(f.Step, s))
		}
	})
	if metro.Playing() {
		metro.TogglePlay()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func formatStep(step int, s *sequencer.State) string {
	mark := "·"
	if step >= 0 && s.Pattern[step].Active {
		mark = "○"
		if s.Transport.Resolution.Audible(step) {
			mark = "●"
		}
	}
	return fmt.Sprintf("step %02d %s  %3.0fbpm %s", step+1, mark, s.Transport.Tempo, s.Transport.Resolution)
}

func readCommands(ctx context.Context, in io.Reader, commands chan<- sequencer.Command, quit func()) {
	defer close(commands)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			quit()
			return
		}
		cmd := parseCommand(line)
		if cmd == nil {
			continue
		}
		select {
		case commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

func parseCommand(line string) sequencer.Command {
	switch {
	case line == "p":
		return func(m *sequencer.Metronome) {
			if _, err := m.TogglePlay(); err != nil {
				debug.Warn("headless", "toggle play: %v", err)
			}
		}
	case line == "r":
		return func(m *sequencer.Metronome) { m.CycleResolution() }
	case line == "+":
		return func(m *sequencer.Metronome) { m.AdjustTempo(5) }
	case line == "-":
		return func(m *sequencer.Metronome) { m.AdjustTempo(-5) }
	case strings.HasPrefix(line, "t"):
		if n, err := strconv.Atoi(line[1:]); err == nil {
			return func(m *sequencer.Metronome) { m.SetTone(n) }
		}
	default:
		// Steps are typed as printed, counting from 1.
		if n, err := strconv.Atoi(line); err == nil {
			return func(m *sequencer.Metronome) {
				if err := m.ToggleStep(n - 1); err != nil {
					debug.Warn("headless", "toggle %d: %v", n, err)
				}
			}
		}
	}
	return nil
}
