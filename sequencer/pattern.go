package sequencer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-metronome/errkind"
)

// NumSteps is the fixed length of the step ring
const NumSteps = 16

// Step is one slot of the pattern
type Step struct {
	Active bool
}

// Pattern is the ordered ring of steps
type Pattern [NumSteps]Step

// ActiveSteps returns the indices of active steps in order
func (p *Pattern) ActiveSteps() []int {
	var out []int
	for i, s := range p {
		if s.Active {
			out = append(out, i)
		}
	}
	return out
}

// DefaultTones is the pitch ladder of the tone stage (C5 D5 E5 G5 A5)
var DefaultTones = []float64{523.251, 587.330, 659.255, 783.991, 880.000}

// Resolution selects which step indices produce sound
type Resolution int

const (
	Sixteenth Resolution = iota
	Eighth
	Quarter
)

func (r Resolution) String() string {
	switch r {
	case Sixteenth:
		return "16th"
	case Eighth:
		return "8th"
	case Quarter:
		return "quarter"
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// Valid reports whether r is one of the known modes
func (r Resolution) Valid() bool {
	return r >= Sixteenth && r <= Quarter
}

// Audible reports whether step sounds under r. Silenced steps still advance and
// still reach the note queue.
func (r Resolution) Audible(step int) bool {
	switch r {
	case Eighth:
		return step%2 == 0
	case Quarter:
		return step%4 == 0
	}
	return true
}

// Next cycles 16th -> 8th -> quarter -> 16th
func (r Resolution) Next() Resolution {
	return (r + 1) % (Quarter + 1)
}

// ParseResolution accepts the names printed by String plus a few aliases
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "16th", "16", "sixteenth", "0":
		return Sixteenth, nil
	case "8th", "8", "eighth", "1":
		return Eighth, nil
	case "quarter", "4th", "4", "2":
		return Quarter, nil
	}
	return Sixteenth, fault.New("unknown resolution "+s,
		ftag.With(errkind.InvalidConfig),
		fmsg.WithDesc("unknown resolution", "Resolution must be 16th, 8th or quarter."))
}

// ToneFromPosition maps a vertical position inside the tone stage to a tone
// index. The stage is split into n equal bands from top; positions past the
// last band clamp to it.
func ToneFromPosition(y, top, height float64, n int) int {
	if n <= 0 || height <= 0 {
		return 0
	}
	band := height / float64(n)
	idx := int(math.Floor((y - top) / band))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// ParseSteps reads a comma-separated list of step indices such as "0,4,8,12"
func ParseSteps(s string) ([]int, error) {
	var steps []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 || n >= NumSteps {
			return nil, fault.New("bad step "+field,
				ftag.With(errkind.InvalidConfig),
				fmsg.WithDesc("bad step "+field, "Steps are numbers 0-15 separated by commas."))
		}
		steps = append(steps, n)
	}
	return steps, nil
}
