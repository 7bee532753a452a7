package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
)

// PadEvent is sent when a pad or button is pressed on a grid controller
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// Controller is a grid controller that reports pads and shows LEDs
type Controller interface {
	ID() string
	Type() ControllerType

	PadEvents() <-chan PadEvent
	SetLEDBatch(updates []LEDUpdate) error

	Close() error
}

// Launchpad X palette velocities used by the metronome grid
const (
	ColorOff         uint8 = 0
	ColorWhite       uint8 = 3
	ColorRed         uint8 = 5
	ColorOrange      uint8 = 9
	ColorYellow      uint8 = 13
	ColorDimGreen    uint8 = 19
	ColorBrightGreen uint8 = 21
	ColorCyan        uint8 = 37
	ColorDimBlue     uint8 = 43
	ColorBlue        uint8 = 45
	ColorPurple      uint8 = 49

	// LED modes, passed as the MIDI channel of the NoteOn
	ChannelStatic uint8 = 0
	ChannelFlash  uint8 = 1
	ChannelPulse  uint8 = 2
)
