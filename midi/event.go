package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Event is a MIDI message waiting for its time on the output clock
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // 0-based MIDI channel
	Note     uint8
	Velocity uint8
	At       float64 // seconds on the Output clock
	seq      uint64  // insertion order, breaks ties between equal At
}

// LEDUpdate sets one pad colour on a grid controller
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8 // ChannelStatic, ChannelFlash or ChannelPulse
}
