package sequencer

// Frame is the render loop's verdict for one display refresh
type Frame struct {
	Step    int  // currently audible step, -1 before anything played
	Redraw  bool // the host should repaint
	Changed bool // Step differs from the previous draw
}

// Display syncs the drawn playhead to the audio clock by draining the note queue
type Display struct {
	state *State
	queue *NoteQueue
}

// NewDisplay creates a display over shared state and queue
func NewDisplay(state *State, queue *NoteQueue) *Display {
	return &Display{state: state, queue: queue}
}

// current drains due notes; the last one due wins. With nothing due the
// previously drawn step stays current.
func (d *Display) current(now float64) int {
	step := d.state.Display.LastDrawn
	for _, n := range d.queue.PopDue(now) {
		step = n.Step
	}
	return step
}

// Frame computes the current step and decides whether to repaint. Dragging
// forces a repaint so the tone line follows the pointer.
func (d *Display) Frame(now float64, dragging bool) Frame {
	ds := &d.state.Display
	step := d.current(now)

	f := Frame{Step: step, Changed: step != ds.LastDrawn}
	if f.Changed || ds.Dirty || dragging {
		f.Redraw = true
		ds.Dirty = false
		ds.LastDrawn = step
	}
	return f
}

// Invalidate forces a repaint on the next frame (layout changes)
func (d *Display) Invalidate() {
	d.state.Display.Dirty = true
}
