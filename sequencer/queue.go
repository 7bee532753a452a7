package sequencer

// ScheduledNote is a step committed to the audio engine at Time (audio-clock seconds)
type ScheduledNote struct {
	Step int
	Time float64
}

// NoteQueue is the FIFO between the scheduler and the render loop. Entries are
// pushed in non-decreasing Time order, so due entries are always at the front.
type NoteQueue struct {
	notes []ScheduledNote
}

// Push appends a note
func (q *NoteQueue) Push(n ScheduledNote) {
	q.notes = append(q.notes, n)
}

// Len returns the number of queued notes
func (q *NoteQueue) Len() int {
	return len(q.notes)
}

// PopDue removes and returns, in order, every note with Time < now
func (q *NoteQueue) PopDue(now float64) []ScheduledNote {
	i := 0
	for i < len(q.notes) && q.notes[i].Time < now {
		i++
	}
	if i == 0 {
		return nil
	}
	due := make([]ScheduledNote, i)
	copy(due, q.notes[:i])
	n := copy(q.notes, q.notes[i:])
	q.notes = q.notes[:n]
	return due
}

// DropFrom removes every note with Time >= t, keeping the order of the rest
func (q *NoteQueue) DropFrom(t float64) {
	i := len(q.notes)
	for i > 0 && q.notes[i-1].Time >= t {
		i--
	}
	q.notes = q.notes[:i]
}
