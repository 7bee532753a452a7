package sequencer

import "testing"

func newTestDisplay() (*State, *NoteQueue, *Display) {
	s := NewState()
	q := &NoteQueue{}
	return s, q, NewDisplay(s, q)
}

func TestFrameLastDueWins(t *testing.T) {
	s, q, d := newTestDisplay()
	s.Display.Dirty = false
	q.Push(ScheduledNote{Step: 3, Time: 1.0})
	q.Push(ScheduledNote{Step: 4, Time: 1.1})
	q.Push(ScheduledNote{Step: 5, Time: 1.2})
	q.Push(ScheduledNote{Step: 6, Time: 1.3})

	// A slow frame lands after three notes went by.
	f := d.Frame(1.25, false)
	if f.Step != 5 {
		t.Fatalf("step = %d, want 5", f.Step)
	}
	if !f.Redraw || !f.Changed {
		t.Fatalf("frame = %+v, want redraw", f)
	}
	if s.Display.LastDrawn != 5 {
		t.Fatalf("last drawn = %d", s.Display.LastDrawn)
	}
	if q.Len() != 1 {
		t.Fatalf("queue left %d, want 1", q.Len())
	}
}

func TestFrameKeepsStepWhenNothingDue(t *testing.T) {
	s, q, d := newTestDisplay()
	q.Push(ScheduledNote{Step: 9, Time: 2.0})
	d.Frame(2.1, false)

	q.Push(ScheduledNote{Step: 10, Time: 3.0})
	f := d.Frame(2.2, false)
	if f.Step != 9 {
		t.Fatalf("step = %d, want 9", f.Step)
	}
	if f.Redraw {
		t.Fatal("redraw without any change")
	}
	if s.Display.LastDrawn != 9 {
		t.Fatalf("last drawn = %d", s.Display.LastDrawn)
	}
}

func TestFrameInitialStep(t *testing.T) {
	s, _, d := newTestDisplay()
	s.Display.Dirty = false
	f := d.Frame(0, false)
	if f.Step != -1 || f.Redraw {
		t.Fatalf("frame = %+v, want step -1 and no redraw", f)
	}
}

func TestFrameRedrawRules(t *testing.T) {
	cases := []struct {
		name     string
		dirty    bool
		dragging bool
		newStep  bool
		want     bool
	}{
		{name: "idle", want: false},
		{name: "dirty", dirty: true, want: true},
		{name: "dragging", dragging: true, want: true},
		{name: "step moved", newStep: true, want: true},
		{name: "everything", dirty: true, dragging: true, newStep: true, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, q, d := newTestDisplay()
			q.Push(ScheduledNote{Step: 0, Time: 0})
			d.Frame(1, false)

			s.Display.Dirty = tc.dirty
			if tc.newStep {
				q.Push(ScheduledNote{Step: 1, Time: 1.5})
			}
			f := d.Frame(2, tc.dragging)
			if f.Redraw != tc.want {
				t.Fatalf("redraw = %v, want %v", f.Redraw, tc.want)
			}
			if f.Redraw && s.Display.Dirty {
				t.Fatal("dirty flag not cleared after redraw")
			}
		})
	}
}

func TestToggleStepTriggersRedraw(t *testing.T) {
	s, _, d := newTestDisplay()
	d.Frame(0, false)

	s.ToggleStep(7)
	if f := d.Frame(0, false); !f.Redraw {
		t.Fatal("toggle did not trigger redraw")
	}
	if f := d.Frame(0, false); f.Redraw {
		t.Fatal("redraw repeated without change")
	}
}
