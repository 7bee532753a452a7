package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-metronome/debug"
	"go-metronome/midi"
	"go-metronome/sequencer"
	"go-metronome/theme"
	"go-metronome/widgets"
)

// TickMsg is one wake-up from the timer source
type TickMsg struct{}

// FrameMsg is one render-loop frame
type FrameMsg time.Time

// PadMsg is a press on the connected grid controller
type PadMsg midi.PadEvent

// DeviceEventMsg reports a controller arriving or leaving
type DeviceEventMsg midi.DeviceEvent

type padsClosedMsg struct{ id string }

type ledMsg time.Time

const (
	leftMargin = 2
	stageWidth = 40
)

// layout records where the clickable regions were last drawn
type layout struct {
	stepsTop  int
	stageTop  int
	stageRows int
}

// Model is the bubbletea host. Update is the single consumer for timer
// ticks, frames and input, so the metronome is never touched concurrently.
type Model struct {
	Metro     *sequencer.Metronome
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme

	keys keyMap
	help help.Model

	cursor   int
	dragging bool
	label    string
	status   string
	backend  string
	quitting bool

	controller midi.Controller
	leds       midi.LEDDiffer

	view   string
	layout layout
}

// NewModel builds the host. deviceMgr may be nil when no controller support
// is wanted.
func NewModel(metro *sequencer.Metronome, deviceMgr *midi.DeviceManager, th *theme.Theme, backend string) Model {
	m := Model{
		Metro:     metro,
		DeviceMgr: deviceMgr,
		Theme:     th,
		keys:      newKeyMap(),
		help:      help.New(),
		label:     sequencer.LabelPlay,
		backend:   backend,
	}
	m.redraw(sequencer.Frame{Step: metro.State.Display.LastDrawn})
	return m
}

// SetStatus shows a message under the grid (used for startup warnings)
func (m *Model) SetStatus(err error) {
	m.status = issue(err)
	m.redraw(sequencer.Frame{Step: m.Metro.State.Display.LastDrawn})
}

func issue(err error) string {
	if err == nil {
		return ""
	}
	if msg := fmsg.GetIssue(err); msg != "" {
		return msg
	}
	return err.Error()
}

func listenTicks(ticks <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ticks
		return TickMsg{}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/sequencer.FrameRate, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func ledTick() tea.Cmd {
	return tea.Tick(time.Second/midi.LEDFPS, func(t time.Time) tea.Msg {
		return ledMsg(t)
	})
}

func listenPads(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-c.PadEvents()
		if !ok {
			return padsClosedMsg{id: c.ID()}
		}
		return PadMsg(evt)
	}
}

func listenDevices(dm *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-dm.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(evt)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTick(), ledTick()}
	if ticks := m.Metro.Ticks(); ticks != nil {
		cmds = append(cmds, listenTicks(ticks))
	}
	if m.DeviceMgr != nil {
		cmds = append(cmds, listenDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.Metro.Tick()
		return m, listenTicks(m.Metro.Ticks())

	case FrameMsg:
		if f := m.Metro.Frame(m.dragging); f.Redraw {
			m.redraw(f)
		}
		return m, frameTick()

	case ledMsg:
		m.flushLEDs()
		return m, ledTick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.invalidate()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case PadMsg:
		m.handlePad(midi.PadEvent(msg))
		if m.controller != nil {
			return m, listenPads(m.controller)
		}

	case padsClosedMsg:
		if m.controller != nil && m.controller.ID() == msg.id {
			m.controller = nil
			m.invalidate()
		}

	case DeviceEventMsg:
		var cmd tea.Cmd
		switch msg.Type {
		case midi.DeviceConnected:
			m.controller = msg.Controller
			m.leds.Reset()
			cmd = listenPads(msg.Controller)
			debug.Log("tui", "controller connected: %s", msg.ID)
		case midi.DeviceDisconnected:
			if m.controller != nil && m.controller.ID() == msg.ID {
				m.controller = nil
			}
			debug.Log("tui", "controller disconnected: %s", msg.ID)
		}
		m.invalidate()
		if m.DeviceMgr != nil {
			cmd = tea.Batch(cmd, listenDevices(m.DeviceMgr))
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case is(msg, m.keys.Quit):
		if m.Metro.Playing() {
			m.togglePlay()
		}
		m.quitting = true
		return m, tea.Quit

	case is(msg, m.keys.Left):
		m.cursor = (m.cursor + sequencer.NumSteps - 1) % sequencer.NumSteps
		m.invalidate()

	case is(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % sequencer.NumSteps
		m.invalidate()

	case is(msg, m.keys.Toggle):
		m.Metro.ToggleStep(m.cursor)

	case is(msg, m.keys.ToneUp):
		m.Metro.SetTone(m.Metro.State.Tone - 1)

	case is(msg, m.keys.ToneDown):
		m.Metro.SetTone(m.Metro.State.Tone + 1)

	case is(msg, m.keys.Resolution):
		m.Metro.CycleResolution()

	case is(msg, m.keys.TempoUp):
		m.Metro.AdjustTempo(5)

	case is(msg, m.keys.TempoDown):
		m.Metro.AdjustTempo(-5)

	case is(msg, m.keys.Play):
		m.togglePlay()

	case is(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.invalidate()
	}
	return m, nil
}

func (m *Model) togglePlay() {
	label, err := m.Metro.TogglePlay()
	m.label = label
	m.status = issue(err)
	if err != nil {
		debug.Warn("tui", "toggle play: %v", err)
	}
	m.invalidate()
}

// handleMouse maps clicks on the step row to toggles and presses or drags
// in the tone stage to tone changes
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if msg.Y == m.layout.stepsTop {
			if step, ok := widgets.StepAt(msg.X-leftMargin, sequencer.NumSteps); ok {
				m.cursor = step
				m.Metro.ToggleStep(step)
			}
			return
		}
		if m.inStage(msg.Y) {
			m.dragging = true
			m.selectToneAt(msg.Y)
		}

	case tea.MouseActionMotion:
		if m.dragging {
			m.selectToneAt(msg.Y)
		}

	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.invalidate()
		}
	}
}

func (m *Model) inStage(y int) bool {
	return y >= m.layout.stageTop && y < m.layout.stageTop+m.layout.stageRows
}

func (m *Model) selectToneAt(y int) {
	n := len(m.Metro.State.Tones)
	tone := sequencer.ToneFromPosition(float64(y), float64(m.layout.stageTop), float64(m.layout.stageRows), n)
	if tone != m.Metro.State.Tone {
		m.Metro.SetTone(tone)
	}
}

func (m *Model) handlePad(evt midi.PadEvent) {
	action := midi.MapPad(evt, len(m.Metro.State.Tones))
	switch action.Action {
	case midi.ActionToggleStep:
		m.cursor = action.Index
		m.Metro.ToggleStep(action.Index)
	case midi.ActionTone:
		m.Metro.SetTone(action.Index)
	case midi.ActionPlay:
		m.togglePlay()
	case midi.ActionResolution:
		m.Metro.CycleResolution()
	case midi.ActionTempoDown:
		m.Metro.AdjustTempo(-5)
	case midi.ActionTempoUp:
		m.Metro.AdjustTempo(5)
	}
}

// gridView copies what the controller LEDs need out of the state
func (m *Model) gridView() midi.GridView {
	s := m.Metro.State
	v := midi.GridView{
		Playhead: s.Display.LastDrawn,
		Playing:  s.Transport.Playing,
		Tone:     s.Tone,
		Tones:    len(s.Tones),
	}
	for i := range s.Pattern {
		v.Active[i] = s.Pattern[i].Active
		v.Audible[i] = s.Transport.Resolution.Audible(i)
	}
	return v
}

func (m *Model) flushLEDs() {
	if m.controller == nil {
		return
	}
	updates := m.leds.Diff(midi.RenderGrid(m.gridView()))
	if len(updates) == 0 {
		return
	}
	if err := m.controller.SetLEDBatch(updates); err != nil {
		debug.LogEvery(30, "led", "batch failed: %v", err)
		m.leds.Reset()
	}
}

// invalidate asks the next frame to repaint
func (m *Model) invalidate() {
	m.Metro.Display.Invalidate()
}

// redraw rebuilds the cached view for frame f
func (m *Model) redraw(f sequencer.Frame) {
	s := m.Metro.State
	th := m.Theme
	pad := strings.Repeat(" ", leftMargin)

	headerStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(th.Warning())

	playState := "STOP"
	if s.Transport.Playing {
		playState = "PLAY"
	}
	deviceStatus := ""
	if m.controller != nil {
		deviceStatus = "  LP:X"
	}
	step := "--"
	if f.Step >= 0 {
		step = fmt.Sprintf("%02d", f.Step+1)
	}
	header := headerStyle.Render(fmt.Sprintf("go-metronome  %s  %3.0fbpm  %-7s step:%s  [%s]  %s%s",
		playState, s.Transport.Tempo, s.Transport.Resolution, step, m.label, m.backend, deviceStatus))

	cells := make([]widgets.StepCell, sequencer.NumSteps)
	for i := range cells {
		cells[i] = widgets.StepCell{
			Active:   s.Pattern[i].Active,
			Audible:  s.Transport.Resolution.Audible(i),
			Playhead: s.Transport.Playing && i == f.Step,
			Cursor:   i == m.cursor,
		}
	}

	counts := fmt.Sprintf("scheduled %d  missed %d", m.Metro.Scheduler.Emitted(), m.Metro.Scheduler.Missed())
	if m.Metro.Scheduler.Missed() > 0 {
		counts = warnStyle.Render(counts)
	} else {
		counts = dimStyle.Render(counts)
	}

	var lines []string
	lines = append(lines, "", header, counts, widgets.RenderStepNumbers(th, sequencer.NumSteps))
	m.layout.stepsTop = len(lines)
	lines = append(lines, widgets.RenderStepRow(th, cells), "")

	m.layout.stageTop = len(lines)
	m.layout.stageRows = len(s.Tones)
	lines = append(lines, strings.Split(widgets.RenderToneStage(th, s.Tones, s.Tone, stageWidth), "\n")...)
	lines = append(lines, "")

	if m.status != "" {
		lines = append(lines, warnStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	if m.controller != nil && m.help.ShowAll {
		lines = append(lines, "", dimStyle.Render("launchpad"))
		lines = append(lines, strings.Split(widgets.RenderPadGrid(midi.RenderGrid(m.gridView())), "\n")...)
	}

	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	m.view = strings.Join(lines, "\n")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.view
}
