package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/visualbass/visualbass-sync/internal/controller"
	"github.com/visualbass/visualbass-sync/internal/state"
)

const renderLatency = 16 * time.Millisecond

// Visualizer is the terminal renderer. It receives snapshots from the update
// loop and turns key presses into store actions.
type Visualizer struct {
	program   *tea.Program
	mu        sync.Mutex
	lastSend  time.Time
	throttle  time.Duration
	pending   chan snapshotMsg
	done      chan struct{}
	closeOnce sync.Once
}

type snapshotMsg struct {
	snap       controller.Snapshot
	receivedAt time.Time
}

type visualizerModel struct {
	snap        controller.Snapshot
	lastUpdated time.Time
	ready       bool
	width       int
	height      int
	submit      func(state.Action) bool
	onExit      func()
	exitOnce    sync.Once

	// editing follows the actions this model submits. Snapshots only
	// override it once they were taken after the last local change.
	editing  bool
	editedAt time.Time
}

var (
	vizContainerStyle = lipgloss.NewStyle().Padding(0, 2)
	vizTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	vizWaitingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	vizHintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

// NewVisualizer starts the terminal program. submit receives the actions
// produced by key presses; onExit runs once when the user quits.
func NewVisualizer(submit func(state.Action) bool, onExit func()) *Visualizer {
	model := &visualizerModel{submit: submit, onExit: onExit}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())

	v := &Visualizer{
		program:  program,
		throttle: renderLatency,
		pending:  make(chan snapshotMsg, 1),
		done:     make(chan struct{}),
	}

	go program.Run()
	go v.forward()

	return v
}

// Render forwards snap to the terminal program, dropping snapshots that
// arrive faster than the terminal can redraw.
func (v *Visualizer) Render(snap controller.Snapshot) {
	v.mu.Lock()
	if time.Since(v.lastSend) < v.throttle {
		v.mu.Unlock()
		return
	}
	v.lastSend = time.Now()
	v.mu.Unlock()

	msg := snapshotMsg{snap: snap, receivedAt: time.Now()}
	for {
		select {
		case v.pending <- msg:
			return
		default:
		}
		// replace the snapshot the program has not picked up yet
		select {
		case <-v.pending:
		default:
		}
	}
}

// forward hands snapshots to the program one at a time, in the order they
// were rendered.
func (v *Visualizer) forward() {
	for {
		select {
		case <-v.done:
			return
		case msg := <-v.pending:
			v.program.Send(msg)
		}
	}
}

func (v *Visualizer) Close() {
	v.closeOnce.Do(func() {
		close(v.done)
		v.program.Quit()
	})
}

func (m *visualizerModel) Init() tea.Cmd {
	return nil
}

func (m *visualizerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case snapshotMsg:
		m.snap = msg.snap
		m.lastUpdated = msg.receivedAt
		m.ready = true
		if msg.snap.Time.After(m.editedAt) {
			m.editing = msg.snap.Editor.Editing()
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.editing && (msg.String() == "q" || msg.Type == tea.KeyEsc)) {
			m.invokeExit()
			return m, tea.Quit
		}
		for _, action := range keyActions(msg, m.editing) {
			m.dispatch(action)
		}
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *visualizerModel) View() string {
	body := ""
	if !m.ready {
		header := titleStyle.Render("VisualBass")
		waiting := vizWaitingStyle.Render("Waiting for audio frames…")
		body = lipgloss.JoinVertical(lipgloss.Left, header, "", waiting)
	} else {
		width, height := m.canvasSize()
		body = renderVisualizerView(m.snap, m.lastUpdated, width, height)
	}
	return vizContainerStyle.Render(body)
}

// canvasSize is the drawing area left after the header, menu and hints.
func (m *visualizerModel) canvasSize() (int, int) {
	w, h := defaultCanvasWidth, defaultCanvasHeight
	if m.width > 0 {
		w = max(minCanvasWidth, m.width-6)
	}
	if m.height > 0 {
		h = max(minCanvasHeight, m.height-14)
	}
	return w, h
}

func (m *visualizerModel) dispatch(a state.Action) {
	switch a.Kind {
	case state.ActionStartEdit:
		m.setEditing(true)
	case state.ActionSubmit, state.ActionCancel:
		m.setEditing(false)
	}
	if m.submit != nil {
		m.submit(a)
	}
}

func (m *visualizerModel) setEditing(editing bool) {
	m.editing = editing
	m.editedAt = time.Now()
}

func (m *visualizerModel) invokeExit() {
	m.exitOnce.Do(func() {
		if m.onExit != nil {
			m.onExit()
		}
	})
}
