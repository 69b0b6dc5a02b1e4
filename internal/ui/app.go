// Package ui is the foreground punch clock: a Bubble Tea program that owns
// the punch session and shows submission outcomes as they arrive.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lahirunirmalx/cOrange/internal/punch"
)

const defaultTick = time.Second

// Dispatcher starts a punch cycle in the background.
type Dispatcher interface {
	Dispatch(ctx context.Context, cycle punch.Cycle) bool
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Session    *punch.Session
	Dispatcher Dispatcher
	Now        func() time.Time
	TickEvery  time.Duration
}

type tickMsg time.Time

type outcomeMsg punch.Outcome

// Model is the root Bubble Tea model.
type Model struct {
	ctx        context.Context
	session    *punch.Session
	dispatcher Dispatcher
	now        func() time.Time
	tickEvery  time.Duration

	keys   keyMap
	help   help.Model
	styles styles

	clock   time.Time
	pending map[string]struct{}
	status  string
	failed  bool
	width   int
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tick := opts.TickEvery
	if tick == 0 {
		tick = defaultTick
	}
	session := opts.Session
	if session == nil {
		session = &punch.Session{}
	}

	return Model{
		ctx:        ctx,
		session:    session,
		dispatcher: opts.Dispatcher,
		now:        now,
		tickEvery:  tick,
		keys:       defaultKeyMap(),
		help:       help.New(),
		styles:     defaultStyles(),
		clock:      now(),
		pending:    make(map[string]struct{}),
		status:     "Ready",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickEvery)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.clock = time.Time(msg)
		return m, tickCmd(m.tickEvery)

	case outcomeMsg:
		outcome := punch.Outcome(msg)
		delete(m.pending, outcome.CycleID)
		m.status = outcome.Message
		m.failed = !outcome.Succeeded()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PunchIn):
		now := m.now()
		m.clock = now
		if err := m.session.PunchIn(now); err != nil {
			m.setError(err)
			return m, nil
		}
		m.status = fmt.Sprintf("Punched in at %s", now.Format("15:04"))
		m.failed = false
		return m, nil

	case key.Matches(msg, m.keys.PunchOut):
		now := m.now()
		m.clock = now
		cycle, err := m.session.PunchOut(now)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.failed = false
		if m.dispatcher == nil || !m.dispatcher.Dispatch(m.ctx, cycle) {
			m.status = "Punch out already submitting"
			return m, nil
		}
		m.pending[cycle.ID] = struct{}{}
		m.status = fmt.Sprintf("Punched out at %s, submitting %s", now.Format("15:04"), punch.FormatElapsed(cycle.Elapsed()))
		return m, nil
	}
	return m, nil
}

func (m *Model) setError(err error) {
	m.failed = true
	switch {
	case errors.Is(err, punch.ErrAlreadyPunchedIn):
		m.status = "Already punched in"
	case errors.Is(err, punch.ErrNotPunchedIn):
		m.status = "Not punched in"
	default:
		m.status = err.Error()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("cOrange"))
	b.WriteString("\n\n")

	if start, ok := m.session.Started(); ok {
		b.WriteString(m.styles.Timer.Render(punch.FormatElapsed(m.session.Elapsed(m.clock))))
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("since %s", start.Format("15:04"))))
	} else {
		b.WriteString(m.styles.Timer.Render(punch.FormatElapsed(0)))
		b.WriteString(m.styles.Muted.Render("not punched in"))
	}
	b.WriteString("\n\n")

	statusStyle := m.styles.Success
	if m.failed {
		statusStyle = m.styles.Failure
	}
	b.WriteString(statusStyle.Render(m.status))
	if n := len(m.pending); n > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  (%d pending)", n)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.Frame.Render(b.String())
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
