package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal/punch"
)

// ProgramNotifier forwards outcomes into a running program's event loop,
// where the model is the only reader and writer of UI state.
type ProgramNotifier struct {
	mu      sync.RWMutex
	program *tea.Program
}

func (n *ProgramNotifier) attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// Notify implements dispatch.Notifier. Outcomes arriving before the program
// starts are logged and dropped.
func (n *ProgramNotifier) Notify(outcome punch.Outcome) {
	n.mu.RLock()
	p := n.program
	n.mu.RUnlock()
	if p == nil {
		log.WithField("cycle", outcome.CycleID).Warn("ui not running, dropping punch outcome")
		return
	}
	p.Send(outcomeMsg(outcome))
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options, notifier *ProgramNotifier) error {
	if opts.Context == nil {
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if notifier != nil {
		notifier.attach(p)
	}
	_, err := p.Run()
	return err
}
