package dispatch

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal/punch"
)

// Notifier receives the outcome of each workflow. Notify is called on the
// worker goroutine, so implementations that touch foreground state must hand
// the outcome over to the foreground's own goroutine.
type Notifier interface {
	Notify(outcome punch.Outcome)
}

type NotifierFunc func(outcome punch.Outcome)

func (f NotifierFunc) Notify(outcome punch.Outcome) {
	f(outcome)
}

// Multi delivers to each notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(outcome punch.Outcome) {
		for _, n := range notifiers {
			if n != nil {
				n.Notify(outcome)
			}
		}
	})
}

// Mailbox marshals outcomes onto the goroutine running Run.
type Mailbox struct {
	ch   chan punch.Outcome
	done chan struct{}
}

func NewMailbox(size int) *Mailbox {
	return &Mailbox{
		ch:   make(chan punch.Outcome, size),
		done: make(chan struct{}),
	}
}

// Notify blocks until the outcome is queued. Once Run has returned, outcomes
// are logged and dropped.
func (m *Mailbox) Notify(outcome punch.Outcome) {
	select {
	case m.ch <- outcome:
	case <-m.done:
		log.WithField("cycle", outcome.CycleID).Warn("mailbox closed, dropping punch outcome")
	}
}

// Run calls handle for each outcome on the calling goroutine until ctx is done.
func (m *Mailbox) Run(ctx context.Context, handle func(punch.Outcome)) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case outcome := <-m.ch:
			handle(outcome)
		}
	}
}
