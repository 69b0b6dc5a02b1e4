// Package dispatch runs punch workflows off the foreground goroutine and
// reports their outcomes back through a Notifier.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	customctx "github.com/lahirunirmalx/cOrange/internal/context"
	"github.com/lahirunirmalx/cOrange/internal/credential"
	"github.com/lahirunirmalx/cOrange/internal/punch"
)

const DefaultWorkflowTimeout = 2 * time.Minute

// Runner executes one punch cycle with a private credential snapshot.
type Runner interface {
	Run(ctx context.Context, cycle punch.Cycle, creds credential.Credentials) punch.Outcome
}

// CredentialSource hands out independent credential copies.
type CredentialSource interface {
	Snapshot() credential.Credentials
}

// Dispatcher admits at most one run per cycle ID. Dispatched runs are never
// cancelled by the caller; each ends with exactly one Notify.
type Dispatcher struct {
	runner   Runner
	creds    CredentialSource
	notifier Notifier
	journal  punch.Journal
	onDup    func(punch.Cycle)
	timeout  time.Duration

	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

func New(runner Runner, creds CredentialSource, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		runner:   runner,
		creds:    creds,
		notifier: notifier,
		timeout:  DefaultWorkflowTimeout,
		running:  make(map[string]struct{}),
	}
}

// WithJournal records runs that panic outside the runner's own handling.
func (d *Dispatcher) WithJournal(j punch.Journal) *Dispatcher {
	d.journal = j
	return d
}

// WithTimeout bounds each workflow, including time spent waiting for a slot.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// OnDuplicate registers fn to be called for each refused dispatch.
func (d *Dispatcher) OnDuplicate(fn func(punch.Cycle)) *Dispatcher {
	d.onDup = fn
	return d
}

// Dispatch starts cycle in the background and returns immediately. It returns
// false without doing anything when the same cycle is already running.
func (d *Dispatcher) Dispatch(ctx context.Context, cycle punch.Cycle) bool {
	contextLogger := log.WithContext(ctx).WithField("cycle", cycle.ID)

	d.mu.Lock()
	if _, ok := d.running[cycle.ID]; ok {
		d.mu.Unlock()
		contextLogger.Warn("punch cycle already running, ignoring dispatch")
		if d.onDup != nil {
			d.onDup(cycle)
		}
		return false
	}
	d.running[cycle.ID] = struct{}{}
	d.wg.Add(1)
	d.mu.Unlock()

	snapshot := d.creds.Snapshot()
	contextLogger.Info("dispatching punch cycle")
	go d.run(ctx, cycle, snapshot)
	return true
}

// Running reports whether cycleID is in flight.
func (d *Dispatcher) Running(cycleID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.running[cycleID]
	return ok
}

// Wait blocks until every dispatched cycle has notified.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(parent context.Context, cycle punch.Cycle, creds credential.Credentials) {
	defer d.wg.Done()

	ctx, cancel := customctx.DetachWithTimeout(parent, d.timeout)
	outcome := d.execute(ctx, cycle, creds)
	cancel()

	d.mu.Lock()
	delete(d.running, cycle.ID)
	d.mu.Unlock()

	if d.notifier != nil {
		d.notifier.Notify(outcome)
	}
}

func (d *Dispatcher) execute(ctx context.Context, cycle punch.Cycle, creds credential.Credentials) punch.Outcome {
	return Guard(d.runner, d.journal).Run(ctx, cycle, creds)
}

type guarded struct {
	runner  Runner
	journal punch.Journal
}

// Guard wraps r so that a panic becomes a failure outcome with a journal
// entry instead of unwinding the calling goroutine.
func Guard(r Runner, j punch.Journal) Runner {
	return guarded{runner: r, journal: j}
}

func (g guarded) Run(ctx context.Context, cycle punch.Cycle, creds credential.Credentials) (outcome punch.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("workflow panic: %v", r)
			log.WithContext(ctx).WithField("cycle", cycle.ID).Errorf("punch workflow panicked: %v", r)
			if g.journal != nil {
				g.journal.Record(fmt.Sprintf("Attendance submission failed (%s) cycle=%s error=%v", punch.ReasonPanic, cycle.ID, err))
			}
			outcome = punch.FailureOutcome(cycle.ID, punch.ReasonPanic, err)
		}
	}()
	return g.runner.Run(ctx, cycle, creds)
}
