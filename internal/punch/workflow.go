package punch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/lahirunirmalx/cOrange/internal/credential"
	"github.com/lahirunirmalx/cOrange/internal/orangehrm"
)

// DefaultMaxConcurrent bounds submissions in flight across all callers.
const DefaultMaxConcurrent = 4

var errRejected = errors.New(`attendance endpoint answered success "false"`)

// Journal receives one entry per failed submission.
type Journal interface {
	Record(message string)
}

type Workflow struct {
	client   orangehrm.ClientInterface
	journal  Journal
	location *time.Location
	slots    *semaphore.Weighted
}

// NewWorkflow builds a workflow that localizes timestamps in loc (nil means
// time.Local).
func NewWorkflow(c orangehrm.ClientInterface, j Journal, loc *time.Location) *Workflow {
	if loc == nil {
		loc = time.Local
	}
	return &Workflow{client: c, journal: j, location: loc, slots: semaphore.NewWeighted(DefaultMaxConcurrent)}
}

// WithConcurrency bounds how many runs may talk to OrangeHRM at once. Runs
// beyond the bound wait for a slot until their context ends.
func (w *Workflow) WithConcurrency(n int64) *Workflow {
	if n <= 0 {
		n = DefaultMaxConcurrent
	}
	w.slots = semaphore.NewWeighted(n)
	return w
}

// Run submits cycle using creds, which must be a private snapshot: the token
// fetched here is applied to that copy only. Run never panics on remote
// failures; every failure becomes an Outcome and one journal entry.
func (w *Workflow) Run(ctx context.Context, cycle Cycle, creds credential.Credentials) (outcome Outcome) {
	ctxLogger := log.WithContext(ctx).WithField("cycle", cycle.ID)

	record := NewRecord(creds.EmployeeID, cycle.Start, cycle.Stop, w.location)
	// Record holds only strings, Marshal cannot fail.
	payload, _ := json.Marshal(record)

	defer func() {
		if r := recover(); r != nil {
			ctxLogger.Errorf("punch workflow panicked: %v", r)
			outcome = w.fail(cycle, record, ReasonPanic, fmt.Errorf("workflow panic: %v", r), payload, nil)
		}
	}()

	if err := w.slots.Acquire(ctx, 1); err != nil {
		ctxLogger.WithError(err).Error("No submission slot before deadline")
		return w.fail(cycle, record, ReasonBusy, fmt.Errorf("wait for submission slot: %w", err), payload, nil)
	}
	defer w.slots.Release(1)

	refreshed, err := w.client.FetchToken(ctx, creds)
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to obtain access token")
		return w.fail(cycle, record, ReasonAuth, err, payload, nil)
	}

	buf, err := w.client.Do(ctx, orangehrm.MethodPost, orangehrm.AttendancePath, payload, refreshed)
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to post attendance record")
		return w.fail(cycle, record, ReasonNetwork, err, payload, nil)
	}
	response := []byte(buf.String())
	buf.Release()

	var body any
	if err := json.Unmarshal(response, &body); err != nil {
		ctxLogger.WithError(err).Error("Unable to parse attendance response")
		return w.fail(cycle, record, ReasonBadResponse, err, payload, response)
	}

	if rejected(body) {
		ctxLogger.Info("Attendance record rejected by OrangeHRM")
		return w.fail(cycle, record, ReasonRejected, errRejected, payload, response)
	}

	ctxLogger.Info("Attendance record submitted")
	outcome = successOutcome(cycle, record)
	outcome.Request = payload
	outcome.Response = response
	return outcome
}

// rejected is true only when a top-level "success" field reads "false". An
// absent field counts as success.
func rejected(body any) bool {
	fields, ok := body.(map[string]any)
	if !ok {
		return false
	}
	switch v := fields["success"].(type) {
	case string:
		return v == "false"
	case bool:
		return !v
	}
	return false
}

func (w *Workflow) fail(cycle Cycle, record Record, reason Reason, err error, request, response []byte) Outcome {
	entry := fmt.Sprintf("Attendance submission failed (%s) cycle=%s request=%s", reason, cycle.ID, request)
	if response != nil {
		entry += fmt.Sprintf(" response=%s", response)
	}
	if err != nil {
		entry += fmt.Sprintf(" error=%v", err)
	}
	if w.journal != nil {
		w.journal.Record(entry)
	}

	outcome := FailureOutcome(cycle.ID, reason, err)
	outcome.Record = record
	outcome.Request = request
	outcome.Response = response
	return outcome
}
