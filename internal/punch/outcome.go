package punch

import (
	"fmt"
	"time"
)

type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// Reason names why a submission failed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonAuth        Reason = "auth"
	ReasonNetwork     Reason = "network"
	ReasonBadResponse Reason = "bad response"
	ReasonRejected    Reason = "rejected"
	ReasonBusy        Reason = "busy"
	ReasonPanic       Reason = "internal error"
)

// Outcome is delivered exactly once per workflow run.
type Outcome struct {
	CycleID  string
	Status   Status
	Reason   Reason
	Message  string
	Err      error
	Record   Record
	Request  []byte
	Response []byte
	At       time.Time
}

func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

func successOutcome(cycle Cycle, record Record) Outcome {
	return Outcome{
		CycleID: cycle.ID,
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Attendance recorded: in %s %s, out %s %s",
			record.PunchInDate, record.PunchInTime, record.PunchOutDate, record.PunchOutTime),
		Record: record,
		At:     time.Now(),
	}
}

// FailureOutcome builds a failure for cycleID with a message derived from reason.
func FailureOutcome(cycleID string, reason Reason, err error) Outcome {
	return Outcome{
		CycleID: cycleID,
		Status:  StatusFailure,
		Reason:  reason,
		Message: fmt.Sprintf("Attendance submission failed: %s", reason),
		Err:     err,
		At:      time.Now(),
	}
}
