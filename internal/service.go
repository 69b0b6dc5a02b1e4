package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal/dispatch"
	"github.com/lahirunirmalx/cOrange/internal/punch"
)

var ErrAlreadySubmitting = errors.New("punch cycle already submitting")

type Dispatcher interface {
	Dispatch(ctx context.Context, cycle punch.Cycle) bool
}

type Importer interface {
	Import(ctx context.Context, path string) []string
}

// PunchStatus is the session state served by the status endpoint.
type PunchStatus struct {
	PunchedIn   bool         `json:"punched_in"`
	Since       *time.Time   `json:"since,omitempty"`
	Elapsed     string       `json:"elapsed"`
	Pending     int          `json:"pending"`
	LastOutcome *OutcomeView `json:"last_outcome,omitempty"`
}

type OutcomeView struct {
	CycleID string    `json:"cycle_id"`
	Status  string    `json:"status"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Service drives the punch session for the control API. Outcomes reach it
// through its mailbox, which Run drains.
type Service struct {
	session    *punch.Session
	dispatcher Dispatcher
	importer   Importer
	mailbox    *dispatch.Mailbox
	now        func() time.Time

	mu      sync.RWMutex
	last    *OutcomeView
	pending int
}

func NewService(session *punch.Session, dispatcher Dispatcher, importer Importer, mailbox *dispatch.Mailbox) *Service {
	if session == nil {
		session = &punch.Session{}
	}
	return &Service{
		session:    session,
		dispatcher: dispatcher,
		importer:   importer,
		mailbox:    mailbox,
		now:        time.Now,
	}
}

// Run consumes outcomes until ctx is done.
func (s *Service) Run(ctx context.Context) {
	s.mailbox.Run(ctx, s.record)
}

func (s *Service) record(outcome punch.Outcome) {
	log.WithFields(log.Fields{
		"cycle":  outcome.CycleID,
		"status": outcome.Status.String(),
		"reason": string(outcome.Reason),
	}).Info(outcome.Message)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &OutcomeView{
		CycleID: outcome.CycleID,
		Status:  outcome.Status.String(),
		Reason:  string(outcome.Reason),
		Message: outcome.Message,
		At:      outcome.At,
	}
	if s.pending > 0 {
		s.pending--
	}
}

func (s *Service) PunchIn(ctx context.Context) (time.Time, error) {
	now := s.now()
	if err := s.session.PunchIn(now); err != nil {
		return time.Time{}, err
	}
	log.WithContext(ctx).Infof("punched in at %s", now.Format(time.RFC3339))
	return now, nil
}

// PunchOut ends the session and submits the cycle in the background.
func (s *Service) PunchOut(ctx context.Context) (punch.Cycle, error) {
	cycle, err := s.session.PunchOut(s.now())
	if err != nil {
		return punch.Cycle{}, err
	}

	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	if !s.dispatcher.Dispatch(ctx, cycle) {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
		return cycle, ErrAlreadySubmitting
	}
	return cycle, nil
}

func (s *Service) Status() PunchStatus {
	now := s.now()
	status := PunchStatus{Elapsed: punch.FormatElapsed(0)}
	if start, ok := s.session.Started(); ok {
		status.PunchedIn = true
		status.Since = &start
		status.Elapsed = punch.FormatElapsed(s.session.Elapsed(now))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	status.Pending = s.pending
	if s.last != nil {
		last := *s.last
		status.LastOutcome = &last
	}
	return status
}

// Import backfills the timesheet at path.
func (s *Service) Import(ctx context.Context, path string) []string {
	return s.importer.Import(ctx, path)
}
