package punch

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPunchedIn = errors.New("already punched in")
	ErrNotPunchedIn     = errors.New("not punched in")
	ErrStopBeforeStart  = errors.New("punch out is before punch in")
)

// Cycle is one start/stop interval. ID identifies the cycle across the
// dispatcher, notifications and logs.
type Cycle struct {
	ID    string
	Start time.Time
	Stop  time.Time
}

func NewCycle(start, stop time.Time) Cycle {
	return Cycle{ID: uuid.NewString(), Start: start, Stop: stop}
}

func (c Cycle) Elapsed() time.Duration {
	return c.Stop.Sub(c.Start)
}

// Session tracks whether the user is punched in.
type Session struct {
	mu     sync.Mutex
	start  time.Time
	active bool
}

func (s *Session) PunchIn(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrAlreadyPunchedIn
	}
	s.start = now
	s.active = true
	return nil
}

// PunchOut closes the open interval and returns it as a new Cycle.
func (s *Session) PunchOut(now time.Time) (Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return Cycle{}, ErrNotPunchedIn
	}
	if now.Before(s.start) {
		return Cycle{}, ErrStopBeforeStart
	}
	s.active = false
	return NewCycle(s.start, now), nil
}

// Started returns the punch-in time while punched in.
func (s *Session) Started() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start, s.active
}

// Elapsed is the time since punch-in, zero when punched out.
func (s *Session) Elapsed(now time.Time) time.Duration {
	start, ok := s.Started()
	if !ok {
		return 0
	}
	return now.Sub(start)
}
