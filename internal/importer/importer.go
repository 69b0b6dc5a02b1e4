package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lahirunirmalx/cOrange/internal/dispatch"
	"github.com/lahirunirmalx/cOrange/internal/punch"
)

const (
	DefaultRatePerSecond = 1
	DefaultConcurrency   = 2
)

type Service struct {
	runner      dispatch.Runner
	creds       dispatch.CredentialSource
	notifier    dispatch.Notifier
	limiter     *rate.Limiter
	concurrency int
	location    *time.Location
	journal     punch.Journal
}

func NewService(runner dispatch.Runner, creds dispatch.CredentialSource, notifier dispatch.Notifier,
	ratePerSecond float64, concurrency int) *Service {
	if ratePerSecond <= 0 {
		ratePerSecond = DefaultRatePerSecond
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		runner:      runner,
		creds:       creds,
		notifier:    notifier,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		concurrency: concurrency,
	}
}

// WithLocation sets the zone sheet times are read in. The default is time.Local.
func (s *Service) WithLocation(loc *time.Location) *Service {
	s.location = loc
	return s
}

// Location is the zone sheet times are read in; nil means time.Local.
func (s *Service) Location() *time.Location {
	return s.location
}

// WithJournal records rows whose submission panicked.
func (s *Service) WithJournal(j punch.Journal) *Service {
	s.journal = j
	return s
}

// Import submits every valid row of the sheet at path and returns the error
// strings for invalid rows and failed submissions, in row order.
func (s *Service) Import(ctx context.Context, path string) []string {
	ctxLogger := log.WithContext(ctx)
	rows, errResult := ReadFile(ctx, path, s.location)
	if len(errResult) > 0 {
		ctxLogger.Infof("There were %v errors during extracting timesheet data", len(errResult))
	}
	ctxLogger.Info("Timesheet rows: ", len(rows))

	outcomes := make([]punch.Outcome, len(rows))
	submitted := make([]bool, len(rows))
	var mu sync.Mutex

	runner := dispatch.Guard(s.runner, s.journal)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, row := range rows {
		if err := s.limiter.Wait(gctx); err != nil {
			ctxLogger.WithError(err).Warn("timesheet import stopped")
			break
		}
		g.Go(func() error {
			outcome := runner.Run(gctx, punch.NewCycle(row.Start, row.Stop), s.creds.Snapshot())
			if s.notifier != nil {
				s.notifier.Notify(outcome)
			}
			mu.Lock()
			outcomes[i] = outcome
			submitted[i] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i, row := range rows {
		switch {
		case !submitted[i]:
			errResult = append(errResult, fmt.Sprintf("Row %d: not submitted", row.Line))
		case !outcomes[i].Succeeded():
			errResult = append(errResult, fmt.Sprintf("Row %d: %s", row.Line, outcomes[i].Message))
		}
	}
	return errResult
}
