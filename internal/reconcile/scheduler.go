// Package reconcile periodically refetches the content stores so order
// repairs and out-of-band edits land without admin traffic.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Fetcher is satisfied by the card and settings stores.
type Fetcher interface {
	Fetch(ctx context.Context)
}

// Purger drops stale admin state: expired sessions or idle login limiters.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron     *cron.Cron
	logger   *log.Logger
	purgers  []Purger
	fetchers []Fetcher
	timeout  time.Duration
}

// New registers the reconcile job on schedule (standard cron syntax or
// descriptors such as "@every 10m"). nil purgers are skipped.
func New(schedule string, logger *log.Logger, purgers []Purger, fetchers ...Fetcher) (*Scheduler, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	var live []Purger
	for _, p := range purgers {
		if p != nil {
			live = append(live, p)
		}
	}
	s := &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		purgers:  live,
		fetchers: fetchers,
		timeout:  time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce fetches every store and runs every purger.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, f := range s.fetchers {
		f.Fetch(ctx)
	}
	for _, p := range s.purgers {
		n, err := p.Purge(ctx)
		if err != nil {
			s.logger.Printf("purge %T: %v", p, err)
			continue
		}
		if n > 0 {
			s.logger.Printf("purge %T: removed %d entries", p, n)
		}
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Printf("reconcile scheduler started")
}

// Stop halts scheduling; the returned context is done once a running job
// finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
