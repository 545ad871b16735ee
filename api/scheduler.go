/*
scheduler.go - Scheduled advice digest

PURPOSE:
  Periodically generates advice from the current ledger and writes each
  item to the log, so a running server leaves a trail of its own
  guidance without anyone calling /api/ai-advice.

DESIGN:
  - robfig/cron drives the schedule (standard 5-field specs or
    descriptors such as "@daily", "@every 6h")
  - Overlapping runs are skipped; panics inside a run are recovered
  - RunNow triggers one digest synchronously (CLI, tests)

USAGE:
  digest, err := NewDigestScheduler(handler.Advisor, logger, "@daily")
  digest.Start()
  // ... later
  digest.Stop()

SEE ALSO:
  - handlers.go: GetAdvice endpoint (on-demand advice)
  - advice/engine.go: Generate
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/warp/finance-advisor/advice"
)

// DigestResult records the outcome of one digest run.
type DigestResult struct {
	RanAt time.Time
	Items []advice.Item
	Err   error
}

// DigestScheduler runs the advice engine on a cron schedule.
type DigestScheduler struct {
	advisor *advice.Engine
	log     *logrus.Entry
	cron    *cron.Cron
	timeout time.Duration

	mu      sync.Mutex
	running bool
	last    DigestResult
}

// NewDigestScheduler validates schedule and registers the digest job.
func NewDigestScheduler(advisor *advice.Engine, logger *logrus.Logger, schedule string) (*DigestScheduler, error) {
	entry := logger.WithField("component", "digest")
	cronLog := cron.PrintfLogger(entry)

	ds := &DigestScheduler{
		advisor: advisor,
		log:     entry,
		timeout: time.Minute,
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
	}

	if _, err := ds.cron.AddFunc(schedule, func() { ds.RunNow(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return ds, nil
}

// Start begins the schedule. Calling Start twice is a no-op.
func (ds *DigestScheduler) Start() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.running {
		return
	}
	ds.cron.Start()
	ds.running = true

	entries := ds.cron.Entries()
	if len(entries) > 0 {
		ds.log.WithField("next", entries[0].Next.Format(time.RFC3339)).Info("digest scheduler started")
	}
}

// Stop halts the schedule and waits for a running digest to finish.
func (ds *DigestScheduler) Stop() {
	ds.mu.Lock()
	if !ds.running {
		ds.mu.Unlock()
		return
	}
	ds.running = false
	ds.mu.Unlock()

	<-ds.cron.Stop().Done()
	ds.log.Info("digest scheduler stopped")
}

// RunNow generates advice once and logs every item.
func (ds *DigestScheduler) RunNow(ctx context.Context) DigestResult {
	ctx, cancel := context.WithTimeout(ctx, ds.timeout)
	defer cancel()

	result := DigestResult{RanAt: time.Now()}
	result.Items, result.Err = ds.advisor.Generate(ctx)

	if result.Err != nil {
		ds.log.WithError(result.Err).Error("digest failed")
	} else {
		for i, it := range result.Items {
			fields := logrus.Fields{
				"position": i + 1,
				"kind":     string(it.Kind),
			}
			if it.Category != "" {
				fields["category"] = it.Category
			}
			ds.log.WithFields(fields).Info(it.Message)
		}
		ds.log.WithField("items", len(result.Items)).Info("digest complete")
	}

	ds.mu.Lock()
	ds.last = result
	ds.mu.Unlock()
	return result
}

// Last returns the most recent digest result. RanAt is zero before the
// first run.
func (ds *DigestScheduler) Last() DigestResult {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.last
}
