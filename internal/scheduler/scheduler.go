package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"MarketSentinel/internal/collector"
	"MarketSentinel/internal/metrics"
	"MarketSentinel/internal/model"
	"MarketSentinel/internal/notifier"
	"MarketSentinel/internal/recorder"
)

var log = logrus.WithField("component", "scheduler")

// Scheduler runs the snapshot pipeline on a cron schedule or on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics // optional
	Ctx       context.Context

	mu   sync.Mutex
	last *model.Snapshot
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Collector: col,
		Recorder:  rec,
		Metrics:   m,
		Ctx:       ctx,
	}
}

// Register schedules the daily snapshot run.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunOnce fetches, computes and records one snapshot. Nothing is recorded
// when the collection fails.
func (s *Scheduler) RunOnce(ctx context.Context) (*collector.Result, error) {
	start := time.Now()
	res, err := s.Collector.Collect(ctx)
	if err != nil {
		s.observeRun("error", start)
		return nil, err
	}

	s.mu.Lock()
	s.last = res.Snapshot
	s.mu.Unlock()
	if s.Metrics != nil {
		s.Metrics.ObserveSnapshot(res.Snapshot, res.Enriched.Series.Len())
	}

	if err := s.Recorder.Record(ctx, res.Snapshot, res.Enriched); err != nil {
		s.observeRun("record_error", start)
		return res, fmt.Errorf("record snapshot: %w", err)
	}
	s.observeRun("ok", start)

	log.WithFields(logrus.Fields{
		"symbol":  res.Snapshot.Instrument,
		"as_of":   res.Snapshot.AsOfDate,
		"close":   res.Snapshot.Price.Close,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("snapshot recorded")
	return res, nil
}

func (s *Scheduler) observeRun(result string, start time.Time) {
	if s.Metrics != nil {
		s.Metrics.ObserveRun(result, time.Since(start))
	}
}

// Last returns the most recent snapshot computed by this process, if any.
func (s *Scheduler) Last() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) dailyTask() {
	log.Info("running daily snapshot")
	if _, err := s.RunOnce(s.Ctx); err != nil {
		log.WithError(err).Error("daily snapshot failed")
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/snapshot":
		res, err := s.RunOnce(ctx)
		if err != nil && res == nil {
			return fmt.Sprintf("❌ snapshot failed: %v", err)
		}
		reply := notifier.FormatSnapshot(res.Snapshot)
		if err != nil {
			reply += fmt.Sprintf("\n⚠️ recording failed: %v", err)
		}
		return reply
	case "/latest":
		if last := s.Last(); last != nil {
			return notifier.FormatSnapshot(last)
		}
		return "no snapshot yet, send /snapshot"
	default:
		return "commands:\n• /snapshot - compute now\n• /latest - last snapshot"
	}
}
