package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSentinel/internal/calculator"
	"MarketSentinel/internal/collector"
	"MarketSentinel/internal/metrics"
	"MarketSentinel/internal/model"
)

type stubRecorder struct {
	snaps []*model.Snapshot
	err   error
}

func (r *stubRecorder) Record(_ context.Context, snap *model.Snapshot, _ *model.Enriched) error {
	r.snaps = append(r.snaps, snap)
	return r.err
}

func (r *stubRecorder) Close() error { return nil }

func newScheduler(fetcher collector.Fetcher, rec *stubRecorder) (*Scheduler, *metrics.Metrics) {
	col := collector.NewCollector(fetcher, "RHM.DE", 180, calculator.DefaultParams())
	m := metrics.New()
	return NewScheduler(context.Background(), col, rec, m), m
}

func TestRunOnce(t *testing.T) {
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	rec := &stubRecorder{}
	s, m := newScheduler(&collector.MockFetcher{Bars: collector.GenerateRamp(end, 200, 1000, 300)}, rec)

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.snaps, 1)
	assert.Equal(t, res.Snapshot, rec.snaps[0])
	assert.Equal(t, res.Snapshot, s.Last())
	assert.Equal(t, "2025-01-31", s.Last().AsOfDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("ok")))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.Bars.WithLabelValues("RHM.DE")))
}

func TestRunOnce_EmptySeriesSkipsSinks(t *testing.T) {
	rec := &stubRecorder{}
	s, m := newScheduler(&collector.MockFetcher{Bars: []model.Bar{}}, rec)

	_, err := s.RunOnce(context.Background())
	assert.True(t, errors.Is(err, model.ErrEmptySeries))
	assert.Empty(t, rec.snaps)
	assert.Nil(t, s.Last())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("error")))
}

func TestRunOnce_RecordError(t *testing.T) {
	rec := &stubRecorder{err: errors.New("disk full")}
	s, m := newScheduler(&collector.MockFetcher{Price: 50, Volume: 10}, rec)

	res, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("record_error")))
}

func TestHandleCommand(t *testing.T) {
	rec := &stubRecorder{}
	s, _ := newScheduler(&collector.MockFetcher{Price: 50, Volume: 10}, rec)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/latest"), "no snapshot yet")
	assert.Contains(t, s.HandleCommand(ctx, "/snapshot"), "<b>RHM.DE</b>")
	assert.Len(t, rec.snaps, 1)
	assert.Contains(t, s.HandleCommand(ctx, "/latest"), "<b>RHM.DE</b>")
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/snapshot")
}

func TestHandleCommand_Failure(t *testing.T) {
	s, _ := newScheduler(&collector.MockFetcher{Err: errors.New("offline")}, &stubRecorder{})
	assert.Contains(t, s.HandleCommand(context.Background(), "/snapshot"), "offline")
}

func TestHandleCommand_RecordErrorInReply(t *testing.T) {
	rec := &stubRecorder{err: errors.New("disk full")}
	s, _ := newScheduler(&collector.MockFetcher{Price: 50, Volume: 10}, rec)

	reply := s.HandleCommand(context.Background(), "/snapshot")
	assert.Contains(t, reply, "<b>RHM.DE</b>")
	assert.Contains(t, reply, "recording failed")
	assert.Contains(t, reply, "disk full")
}

func TestRegister(t *testing.T) {
	s, _ := newScheduler(&collector.MockFetcher{Price: 1}, &stubRecorder{})
	require.NoError(t, s.Register("0 30 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}
