package recorder

import (
	"context"

	"go.uber.org/multierr"

	"MarketSentinel/internal/model"
)

// Recorder persists the result of one run. Implementations receive the
// snapshot and the enriched series it was assembled from.
type Recorder interface {
	Record(ctx context.Context, snap *model.Snapshot, enriched *model.Enriched) error
	Close() error
}

// MultiRecorder fans a run out to several recorders. Every recorder is
// invoked even if an earlier one fails.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, snap *model.Snapshot, enriched *model.Enriched) error {
	var errs error
	for _, r := range m {
		errs = multierr.Append(errs, r.Record(ctx, snap, enriched))
	}
	return errs
}

func (m MultiRecorder) Close() error {
	var errs error
	for _, r := range m {
		errs = multierr.Append(errs, r.Close())
	}
	return errs
}
