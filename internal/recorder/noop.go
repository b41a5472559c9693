package recorder

import (
	"context"

	"MarketSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when no sink is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(context.Context, *model.Snapshot, *model.Enriched) error { return nil }
func (n *NoopRecorder) Close() error                                                  { return nil }
