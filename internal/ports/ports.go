package ports

import (
	"context"

	"github.com/forPelevin/cinedex/internal/domain/signal"
	"github.com/forPelevin/cinedex/internal/types"
)

// VideoInfo is the probed shape of a source file.
type VideoInfo struct {
	Duration float64 // seconds
	FPS      float64
}

// SignalSource produces per-frame raw measurements for one segment. An
// implementation fills only the feature families it supports; anything it
// cannot compute is reported absent, never as an error.
type SignalSource interface {
	Probe(ctx context.Context, path string) (VideoInfo, error)
	ExtractSignals(ctx context.Context, path string, start, end float64, plan signal.Plan) (types.SignalSequence, error)
}

// IndexStore persists a finished index for downstream search tooling.
type IndexStore interface {
	WriteIndex(ctx context.Context, doc types.IndexDocument) error
}
