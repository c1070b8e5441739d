package output

import (
	"context"
	"log/slog"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// BestEffort wraps a secondary sink so its failures downgrade to a warning.
// The primary CSV output must not be lost because a spreadsheet mirror is
// unreachable.
type BestEffort struct {
	sink   ports.CandidateSink
	logger *slog.Logger
}

var _ ports.CandidateSink = (*BestEffort)(nil)

func NewBestEffort(sink ports.CandidateSink, logger *slog.Logger) *BestEffort {
	if logger == nil {
		logger = slog.Default()
	}
	return &BestEffort{sink: sink, logger: logger}
}

func (b *BestEffort) Write(ctx context.Context, candidates []domain.ScoredCandidate) error {
	if err := b.sink.Write(ctx, candidates); err != nil {
		b.logger.Warn("secondary output sink failed", "error", err)
	}
	return nil
}
