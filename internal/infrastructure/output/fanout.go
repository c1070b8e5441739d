package output

import (
	"context"
	"errors"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// Fanout writes candidates to every configured sink. All sinks are attempted
// even when an earlier one fails, and the failures are joined.
type Fanout struct {
	sinks []ports.CandidateSink
}

var _ ports.CandidateSink = (*Fanout)(nil)

func NewFanout(sinks ...ports.CandidateSink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Write(ctx context.Context, candidates []domain.ScoredCandidate) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Write(ctx, candidates); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
