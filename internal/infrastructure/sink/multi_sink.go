package sink

import (
	"context"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
)

// MultiSink delivers to every sink in order and reports the first failure.
type MultiSink struct {
	sinks []repository.DocumentSink
}

func NewMultiSink(sinks ...repository.DocumentSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Deliver(ctx context.Context, doc *entity.Document) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Deliver(ctx, doc); err != nil && first == nil {
			first = err
		}
	}
	return first
}
