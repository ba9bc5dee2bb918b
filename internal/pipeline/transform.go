package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernwhistle/geomaps"
	"github.com/fernwhistle/geomaps/internal/enrich"
)

// LookupTransformer implements Transformer by resolving lookup requests
// through a location provider.
type LookupTransformer struct {
	provider geomaps.Provider
}

// NewTransformer creates a LookupTransformer backed by provider.
func NewTransformer(provider geomaps.Provider) *LookupTransformer {
	return &LookupTransformer{provider: provider}
}

func (t *LookupTransformer) Transform(ctx context.Context, raw enrich.RawEvent) (enrich.OutputEvent, error) {
	req, err := enrich.ParseRequest(raw)
	if err != nil {
		return enrich.OutputEvent{}, err
	}

	loc, err := enrich.Resolve(ctx, req, t.provider)
	if err != nil {
		return enrich.OutputEvent{}, err
	}

	value, err := json.Marshal(loc)
	if err != nil {
		return enrich.OutputEvent{}, fmt.Errorf("marshal enriched location: %w", err)
	}

	return enrich.OutputEvent{
		Key:   []byte(loc.ID),
		Value: value,
		Headers: map[string]string{
			"source":       loc.Source,
			"processed_at": loc.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
