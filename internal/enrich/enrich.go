// Package enrich holds the message model and lookup logic for the Kafka
// enrichment pipeline: lookup requests come in on the source topic, resolved
// locations go out on the sink topic.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/fernwhistle/geomaps"
)

// ParseRequest deserializes a RawEvent's value into a LookupRequest and
// rejects payloads that name neither a query nor a coordinate pair.
func ParseRequest(raw RawEvent) (LookupRequest, error) {
	var req LookupRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return LookupRequest{}, fmt.Errorf("parse lookup request: %w", err)
	}
	if req.Query == "" && (req.Lat == nil || req.Lon == nil) {
		return LookupRequest{}, fmt.Errorf("lookup request needs a query or a lat/lon pair")
	}
	return req, nil
}

// Resolve answers a lookup request through the provider contract. Requests
// carrying a coordinate pair are reverse geocoded; the rest are forward
// geocoded and the best match wins. An empty ID is replaced with a fresh
// UUID so every enriched record is keyable.
func Resolve(ctx context.Context, req LookupRequest, provider geomaps.Provider) (EnrichedLocation, error) {
	var zero EnrichedLocation

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	if req.Lat != nil && req.Lon != nil {
		point, err := geomaps.NewCoordinate(*req.Lat, *req.Lon)
		if err != nil {
			return zero, err
		}
		addrs, err := provider.ReverseGeocode(ctx, point)
		if err != nil {
			return zero, fmt.Errorf("reverse geocode %s: %w", point, err)
		}
		out := EnrichedLocation{
			ID:          id,
			Source:      SourceReverse,
			Position:    point,
			ProcessedAt: clock.Now().UTC(),
		}
		if len(addrs) > 0 {
			out.Address = addrs[0]
			out.Formatted = addrs[0].Format()
		}
		return out, nil
	}

	results, err := provider.Geocode(ctx, req.Query)
	if err != nil {
		return zero, fmt.Errorf("geocode %q: %w", req.Query, err)
	}
	if len(results) == 0 {
		return zero, fmt.Errorf("no geocoding results for %q", req.Query)
	}

	best := results[0]
	return EnrichedLocation{
		ID:          id,
		Source:      SourceGeocode,
		Position:    best.Position,
		Address:     best.Address,
		Formatted:   best.Address.Format(),
		Confidence:  best.Confidence,
		Tier:        best.Tier(),
		ProcessedAt: clock.Now().UTC(),
	}, nil
}
