package enrich

import (
	"context"
	"time"

	"github.com/fernwhistle/geomaps"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is a message ready for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// LookupRequest is the JSON payload accepted on the source topic. A request
// carries either a free-form Query for forward geocoding or a Lat/Lon pair
// for reverse geocoding; the coordinate pair wins when both are present.
type LookupRequest struct {
	ID    string   `json:"id,omitempty"`
	Query string   `json:"query,omitempty"`
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
}

// Lookup source kinds recorded on enriched records.
const (
	SourceGeocode = "geocode"
	SourceReverse = "reverse"
)

// EnrichedLocation is the record published to the sink topic.
type EnrichedLocation struct {
	ID          string                 `json:"id"`
	Source      string                 `json:"source"`
	Position    geomaps.Coordinate     `json:"position"`
	Address     geomaps.Address        `json:"address"`
	Formatted   string                 `json:"formatted,omitempty"`
	Confidence  float64                `json:"confidence,omitempty"`
	Tier        geomaps.ConfidenceTier `json:"tier,omitempty"`
	ProcessedAt time.Time              `json:"processed_at"`
}
