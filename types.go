package geomaps

import "math"

// TravelMode selects the routing profile for Route and DistanceMatrix.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeCycling TravelMode = "cycling"
	ModeTruck   TravelMode = "truck"
)

// IsValid reports whether m is one of the defined travel modes.
func (m TravelMode) IsValid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeCycling, ModeTruck:
		return true
	}
	return false
}

func (m TravelMode) String() string { return string(m) }

// DistanceUnit is a display unit for distances. Canonical results are
// always meters; conversion happens at the presentation boundary.
type DistanceUnit string

const (
	UnitMeters     DistanceUnit = "m"
	UnitKilometers DistanceUnit = "km"
	UnitMiles      DistanceUnit = "mi"
)

const metersPerMile = 1609.344

// IsValid reports whether u is one of the defined units.
func (u DistanceUnit) IsValid() bool {
	switch u {
	case UnitMeters, UnitKilometers, UnitMiles:
		return true
	}
	return false
}

func (u DistanceUnit) String() string { return string(u) }

// FromMeters converts a canonical meter value into this unit. NaN passes
// through unchanged so unreachable matrix cells stay marked.
func (u DistanceUnit) FromMeters(meters float64) float64 {
	switch u {
	case UnitKilometers:
		return meters / 1000
	case UnitMiles:
		return meters / metersPerMile
	default:
		return meters
	}
}

// ConfidenceTier buckets a geocoding confidence score into a coarse
// precision level.
type ConfidenceTier string

const (
	TierBuilding    ConfidenceTier = "building"
	TierStreet      ConfidenceTier = "street"
	TierCity        ConfidenceTier = "city"
	TierApproximate ConfidenceTier = "approximate"
)

// TierFor maps a normalized confidence score onto a tier.
func TierFor(confidence float64) ConfidenceTier {
	switch {
	case confidence >= 0.9:
		return TierBuilding
	case confidence >= 0.7:
		return TierStreet
	case confidence >= 0.4:
		return TierCity
	default:
		return TierApproximate
	}
}

// GeocodingResult is one candidate match for a forward geocoding query.
// Confidence is normalized to [0.0, 1.0] regardless of the vendor's
// native scoring scheme.
type GeocodingResult struct {
	Position   Coordinate `json:"position"`
	Address    Address    `json:"address"`
	Confidence float64    `json:"confidence"`
}

// Tier returns the precision bucket for this result's confidence.
func (r GeocodingResult) Tier() ConfidenceTier {
	return TierFor(r.Confidence)
}

// AutocompleteResult is one suggestion for a partial address query.
// Position is nil when the vendor supplied no coordinates for the
// suggestion.
type AutocompleteResult struct {
	Address   Address     `json:"address"`
	Position  *Coordinate `json:"position,omitempty"`
	Relevance float64     `json:"relevance"`
}

// RouteInfo describes the best route between two points.
type RouteInfo struct {
	Mode            TravelMode `json:"mode"`
	DistanceMeters  float64    `json:"distance_meters"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// Kilometers returns the route distance in kilometers.
func (r RouteInfo) Kilometers() float64 { return r.DistanceMeters / 1000 }

// Minutes returns the route duration in minutes.
func (r RouteInfo) Minutes() float64 { return r.DurationSeconds / 60 }

// Unreachable marks a matrix cell for which the vendor found no route.
// Use IsUnreachable to test for it; NaN never compares equal to itself.
var Unreachable = math.NaN()

// IsUnreachable reports whether a matrix cell holds the unreachable marker.
func IsUnreachable(v float64) bool { return math.IsNaN(v) }

// DistanceMatrixResult holds pairwise travel distances and durations.
// Both tables are len(Sources) rows by len(Targets) columns, distances in
// meters and durations in seconds, with Unreachable in cells the vendor
// could not connect.
type DistanceMatrixResult struct {
	Sources   []Coordinate `json:"sources"`
	Targets   []Coordinate `json:"targets"`
	Distances [][]float64  `json:"distances"`
	Durations [][]float64  `json:"durations"`
}

// Shape returns the row and column counts of the tables.
func (r DistanceMatrixResult) Shape() (rows, cols int) {
	return len(r.Sources), len(r.Targets)
}

// At returns the distance and duration from source i to target j.
func (r DistanceMatrixResult) At(i, j int) (distance, duration float64) {
	return r.Distances[i][j], r.Durations[i][j]
}
