package geomaps

import (
	"context"
	"strings"
)

// DefaultAutocompleteLimit is the suggestion count used when callers pass
// no explicit limit.
const DefaultAutocompleteLimit = 5

// Provider is the contract every vendor adapter satisfies. Implementations
// must validate inputs before any network I/O, return results in the
// canonical types, map every vendor failure onto the SDK error taxonomy,
// and be safe for concurrent use.
//
// Close releases transport resources. Operations called after Close may
// fail; Close itself must be safe to call more than once.
type Provider interface {
	// Geocode resolves a free-form query to candidate locations, best
	// match first. An empty slice means the vendor found nothing; that is
	// not an error.
	Geocode(ctx context.Context, query string) ([]GeocodingResult, error)

	// ReverseGeocode resolves a coordinate to the addresses at or near
	// that point, nearest first.
	ReverseGeocode(ctx context.Context, point Coordinate) ([]Address, error)

	// Autocomplete suggests completions for a partial query, never more
	// than limit of them.
	Autocomplete(ctx context.Context, query string, limit int) ([]AutocompleteResult, error)

	// DistanceMatrix computes pairwise travel distances and durations
	// between every source and every target.
	DistanceMatrix(ctx context.Context, sources, targets []Coordinate, mode TravelMode, units DistanceUnit) (DistanceMatrixResult, error)

	// Route computes the best route from source to target. A routable
	// pair with no path yields a NoRouteError.
	Route(ctx context.Context, source, target Coordinate, mode TravelMode) (RouteInfo, error)

	// Close releases the provider's transport resources.
	Close() error
}

// ValidateQuery rejects empty or whitespace-only query strings.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return NewValidationError("query must be a non-empty string")
	}
	return nil
}

// ValidateLimit rejects non-positive limits and, when ceiling is positive,
// limits above it.
func ValidateLimit(limit, ceiling int) error {
	if limit < 1 {
		return NewValidationError("limit must be positive, got %d", limit)
	}
	if ceiling > 0 && limit > ceiling {
		return NewValidationError("limit %d exceeds the maximum of %d", limit, ceiling)
	}
	return nil
}

// ValidatePoints rejects an empty point list or any out-of-range member.
// The name appears in the error so callers can tell sources from targets.
func ValidatePoints(name string, points []Coordinate) error {
	if len(points) == 0 {
		return NewValidationError("%s must not be empty", name)
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return NewValidationError("%s[%d]: %s out of range", name, i, p)
		}
	}
	return nil
}

// ValidateMatrix checks both point lists and, when ceiling is positive,
// the per-side size cap.
func ValidateMatrix(sources, targets []Coordinate, ceiling int) error {
	if err := ValidatePoints("sources", sources); err != nil {
		return err
	}
	if err := ValidatePoints("targets", targets); err != nil {
		return err
	}
	if ceiling > 0 && (len(sources) > ceiling || len(targets) > ceiling) {
		return NewValidationError("matrix of %dx%d exceeds the maximum of %dx%d",
			len(sources), len(targets), ceiling, ceiling)
	}
	return nil
}

// ValidateMode rejects travel modes outside the defined set.
func ValidateMode(mode TravelMode) error {
	if !mode.IsValid() {
		return NewValidationError("unsupported travel mode %q", mode)
	}
	return nil
}

// ValidateUnits rejects distance units outside the defined set.
func ValidateUnits(units DistanceUnit) error {
	if !units.IsValid() {
		return NewValidationError("unsupported distance unit %q", units)
	}
	return nil
}
