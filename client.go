package geomaps

import (
	"context"
	"errors"
)

// Client is the application-facing facade. It owns the provider's
// lifecycle and forwards each operation verbatim; all validation and
// error mapping happen inside the provider.
//
// Client is safe for concurrent use when its provider is.
type Client struct {
	provider Provider
}

// NewClient wraps a provider in a Client. The Client takes ownership:
// closing the Client closes the provider.
func NewClient(provider Provider) (*Client, error) {
	if provider == nil {
		return nil, NewValidationError("provider must not be nil")
	}
	return &Client{provider: provider}, nil
}

// Geocode resolves a free-form query to candidate locations.
func (c *Client) Geocode(ctx context.Context, query string) ([]GeocodingResult, error) {
	return c.provider.Geocode(ctx, query)
}

// ReverseGeocode resolves a coordinate to the addresses at or near it.
func (c *Client) ReverseGeocode(ctx context.Context, point Coordinate) ([]Address, error) {
	return c.provider.ReverseGeocode(ctx, point)
}

// Autocomplete suggests completions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string, limit int) ([]AutocompleteResult, error) {
	return c.provider.Autocomplete(ctx, query, limit)
}

// DistanceMatrix computes pairwise travel distances and durations.
func (c *Client) DistanceMatrix(ctx context.Context, sources, targets []Coordinate, mode TravelMode, units DistanceUnit) (DistanceMatrixResult, error) {
	return c.provider.DistanceMatrix(ctx, sources, targets, mode, units)
}

// Route computes the best route between two points.
func (c *Client) Route(ctx context.Context, source, target Coordinate, mode TravelMode) (RouteInfo, error) {
	return c.provider.Route(ctx, source, target, mode)
}

// Close releases the provider's transport resources.
func (c *Client) Close() error {
	return c.provider.Close()
}

// With runs fn against a Client built around provider and releases the
// provider on every exit path, including when fn fails or panics. A Close
// failure is joined onto fn's error.
func With(provider Provider, fn func(*Client) error) (err error) {
	client, err := NewClient(provider)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(client)
}
