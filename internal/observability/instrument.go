package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fernwhistle/geomaps"
)

// InstrumentedProvider wraps a geomaps.Provider with request metrics and
// structured logging. It satisfies geomaps.Provider itself, so it slots in
// front of any adapter without the caller noticing.
type InstrumentedProvider struct {
	inner   geomaps.Provider
	metrics *Metrics
	logger  *slog.Logger
}

// NewInstrumentedProvider wraps inner with metrics and logging.
func NewInstrumentedProvider(inner geomaps.Provider, metrics *Metrics, logger *slog.Logger) *InstrumentedProvider {
	return &InstrumentedProvider{inner: inner, metrics: metrics, logger: logger}
}

func (p *InstrumentedProvider) Geocode(ctx context.Context, query string) ([]geomaps.GeocodingResult, error) {
	start := time.Now()
	results, err := p.inner.Geocode(ctx, query)
	p.observe("geocode", start, err)
	return results, err
}

func (p *InstrumentedProvider) ReverseGeocode(ctx context.Context, point geomaps.Coordinate) ([]geomaps.Address, error) {
	start := time.Now()
	addrs, err := p.inner.ReverseGeocode(ctx, point)
	p.observe("reverse_geocode", start, err)
	return addrs, err
}

func (p *InstrumentedProvider) Autocomplete(ctx context.Context, query string, limit int) ([]geomaps.AutocompleteResult, error) {
	start := time.Now()
	results, err := p.inner.Autocomplete(ctx, query, limit)
	p.observe("autocomplete", start, err)
	return results, err
}

func (p *InstrumentedProvider) DistanceMatrix(ctx context.Context, sources, targets []geomaps.Coordinate, mode geomaps.TravelMode, units geomaps.DistanceUnit) (geomaps.DistanceMatrixResult, error) {
	start := time.Now()
	result, err := p.inner.DistanceMatrix(ctx, sources, targets, mode, units)
	p.observe("distance_matrix", start, err)
	return result, err
}

func (p *InstrumentedProvider) Route(ctx context.Context, source, target geomaps.Coordinate, mode geomaps.TravelMode) (geomaps.RouteInfo, error) {
	start := time.Now()
	route, err := p.inner.Route(ctx, source, target, mode)
	p.observe("route", start, err)
	return route, err
}

func (p *InstrumentedProvider) Close() error {
	return p.inner.Close()
}

func (p *InstrumentedProvider) observe(operation string, start time.Time, err error) {
	p.metrics.LookupRequests.WithLabelValues(operation, outcomeFor(err)).Inc()
	p.metrics.LookupDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Warn("lookup failed", "operation", operation, "error", err)
	}
}

// outcomeFor buckets an error into a bounded metric label set.
func outcomeFor(err error) string {
	if err == nil {
		return "success"
	}

	var (
		verr  *geomaps.ValidationError
		aerr  *geomaps.AuthenticationError
		rerr  *geomaps.RateLimitError
		nrerr *geomaps.NoRouteError
	)
	switch {
	case errors.As(err, &verr):
		return "validation_error"
	case errors.As(err, &aerr):
		return "auth_error"
	case errors.As(err, &rerr):
		return "rate_limited"
	case errors.As(err, &nrerr):
		return "no_route"
	default:
		return "api_error"
	}
}
