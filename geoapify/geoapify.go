// Package geoapify implements the geomaps.Provider contract against the
// Geoapify location platform.
package geoapify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fernwhistle/geomaps"
)

const (
	// DefaultBaseURL is the production Geoapify endpoint.
	DefaultBaseURL = "https://api.geoapify.com/v1"

	// DefaultTimeout bounds each request when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	// MaxMatrixDimension is the per-side cap Geoapify enforces on route
	// matrix requests.
	MaxMatrixDimension = 10

	// MaxAutocompleteLimit is the largest suggestion count Geoapify accepts.
	MaxAutocompleteLimit = 50
)

// Config carries adapter settings. Only APIKey is required.
type Config struct {
	// APIKey authenticates every request.
	APIKey string

	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is used as-is when set. The provider then does not own
	// the client and Close leaves it untouched.
	HTTPClient *http.Client

	// Logger receives request diagnostics. Defaults to a discard logger.
	Logger *slog.Logger

	// Clock drives Retry-After arithmetic. Tests inject a fake.
	Clock clockwork.Clock
}

// Provider talks to the Geoapify API. It keeps no per-call state and the
// underlying http.Client is safe for concurrent use, so a single Provider
// serves any number of goroutines.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	clock      clockwork.Clock
	ownsClient bool
}

// New builds a Provider from cfg.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, geomaps.NewValidationError("api key must be a non-empty string")
	}

	p := &Provider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		logger:  cfg.Logger,
		clock:   cfg.Clock,
	}
	if p.baseURL == "" {
		p.baseURL = DefaultBaseURL
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}

	if cfg.HTTPClient != nil {
		p.httpClient = cfg.HTTPClient
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		p.httpClient = &http.Client{Timeout: timeout}
		p.ownsClient = true
	}
	return p, nil
}

// Geocode resolves a free-form query to candidate locations, best match
// first.
func (p *Provider) Geocode(ctx context.Context, query string) ([]geomaps.GeocodingResult, error) {
	if err := geomaps.ValidateQuery(query); err != nil {
		return nil, err
	}

	params := url.Values{
		"text":   {query},
		"format": {"json"},
	}
	var body featureCollection
	if err := p.get(ctx, "/geocode/search", params, &body); err != nil {
		return nil, err
	}

	results := make([]geomaps.GeocodingResult, 0, len(body.Features))
	for _, f := range body.Features {
		pos, ok := f.position()
		if !ok {
			continue
		}
		results = append(results, geomaps.GeocodingResult{
			Position:   pos,
			Address:    f.Properties.address(),
			Confidence: clampConfidence(f.Properties.Rank.Confidence),
		})
	}
	return results, nil
}

// ReverseGeocode resolves a coordinate to the addresses at or near it,
// nearest first.
func (p *Provider) ReverseGeocode(ctx context.Context, point geomaps.Coordinate) ([]geomaps.Address, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{
		"lat":    {strconv.FormatFloat(point.Latitude, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(point.Longitude, 'f', -1, 64)},
		"format": {"json"},
	}
	var body featureCollection
	if err := p.get(ctx, "/geocode/reverse", params, &body); err != nil {
		return nil, err
	}

	addrs := make([]geomaps.Address, 0, len(body.Features))
	for _, f := range body.Features {
		addrs = append(addrs, f.Properties.address())
	}
	return addrs, nil
}

// Autocomplete suggests completions for a partial query, at most limit of
// them.
func (p *Provider) Autocomplete(ctx context.Context, query string, limit int) ([]geomaps.AutocompleteResult, error) {
	if err := geomaps.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := geomaps.ValidateLimit(limit, MaxAutocompleteLimit); err != nil {
		return nil, err
	}

	params := url.Values{
		"text":   {query},
		"limit":  {strconv.Itoa(limit)},
		"format": {"json"},
	}
	var body featureCollection
	if err := p.get(ctx, "/geocode/autocomplete", params, &body); err != nil {
		return nil, err
	}

	features := body.Features
	if len(features) > limit {
		features = features[:limit]
	}
	results := make([]geomaps.AutocompleteResult, 0, len(features))
	for _, f := range features {
		r := geomaps.AutocompleteResult{
			Address:   f.Properties.address(),
			Relevance: clampConfidence(f.Properties.Rank.Confidence),
		}
		if pos, ok := f.position(); ok {
			r.Position = &pos
		}
		results = append(results, r)
	}
	return results, nil
}

// DistanceMatrix computes pairwise travel distances and durations. The
// result stays in meters and seconds; units is validated here and applied
// by callers at the presentation boundary.
func (p *Provider) DistanceMatrix(ctx context.Context, sources, targets []geomaps.Coordinate, mode geomaps.TravelMode, units geomaps.DistanceUnit) (geomaps.DistanceMatrixResult, error) {
	var zero geomaps.DistanceMatrixResult
	if err := geomaps.ValidateMatrix(sources, targets, MaxMatrixDimension); err != nil {
		return zero, err
	}
	if err := geomaps.ValidateMode(mode); err != nil {
		return zero, err
	}
	if err := geomaps.ValidateUnits(units); err != nil {
		return zero, err
	}

	params := url.Values{
		"sources": {joinPoints(sources)},
		"targets": {joinPoints(targets)},
		"mode":    {modeToken(mode)},
	}
	var body matrixResponse
	if err := p.get(ctx, "/routematrix", params, &body); err != nil {
		return zero, err
	}

	if len(body.SourcesToTargets) != len(sources) {
		return zero, &geomaps.APIError{
			Message: "route matrix has wrong row count",
		}
	}
	result := geomaps.DistanceMatrixResult{
		Sources:   sources,
		Targets:   targets,
		Distances: make([][]float64, len(sources)),
		Durations: make([][]float64, len(sources)),
	}
	for i, row := range body.SourcesToTargets {
		if len(row) != len(targets) {
			return zero, &geomaps.APIError{
				Message: "route matrix has wrong column count",
			}
		}
		result.Distances[i] = make([]float64, len(targets))
		result.Durations[i] = make([]float64, len(targets))
		for j, cell := range row {
			result.Distances[i][j] = cellValue(cell.Distance)
			result.Durations[i][j] = cellValue(cell.Time)
		}
	}
	return result, nil
}

// Route computes the best route from source to target.
func (p *Provider) Route(ctx context.Context, source, target geomaps.Coordinate, mode geomaps.TravelMode) (geomaps.RouteInfo, error) {
	var zero geomaps.RouteInfo
	if err := source.Validate(); err != nil {
		return zero, err
	}
	if err := target.Validate(); err != nil {
		return zero, err
	}
	if err := geomaps.ValidateMode(mode); err != nil {
		return zero, err
	}

	params := url.Values{
		"waypoints": {source.String() + "|" + target.String()},
		"mode":      {modeToken(mode)},
		"format":    {"json"},
	}
	var body featureCollection
	if err := p.get(ctx, "/routing", params, &body); err != nil {
		return zero, err
	}

	if len(body.Features) == 0 {
		return zero, &geomaps.NoRouteError{Source: source, Target: target}
	}
	f := body.Features[0]
	return geomaps.RouteInfo{
		Mode:            mode,
		DistanceMeters:  f.Properties.Distance,
		DurationSeconds: f.Properties.Time,
	}, nil
}

// Close releases idle transport connections. A caller-supplied HTTPClient
// stays untouched. Safe to call more than once.
func (p *Provider) Close() error {
	if p.ownsClient {
		p.httpClient.CloseIdleConnections()
	}
	return nil
}

// modeToken maps the canonical travel modes onto Geoapify profile names.
func modeToken(mode geomaps.TravelMode) string {
	switch mode {
	case geomaps.ModeWalking:
		return "walk"
	case geomaps.ModeCycling:
		return "bicycle"
	case geomaps.ModeTruck:
		return "truck"
	default:
		return "drive"
	}
}

func joinPoints(points []geomaps.Coordinate) string {
	out := ""
	for i, p := range points {
		if i > 0 {
			out += "|"
		}
		out += p.String()
	}
	return out
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func cellValue(v *float64) float64 {
	if v == nil {
		return geomaps.Unreachable
	}
	return *v
}
