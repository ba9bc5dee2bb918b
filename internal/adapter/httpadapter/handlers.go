package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fernwhistle/geomaps"
)

type geocodeItem struct {
	Position   geomaps.Coordinate     `json:"position"`
	Address    geomaps.Address        `json:"address"`
	Formatted  string                 `json:"formatted"`
	Confidence float64                `json:"confidence"`
	Tier       geomaps.ConfidenceTier `json:"tier"`
}

type addressItem struct {
	Address   geomaps.Address `json:"address"`
	Formatted string          `json:"formatted"`
}

type autocompleteItem struct {
	Address   geomaps.Address     `json:"address"`
	Formatted string              `json:"formatted"`
	Position  *geomaps.Coordinate `json:"position,omitempty"`
	Relevance float64             `json:"relevance"`
}

type routeResponse struct {
	Mode            geomaps.TravelMode `json:"mode"`
	DistanceMeters  float64            `json:"distance_meters"`
	DurationSeconds float64            `json:"duration_seconds"`
}

// matrixResponse uses pointers so unreachable cells serialize as null; NaN
// has no JSON representation.
type matrixResponse struct {
	Sources   []geomaps.Coordinate `json:"sources"`
	Targets   []geomaps.Coordinate `json:"targets"`
	Units     geomaps.DistanceUnit `json:"units"`
	Distances [][]*float64         `json:"distances"`
	Durations [][]*float64         `json:"durations"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	results, err := s.client.Geocode(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]geocodeItem, 0, len(results))
	for _, res := range results {
		items = append(items, geocodeItem{
			Position:   res.Position,
			Address:    res.Address,
			Formatted:  res.Address.Format(),
			Confidence: res.Confidence,
			Tier:       res.Tier(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	point, err := parsePoint(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	addrs, err := s.client.ReverseGeocode(r.Context(), point)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]addressItem, 0, len(addrs))
	for _, a := range addrs {
		items = append(items, addressItem{Address: a, Formatted: a.Format()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	limit := geomaps.DefaultAutocompleteLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, geomaps.NewValidationError("limit must be an integer, got %q", raw))
			return
		}
		limit = n
	}

	results, err := s.client.Autocomplete(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]autocompleteItem, 0, len(results))
	for _, res := range results {
		items = append(items, autocompleteItem{
			Address:   res.Address,
			Formatted: res.Address.Format(),
			Position:  res.Position,
			Relevance: res.Relevance,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	source, err := geomaps.ParseCoordinate(r.URL.Query().Get("from"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	target, err := geomaps.ParseCoordinate(r.URL.Query().Get("to"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	route, err := s.client.Route(r.Context(), source, target, parseMode(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, routeResponse{
		Mode:            route.Mode,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
	})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	sources, err := parsePoints(r.URL.Query().Get("sources"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	targets, err := parsePoints(r.URL.Query().Get("targets"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	units := geomaps.UnitMeters
	if raw := r.URL.Query().Get("units"); raw != "" {
		units = geomaps.DistanceUnit(raw)
	}

	result, err := s.client.DistanceMatrix(r.Context(), sources, targets, parseMode(r), units)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := matrixResponse{
		Sources:   result.Sources,
		Targets:   result.Targets,
		Units:     units,
		Distances: make([][]*float64, len(result.Distances)),
		Durations: make([][]*float64, len(result.Durations)),
	}
	for i := range result.Distances {
		resp.Distances[i] = make([]*float64, len(result.Distances[i]))
		resp.Durations[i] = make([]*float64, len(result.Durations[i]))
		for j := range result.Distances[i] {
			if d := result.Distances[i][j]; !geomaps.IsUnreachable(d) {
				converted := units.FromMeters(d)
				resp.Distances[i][j] = &converted
			}
			if d := result.Durations[i][j]; !geomaps.IsUnreachable(d) {
				duration := d
				resp.Durations[i][j] = &duration
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseMode reads the mode query parameter, defaulting to driving. Unknown
// values pass through so the provider rejects them with a ValidationError.
func parseMode(r *http.Request) geomaps.TravelMode {
	if raw := r.URL.Query().Get("mode"); raw != "" {
		return geomaps.TravelMode(raw)
	}
	return geomaps.ModeDriving
}

func parsePoint(lat, lon string) (geomaps.Coordinate, error) {
	latV, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geomaps.Coordinate{}, geomaps.NewValidationError("invalid latitude %q", lat)
	}
	lonV, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geomaps.Coordinate{}, geomaps.NewValidationError("invalid longitude %q", lon)
	}
	return geomaps.NewCoordinate(latV, lonV)
}

// parsePoints parses a pipe-separated list of "lat,lon" pairs.
func parsePoints(raw string) ([]geomaps.Coordinate, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, "|")
	points := make([]geomaps.Coordinate, 0, len(parts))
	for _, part := range parts {
		p, err := geomaps.ParseCoordinate(part)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// writeError maps the SDK error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		verr  *geomaps.ValidationError
		aerr  *geomaps.AuthenticationError
		rerr  *geomaps.RateLimitError
		nrerr *geomaps.NoRouteError
	)

	status := http.StatusBadGateway
	kind := "api_error"
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		kind = "validation_error"
	case errors.As(err, &nrerr):
		status = http.StatusNotFound
		kind = "no_route"
	case errors.As(err, &rerr):
		status = http.StatusTooManyRequests
		kind = "rate_limited"
		if rerr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rerr.RetryAfter.Seconds())))
		}
	case errors.As(err, &aerr):
		kind = "auth_error"
	}

	if status >= 500 {
		s.logger.Error("lookup request failed", "kind", kind, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
