package geoapify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwhistle/geomaps"
)

const (
	testKey           = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := New(Config{
		APIKey:  testKey,
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return p
}

func float64Ptr(v float64) *float64 { return &v }

func TestNew(t *testing.T) {
	t.Run("rejects empty api key", func(t *testing.T) {
		_, err := New(Config{})

		var verr *geomaps.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("applies defaults", func(t *testing.T) {
		p, err := New(Config{APIKey: testKey})

		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, p.baseURL)
		assert.Equal(t, DefaultTimeout, p.httpClient.Timeout)
		assert.True(t, p.ownsClient)
	})

	t.Run("keeps caller-supplied http client", func(t *testing.T) {
		hc := &http.Client{Timeout: time.Second}
		p, err := New(Config{APIKey: testKey, HTTPClient: hc})

		require.NoError(t, err)
		assert.Same(t, hc, p.httpClient)
		assert.False(t, p.ownsClient)
	})
}

func TestProvider_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "invalidenstrasse 117 berlin", r.URL.Query().Get("text"))
		assert.Equal(t, testKey, r.URL.Query().Get("apiKey"))

		resp := featureCollection{
			Features: []feature{
				{
					Geometry: geometry{Coordinates: []float64{13.3847, 52.5309}},
					Properties: properties{
						Street:      "Invalidenstrasse",
						HouseNumber: "117",
						City:        "Berlin",
						Postcode:    "10115",
						Country:     "Germany",
						CountryCode: "de",
						Formatted:   "Invalidenstrasse 117, 10115 Berlin, Germany",
						Rank:        rank{Confidence: 0.95},
					},
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	results, err := p.Geocode(context.Background(), "invalidenstrasse 117 berlin")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 52.5309, results[0].Position.Latitude)
	assert.Equal(t, 13.3847, results[0].Position.Longitude)
	assert.Equal(t, "Berlin", results[0].Address.City)
	assert.Equal(t, "de", results[0].Address.CountryCode)
	assert.Equal(t, 0.95, results[0].Confidence)
	assert.Equal(t, geomaps.TierBuilding, results[0].Tier())
}

func TestProvider_Geocode_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(featureCollection{}))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	results, err := p.Geocode(context.Background(), "nowhere in particular")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProvider_Geocode_SkipsFeaturesWithoutGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := featureCollection{
			Features: []feature{
				{Properties: properties{City: "Nowhere"}},
				{
					Geometry:   geometry{Coordinates: []float64{2.3522, 48.8566}},
					Properties: properties{City: "Paris", Rank: rank{Confidence: 0.8}},
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	results, err := p.Geocode(context.Background(), "paris")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Paris", results[0].Address.City)
}

func TestProvider_Geocode_ValidatesBeforeRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	_, err := p.Geocode(context.Background(), "   ")

	var verr *geomaps.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, requests)
}

func TestProvider_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/reverse", r.URL.Path)
		assert.Equal(t, "48.8566", r.URL.Query().Get("lat"))
		assert.Equal(t, "2.3522", r.URL.Query().Get("lon"))

		resp := featureCollection{
			Features: []feature{
				{Properties: properties{City: "Paris", Country: "France", Formatted: "Paris, France"}},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	addrs, err := p.ReverseGeocode(context.Background(), geomaps.Coordinate{Latitude: 48.8566, Longitude: 2.3522})
	require.NoError(t, err)

	require.Len(t, addrs, 1)
	assert.Equal(t, "Paris", addrs[0].City)
	assert.Equal(t, "Paris, France", addrs[0].Formatted)
}

func TestProvider_ReverseGeocode_RejectsBadPoint(t *testing.T) {
	p := testProvider(t, "http://unused.invalid")
	_, err := p.ReverseGeocode(context.Background(), geomaps.Coordinate{Latitude: 95, Longitude: 0})

	var verr *geomaps.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestProvider_Autocomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/autocomplete", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))

		// One more feature than asked for; the adapter must truncate.
		resp := featureCollection{
			Features: []feature{
				{Geometry: geometry{Coordinates: []float64{13.405, 52.52}}, Properties: properties{City: "Berlin", Rank: rank{Confidence: 0.9}}},
				{Properties: properties{City: "Bern"}},
				{Properties: properties{City: "Bergen"}},
				{Properties: properties{City: "Bermuda"}},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	results, err := p.Autocomplete(context.Background(), "ber", 3)
	require.NoError(t, err)

	require.Len(t, results, 3)
	require.NotNil(t, results[0].Position)
	assert.Equal(t, 52.52, results[0].Position.Latitude)
	assert.Nil(t, results[1].Position)
}

func TestProvider_Autocomplete_LimitValidation(t *testing.T) {
	p := testProvider(t, "http://unused.invalid")

	_, err := p.Autocomplete(context.Background(), "ber", 0)
	assert.Error(t, err)

	_, err = p.Autocomplete(context.Background(), "ber", MaxAutocompleteLimit+1)
	assert.Error(t, err)
}

func TestProvider_DistanceMatrix_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routematrix", r.URL.Path)
		assert.Equal(t, "52.52,13.405|48.8566,2.3522", r.URL.Query().Get("sources"))
		assert.Equal(t, "50.1109,8.6821", r.URL.Query().Get("targets"))
		assert.Equal(t, "drive", r.URL.Query().Get("mode"))

		resp := matrixResponse{
			SourcesToTargets: [][]matrixCell{
				{{Distance: float64Ptr(545000), Time: float64Ptr(19620)}},
				{{Distance: nil, Time: nil}},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	sources := []geomaps.Coordinate{
		{Latitude: 52.52, Longitude: 13.405},
		{Latitude: 48.8566, Longitude: 2.3522},
	}
	targets := []geomaps.Coordinate{{Latitude: 50.1109, Longitude: 8.6821}}

	p := testProvider(t, srv.URL)
	result, err := p.DistanceMatrix(context.Background(), sources, targets, geomaps.ModeDriving, geomaps.UnitMeters)
	require.NoError(t, err)

	rows, cols := result.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 1, cols)

	want := [][]float64{{545000}, {geomaps.Unreachable}}
	assert.Empty(t, cmp.Diff(want, result.Distances, cmpopts.EquateNaNs()))
	assert.Equal(t, 19620.0, result.Durations[0][0])
	assert.True(t, geomaps.IsUnreachable(result.Durations[1][0]))
}

func TestProvider_DistanceMatrix_ShapeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := matrixResponse{SourcesToTargets: [][]matrixCell{{{Distance: float64Ptr(1)}}}}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	sources := []geomaps.Coordinate{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}}
	targets := []geomaps.Coordinate{{Latitude: 3, Longitude: 3}}

	p := testProvider(t, srv.URL)
	_, err := p.DistanceMatrix(context.Background(), sources, targets, geomaps.ModeDriving, geomaps.UnitMeters)

	var apiErr *geomaps.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestProvider_DistanceMatrix_Validation(t *testing.T) {
	p := testProvider(t, "http://unused.invalid")
	point := []geomaps.Coordinate{{Latitude: 1, Longitude: 1}}
	tooMany := make([]geomaps.Coordinate, MaxMatrixDimension+1)

	tests := []struct {
		name    string
		sources []geomaps.Coordinate
		targets []geomaps.Coordinate
		mode    geomaps.TravelMode
		units   geomaps.DistanceUnit
	}{
		{name: "empty sources", sources: nil, targets: point, mode: geomaps.ModeDriving, units: geomaps.UnitMeters},
		{name: "over matrix cap", sources: tooMany, targets: point, mode: geomaps.ModeDriving, units: geomaps.UnitMeters},
		{name: "bad mode", sources: point, targets: point, mode: "teleport", units: geomaps.UnitMeters},
		{name: "bad units", sources: point, targets: point, mode: geomaps.ModeDriving, units: "leagues"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.DistanceMatrix(context.Background(), tt.sources, tt.targets, tt.mode, tt.units)

			var verr *geomaps.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestProvider_Route_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routing", r.URL.Path)
		assert.Equal(t, "52.52,13.405|48.8566,2.3522", r.URL.Query().Get("waypoints"))
		assert.Equal(t, "bicycle", r.URL.Query().Get("mode"))

		resp := featureCollection{
			Features: []feature{{Properties: properties{Distance: 1054000, Time: 225000}}},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	route, err := p.Route(context.Background(),
		geomaps.Coordinate{Latitude: 52.52, Longitude: 13.405},
		geomaps.Coordinate{Latitude: 48.8566, Longitude: 2.3522},
		geomaps.ModeCycling)
	require.NoError(t, err)

	assert.Equal(t, geomaps.ModeCycling, route.Mode)
	assert.Equal(t, 1054000.0, route.DistanceMeters)
	assert.Equal(t, 225000.0, route.DurationSeconds)
}

func TestProvider_Route_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(featureCollection{}))
	}))
	defer srv.Close()

	source := geomaps.Coordinate{Latitude: 52.52, Longitude: 13.405}
	target := geomaps.Coordinate{Latitude: 21.3069, Longitude: -157.8583}

	p := testProvider(t, srv.URL)
	_, err := p.Route(context.Background(), source, target, geomaps.ModeDriving)

	var nrerr *geomaps.NoRouteError
	require.ErrorAs(t, err, &nrerr)
	assert.Equal(t, source, nrerr.Source)
	assert.Equal(t, target, nrerr.Target)
}

func TestProvider_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
		check   func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var aerr *geomaps.AuthenticationError
				assert.ErrorAs(t, err, &aerr)
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var aerr *geomaps.AuthenticationError
				assert.ErrorAs(t, err, &aerr)
			},
		},
		{
			name:    "rate limited with retry hint",
			status:  http.StatusTooManyRequests,
			headers: map[string]string{"Retry-After": "30"},
			check: func(t *testing.T, err error) {
				var rerr *geomaps.RateLimitError
				require.ErrorAs(t, err, &rerr)
				assert.Equal(t, 30*time.Second, rerr.RetryAfter)
			},
		},
		{
			name:   "rate limited without hint",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				var rerr *geomaps.RateLimitError
				require.ErrorAs(t, err, &rerr)
				assert.Zero(t, rerr.RetryAfter)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var apiErr *geomaps.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			p := testProvider(t, srv.URL)
			_, err := p.Geocode(context.Background(), "berlin")

			require.Error(t, err)
			assert.True(t, geomaps.IsLocationError(err))
			tt.check(t, err)
		})
	}
}

func TestProvider_RetryAfterHTTPDate(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	retryAt := clock.Now().Add(90 * time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", retryAt.Format(http.TimeFormat))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, err := New(Config{
		APIKey:  testKey,
		BaseURL: srv.URL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:   clock,
	})
	require.NoError(t, err)

	_, err = p.Geocode(context.Background(), "berlin")

	var rerr *geomaps.RateLimitError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 90*time.Second, rerr.RetryAfter)
}

func TestProvider_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"features": [`))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	_, err := p.Geocode(context.Background(), "berlin")

	var apiErr *geomaps.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := New(Config{
		APIKey:  testKey,
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = p.Geocode(context.Background(), "berlin")

	require.Error(t, err)
	var apiErr *geomaps.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestProvider_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testProvider(t, srv.URL)
	_, err := p.Geocode(ctx, "berlin")

	assert.Error(t, err)
}

func TestProvider_Close(t *testing.T) {
	p := testProvider(t, "http://unused.invalid")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close()) // idempotent
}

func TestModeToken(t *testing.T) {
	assert.Equal(t, "drive", modeToken(geomaps.ModeDriving))
	assert.Equal(t, "walk", modeToken(geomaps.ModeWalking))
	assert.Equal(t, "bicycle", modeToken(geomaps.ModeCycling))
	assert.Equal(t, "truck", modeToken(geomaps.ModeTruck))
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, clampConfidence(-0.5))
	assert.Equal(t, 0.5, clampConfidence(0.5))
	assert.Equal(t, 1.0, clampConfidence(1.7))
}
