// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNominatimTest(t *testing.T, handler http.HandlerFunc) *NominatimGeocoder {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewNominatimGeocoder(&Options{
		BaseURL:   server.URL + "/search",
		UserAgent: "pois/test",
		Timeout:   time.Second,
	})
}

func TestNominatimGeocode(t *testing.T) {
	var got *http.Request

	g := newNominatimTest(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`[
			{"place_id": 1, "lat": "40.7127281", "lon": "-74.0060152",
			 "display_name": "New York, United States", "importance": 0.9},
			{"place_id": 2, "lat": "43.0", "lon": "-75.0", "display_name": "New York State"}
		]`))
	})

	result, err := g.Geocode(context.Background(), "New York")
	require.NoError(t, err)

	assert.InDelta(t, 40.7127281, result.Point.Lat, 1e-9)
	assert.InDelta(t, -74.0060152, result.Point.Lng, 1e-9)
	assert.Equal(t, "nominatim", result.Provider)
	assert.Equal(t, "New York, United States", result.DisplayName)

	require.NotNil(t, got)
	assert.Equal(t, "/search", got.URL.Path)
	assert.Equal(t, "New York", got.URL.Query().Get("q"))
	assert.Equal(t, "jsonv2", got.URL.Query().Get("format"))
	assert.Equal(t, "1", got.URL.Query().Get("limit"))
	assert.Equal(t, "pois/test", got.Header.Get("User-Agent"))
}

func TestNominatimGeocodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected ErrorType
	}{
		{"no match", http.StatusOK, `[]`, ErrorTypeNotFound},
		{"throttled", http.StatusTooManyRequests, ``, ErrorTypeRateLimit},
		{"blocked", http.StatusForbidden, ``, ErrorTypeQuotaExceeded},
		{"unavailable", http.StatusServiceUnavailable, ``, ErrorTypeNetworkError},
		{"malformed body", http.StatusOK, `{"oops"`, ErrorTypeUnknown},
		{"bad latitude", http.StatusOK, `[{"lat": "north", "lon": "1"}]`, ErrorTypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newNominatimTest(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			result, err := g.Geocode(context.Background(), "Nowhere 123")
			require.Error(t, err)
			assert.Nil(t, result)

			var geoErr *GeocodingError
			require.ErrorAs(t, err, &geoErr)
			assert.Equal(t, tc.expected, geoErr.Type)
		})
	}
}

func TestNominatimGeocodeTimeout(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()
	defer close(release)

	g := NewNominatimGeocoder(&Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := g.Geocode(context.Background(), "slow street")
	require.Error(t, err)
	assert.True(t, IsTimeoutError(err), "got %v", err)
}
