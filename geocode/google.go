// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jcodagnone/pois/spatial"
)

// GoogleMapsURL is the Geocoding API endpoint.
const GoogleMapsURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	region     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder. region is an
// optional ccTLD used to bias results (e.g. "uy").
func NewGoogleMapsGeocoder(apiKey, region string, options *Options) *GoogleMapsGeocoder {
	if options == nil {
		options = &Options{}
	}

	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		region:     region,
		baseURL:    options.baseURL(GoogleMapsURL),
		httpClient: options.httpClient(),
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, REQUEST_DENIED, INVALID_REQUEST
	ErrorMessage string `json:"error_message"`
}

func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	if g.region != "" {
		params.Set("region", g.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "building request", Err: err}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "google maps")
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "decoding response", Err: err}
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, notFound(address)
	case "OVER_QUERY_LIMIT":
		return nil, &GeocodingError{Type: ErrorTypeRateLimit, Message: "google maps status: " + gmResp.Status}
	case "REQUEST_DENIED", "OVER_DAILY_LIMIT":
		return nil, &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "google maps status: " + gmResp.Status + " " + gmResp.ErrorMessage}
	case "INVALID_REQUEST":
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google maps status: " + gmResp.Status}
	default:
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "google maps status: " + gmResp.Status}
	}

	if len(gmResp.Results) == 0 {
		return nil, notFound(address)
	}

	result := gmResp.Results[0]

	return &Result{
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}, nil
}
