// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jcodagnone/pois/spatial"
)

// NominatimURL is the public OpenStreetMap search endpoint.
const NominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder uses the OpenStreetMap Nominatim search API.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a new Nominatim geocoder.
func NewNominatimGeocoder(options *Options) *NominatimGeocoder {
	if options == nil {
		options = &Options{}
	}

	return &NominatimGeocoder{
		baseURL:    options.baseURL(NominatimURL),
		httpClient: options.httpClient(),
	}
}

// nominatim returns coordinates as strings.
type nominatimPlace struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

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
		return nil, ClassifyHTTPError(resp.StatusCode, "nominatim")
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "decoding response", Err: err}
	}

	if len(places) == 0 {
		return nil, notFound(address)
	}

	place := places[0]

	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: fmt.Sprintf("parsing latitude %q", place.Lat), Err: err}
	}

	lng, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: fmt.Sprintf("parsing longitude %q", place.Lon), Err: err}
	}

	return &Result{
		Point:       spatial.Point{Lat: lat, Lng: lng},
		Provider:    "nominatim",
		DisplayName: place.DisplayName,
	}, nil
}
