// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jcodagnone/pois/geocode"
	"github.com/jcodagnone/pois/poi"
	"github.com/spf13/cobra"
)

// ContactEnv is appended to the User-Agent, as the Nominatim usage policy asks
// for a way to reach the operator.
const ContactEnv = "POIS_CONTACT"

const (
	geocoderNominatim = "nominatim"
	geocoderGoogle    = "google"
)

type clientOptions struct {
	Geocoder            string
	Region              string
	NominatimURL        string
	OverpassURL         string
	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

func userAgent() string {
	ua := fmt.Sprintf("pois/%s (+https://github.com/jcodagnone/pois)", Version)
	if contact := os.Getenv(ContactEnv); contact != "" {
		ua += " " + contact
	}

	return ua
}

func (o *clientOptions) newGeocoder(ctx context.Context) (geocode.Geocoder, error) {
	options := &geocode.Options{
		UserAgent:           userAgent(),
		EnableHTTPTrace:     o.EnableHTTPTrace,
		EnableHTTPBodyTrace: o.EnableHTTPBodyTrace,
	}

	switch o.Geocoder {
	case geocoderNominatim:
		options.BaseURL = o.NominatimURL

		return geocode.NewNominatimGeocoder(options), nil
	case geocoderGoogle:
		apiKey, err := geocode.GoogleMapsAPIKey(ctx, geocode.DefaultAPIKeyDisplayName)
		if err != nil {
			return nil, fmt.Errorf("getting Google Maps API key: %w", err)
		}

		return geocode.NewGoogleMapsGeocoder(apiKey, o.Region, options), nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q, expected %s or %s", o.Geocoder, geocoderNominatim, geocoderGoogle)
	}
}

func (o *clientOptions) newFetcher() *poi.Fetcher {
	return poi.NewFetcher(poi.NewOverpassClient(&poi.ClientOptions{
		Endpoint:            o.OverpassURL,
		UserAgent:           userAgent(),
		EnableHTTPTrace:     o.EnableHTTPTrace,
		EnableHTTPBodyTrace: o.EnableHTTPBodyTrace,
	}))
}

func (o *clientOptions) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&o.Geocoder,
		"geocoder",
		geocoderNominatim,
		"Geocoding provider: nominatim or google",
	)
	cmd.PersistentFlags().StringVar(
		&o.Region,
		"region",
		"",
		"Region bias for the google geocoder (ccTLD, e.g. uy)",
	)
	cmd.PersistentFlags().StringVar(
		&o.NominatimURL,
		"nominatim-url",
		geocode.NominatimURL,
		"Nominatim search endpoint",
	)
	cmd.PersistentFlags().StringVar(
		&o.OverpassURL,
		"overpass-url",
		poi.OverpassURL,
		"Overpass API interpreter endpoint",
	)
	cmd.PersistentFlags().BoolVar(
		&o.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	cmd.PersistentFlags().BoolVar(
		&o.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
