// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves free-text addresses to coordinates.
package geocode

import (
	"context"
	"log"
	"strings"

	"github.com/jcodagnone/pois/spatial"
)

// Result represents a geocoding result from any provider.
type Result struct {
	Point       spatial.Point
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Resolve geocodes address and returns its coordinate. Any failure (no match,
// unreachable service, timeout) is reported as ok == false; the cause is only
// logged, and callers must not proceed without a coordinate.
func Resolve(ctx context.Context, g Geocoder, address string) (spatial.Point, bool) {
	if strings.TrimSpace(address) == "" {
		log.Println("Error geocoding address: empty address")

		return spatial.Point{}, false
	}

	result, err := g.Geocode(ctx, address)
	if err != nil {
		log.Printf("Error geocoding address %q: %v", address, err)

		return spatial.Point{}, false
	}

	if result == nil {
		log.Printf("Error geocoding address %q: no result", address)

		return spatial.Point{}, false
	}

	log.Printf("Geocoded %q to %s via %s (%s)", address, result.Point, result.Provider, result.DisplayName)

	return result.Point, true
}
