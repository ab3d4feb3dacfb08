// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jcodagnone/pois/spatial"
)

func ptr(f float64) *float64 {
	return &f
}

func TestNormalize(t *testing.T) {
	center := spatial.Point{Lat: 40.7128, Lng: -74.0060}

	elements := []Element{
		{Type: "node", ID: 1, Lat: ptr(40.7130), Lon: ptr(-74.0062), Tags: map[string]string{"amenity": "cafe", "name": "Joe's"}},
		{Type: "way", ID: 2, Center: &Center{Lat: 40.7125, Lon: -74.0055}, Tags: map[string]string{"shop": "bakery"}},
		{Type: "node", ID: 3, Lat: ptr(40.7140)}, // no lon
		{Type: "relation", ID: 4, Tags: map[string]string{"tourism": "attraction", "name": "No center"}},
		{Type: "way", ID: 5, Lat: ptr(40.7), Lon: ptr(-74.0), Tags: map[string]string{"leisure": "park"}}, // ways need a center
		{Type: "relation", ID: 6, Center: &Center{Lat: 40.7128, Lon: -74.0060}},
		{Type: "node", ID: 7, Lat: ptr(0), Lon: ptr(0), Tags: map[string]string{"historic": "ruins", "name": "Null Island"}},
	}

	joe := spatial.Point{Lat: 40.7130, Lng: -74.0062}
	bakery := spatial.Point{Lat: 40.7125, Lng: -74.0055}
	island := spatial.Point{}

	expected := []Record{
		{Name: "Joe's", Category: "amenity", Latitude: 40.7130, Longitude: -74.0062, DistanceKm: center.DistanceKm(&joe)},
		{Name: NotAvailable, Category: "shop", Latitude: 40.7125, Longitude: -74.0055, DistanceKm: center.DistanceKm(&bakery)},
		{Name: NotAvailable, Category: NotAvailable, Latitude: 40.7128, Longitude: -74.0060, DistanceKm: 0},
		{Name: "Null Island", Category: "historic", Latitude: 0, Longitude: 0, DistanceKm: center.DistanceKm(&island)},
	}

	got := Normalize(center, elements, Categories)
	if diff := cmp.Diff(expected, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	got := Normalize(spatial.Point{}, nil, Categories)
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %#v", got)
	}
}

func TestNormalizeDistanceIsHaversine(t *testing.T) {
	center := spatial.Point{Lat: -34.9011, Lng: -56.1645}
	positions := []spatial.Point{
		{Lat: -34.9000, Lng: -56.1600},
		{Lat: -34.9050, Lng: -56.1700},
		{Lat: -34.8950, Lng: -56.1500},
	}

	elements := make([]Element, len(positions))
	for i, p := range positions {
		elements[i] = Element{Type: "node", Lat: ptr(p.Lat), Lon: ptr(p.Lng)}
	}

	records := Normalize(center, elements, Categories)
	if len(records) != len(positions) {
		t.Fatalf("expected %d records, got %d", len(positions), len(records))
	}

	for i, r := range records {
		want := center.HaversineDistance(&positions[i]) / 1000
		if diff := cmp.Diff(want, r.DistanceKm, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("record %d distance mismatch (-want +got):\n%s", i, diff)
		}
	}
}
