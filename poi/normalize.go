// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

import (
	"github.com/jcodagnone/pois/spatial"
)

// Record is one POI of a result set. The JSON names are the tabular column names.
type Record struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_from_center_km"`
}

// Point returns the record's position.
func (r Record) Point() spatial.Point {
	return spatial.Point{Lat: r.Latitude, Lng: r.Longitude}
}

// Position returns the representative coordinate of the element: its own
// lat/lon for a node, the computed center otherwise. ok is false when the
// needed fields are missing.
func (e *Element) Position() (spatial.Point, bool) {
	if e.Type == "node" {
		if e.Lat == nil || e.Lon == nil {
			return spatial.Point{}, false
		}

		return spatial.Point{Lat: *e.Lat, Lng: *e.Lon}, true
	}

	if e.Center == nil {
		return spatial.Point{}, false
	}

	return spatial.Point{Lat: e.Center.Lat, Lng: e.Center.Lon}, true
}

// Normalize converts elements into records, preserving their order. Elements
// without a usable position are dropped; missing tags only yield NotAvailable
// placeholders.
func Normalize(center spatial.Point, elements []Element, categories []string) []Record {
	records := make([]Record, 0, len(elements))

	for i := range elements {
		el := &elements[i]

		position, ok := el.Position()
		if !ok {
			continue
		}

		name, ok := el.Tags["name"]
		if !ok {
			name = NotAvailable
		}

		records = append(records, Record{
			Name:       name,
			Category:   Classify(el.Tags, categories),
			Latitude:   position.Lat,
			Longitude:  position.Lng,
			DistanceKm: center.DistanceKm(&position),
		})
	}

	return records
}
