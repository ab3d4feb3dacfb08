// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"io"

	"github.com/jcodagnone/pois/poi"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts the records into point features. The non
// coordinate columns become properties.
func FeatureCollection(records []poi.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, r := range records {
		f := geojson.NewFeature(r.Point().Orb())
		f.Properties["name"] = r.Name
		f.Properties["category"] = r.Category
		f.Properties["distance_from_center_km"] = r.DistanceKm
		fc.Append(f)
	}

	return fc
}

// WriteGeoJSON writes records as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, records []poi.Record) error {
	data, err := FeatureCollection(records).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling feature collection: %w", err)
	}

	_, err = w.Write(data)

	return err
}

// ReadGeoJSON parses what WriteGeoJSON produced.
func ReadGeoJSON(r io.Reader) ([]poi.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling feature collection: %w", err)
	}

	records := make([]poi.Record, 0, len(fc.Features))

	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature %d: missing geometry", i)
		}

		point, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: expected a point, got %s", i, f.Geometry.GeoJSONType())
		}

		records = append(records, poi.Record{
			Name:       f.Properties.MustString("name", poi.NotAvailable),
			Category:   f.Properties.MustString("category", poi.NotAvailable),
			Latitude:   point.Lat(),
			Longitude:  point.Lon(),
			DistanceKm: f.Properties.MustFloat64("distance_from_center_km", 0),
		})
	}

	return records, nil
}
