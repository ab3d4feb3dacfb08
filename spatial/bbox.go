// Copyright 2025 The ChapaUY Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Bearings used to project the sides of a BoundingBox.
const (
	BearingNorth = 0.0
	BearingEast  = 90.0
	BearingSouth = 180.0
	BearingWest  = 270.0
)

// BoundingBox is a latitude/longitude rectangle in decimal degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundingBoxAround returns the box whose sides are the destination points at
// radiusKm from center along the four cardinal bearings. Unlike a fixed degree
// offset, this widens the longitude span as latitude grows.
//
// Boxes crossing the antimeridian or reaching a pole are not handled: the
// result is undefined there.
func BoundingBoxAround(center Point, radiusKm float64) BoundingBox {
	return BoundingBox{
		North: center.Destination(BearingNorth, radiusKm).Lat,
		South: center.Destination(BearingSouth, radiusKm).Lat,
		East:  center.Destination(BearingEast, radiusKm).Lng,
		West:  center.Destination(BearingWest, radiusKm).Lng,
	}
}

// Bound converts the box to an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

// Contains reports whether p lies inside the box or on its border.
func (b BoundingBox) Contains(p Point) bool {
	return b.Bound().Contains(p.Orb())
}

// String renders the box as "south,west,north,east", the order Overpass
// expects inside a bbox filter.
func (b BoundingBox) String() string {
	parts := []float64{b.South, b.West, b.North, b.East}
	s := make([]string, len(parts))

	for i, v := range parts {
		s[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strings.Join(s, ",")
}
