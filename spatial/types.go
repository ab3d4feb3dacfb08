// Copyright 2025 The ChapaUY Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const earthRadius = 6371e3 // meters

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Lat, p.Lng)
}

// Orb returns the point as an orb.Point, which is ordered longitude first.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := toRadians(p.Lat)
	lat2 := toRadians(other.Lat)
	dLat := toRadians(other.Lat - p.Lat)
	dLng := toRadians(other.Lng - p.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// DistanceKm is HaversineDistance expressed in kilometers.
func (p *Point) DistanceKm(other *Point) float64 {
	return p.HaversineDistance(other) / 1000
}

// Destination returns the point reached travelling distanceKm along the great
// circle that leaves p with the given initial bearing (degrees clockwise from
// north).
func (p Point) Destination(bearing, distanceKm float64) Point {
	delta := distanceKm * 1000 / earthRadius
	theta := toRadians(bearing)
	lat1 := toRadians(p.Lat)
	lng1 := toRadians(p.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	// normalise to [-180, 180)
	lng := math.Mod(toDegrees(lng2)+540, 360) - 180

	return Point{Lat: toDegrees(lat2), Lng: lng}
}
