// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package poi finds the Points of Interest around a coordinate by querying an
// Overpass interpreter.
package poi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jcodagnone/pois/spatial"
)

// DefaultRadiusKm is the search radius used when none is given.
const DefaultRadiusKm = 0.5

// ErrInvalidRadius is reported for non-positive radii.
var ErrInvalidRadius = errors.New("radius must be positive")

// ErrRuntimeRemark is reported when the interpreter answered but could not
// complete the query.
var ErrRuntimeRemark = errors.New("overpass could not complete the query")

// Outcome tells apart the ways a lookup can end.
type Outcome int

const (
	// OutcomeFound at least one record.
	OutcomeFound Outcome = iota
	// OutcomeEmpty the query succeeded but nothing usable came back.
	OutcomeEmpty
	// OutcomeFailed the query could not be executed or decoded.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the detailed answer of Lookup.
type Result struct {
	Records []Record
	Outcome Outcome
	Err     error
}

// Fetcher runs POI lookups against an Interpreter. It holds no state between
// calls.
type Fetcher struct {
	source     Interpreter
	categories []string
}

// NewFetcher returns a Fetcher that classifies with Categories.
func NewFetcher(source Interpreter) *Fetcher {
	return &Fetcher{source: source, categories: Categories}
}

// Fetch returns the POIs within radiusKm of center. It never fails: failures
// are logged and yield an empty result, so callers cannot tell them apart from
// an area without POIs. Use Lookup to get the distinction.
func (f *Fetcher) Fetch(ctx context.Context, center spatial.Point, radiusKm float64) []Record {
	result := f.Lookup(ctx, center, radiusKm)
	if result.Outcome == OutcomeFailed {
		log.Printf("An error occurred while fetching POIs around %s: %v", center, result.Err)
	}

	return result.Records
}

// Lookup is Fetch with the outcome of the query exposed.
func (f *Fetcher) Lookup(ctx context.Context, center spatial.Point, radiusKm float64) Result {
	if radiusKm <= 0 {
		return Result{Records: []Record{}, Outcome: OutcomeFailed, Err: fmt.Errorf("%w: %v", ErrInvalidRadius, radiusKm)}
	}

	bbox := spatial.BoundingBoxAround(center, radiusKm)
	query := BuildQuery(bbox, f.categories, QueryTimeout)

	response, err := f.source.Interpret(ctx, query)
	if err != nil {
		return Result{Records: []Record{}, Outcome: OutcomeFailed, Err: err}
	}

	if response == nil {
		return Result{Records: []Record{}, Outcome: OutcomeFailed, Err: errors.New("overpass: no response")}
	}

	if response.Remark != "" {
		log.Printf("Overpass remark: %s", response.Remark)

		// runtime errors (e.g. the server side timeout) come back as a 200 with a remark
		if failedRemark(response) {
			return Result{
				Records: []Record{},
				Outcome: OutcomeFailed,
				Err:     fmt.Errorf("%w: %s", ErrRuntimeRemark, response.Remark),
			}
		}
	}

	records := Normalize(center, response.Elements, f.categories)
	if len(records) == 0 {
		return Result{Records: records, Outcome: OutcomeEmpty}
	}

	return Result{Records: records, Outcome: OutcomeFound}
}

func failedRemark(response *Response) bool {
	if strings.HasPrefix(response.Remark, "runtime error") {
		return true
	}

	return strings.HasPrefix(response.Remark, "runtime remark") && len(response.Elements) == 0
}
