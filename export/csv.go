// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package export writes POI result sets in tabular formats.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jcodagnone/pois/poi"
)

// Columns is the header of every tabular output, in order.
var Columns = []string{"name", "category", "latitude", "longitude", "distance_from_center_km"}

// ErrBadHeader is returned when a table does not start with Columns.
var ErrBadHeader = errors.New("unexpected header")

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func row(r poi.Record) []string {
	return []string{r.Name, r.Category, formatFloat(r.Latitude), formatFloat(r.Longitude), formatFloat(r.DistanceKm)}
}

// parseRow is the inverse of row.
func parseRow(cells []string) (poi.Record, error) {
	if len(cells) != len(Columns) {
		return poi.Record{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(cells))
	}

	var floats [3]float64

	for i, cell := range cells[2:] {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return poi.Record{}, fmt.Errorf("parsing %s: %w", Columns[i+2], err)
		}

		floats[i] = f
	}

	return poi.Record{
		Name:       cells[0],
		Category:   cells[1],
		Latitude:   floats[0],
		Longitude:  floats[1],
		DistanceKm: floats[2],
	}, nil
}

// WriteCSV writes the header and one line per record.
func WriteCSV(w io.Writer, records []poi.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("writing %q: %w", r.Name, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// ReadCSV parses what WriteCSV produced.
func ReadCSV(r io.Reader) ([]poi.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	records := []poi.Record{}

	for line := 2; ; line++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		record, err := parseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, record)
	}
}
