// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/jcodagnone/pois/poi"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the records.
const SheetName = "POIs"

// WriteXLSX writes a workbook with a single sheet laid out like the CSV output.
func WriteXLSX(w io.Writer, records []poi.Record) (err error) {
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}

	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []interface{}{r.Name, r.Category, r.Latitude, r.Longitude, r.DistanceKm}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("writing %q: %w", r.Name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// ReadXLSX parses what WriteXLSX produced.
func ReadXLSX(r io.Reader) (records []poi.Record, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	if len(rows) == 0 || !slices.Equal(rows[0], Columns) {
		return nil, ErrBadHeader
	}

	records = make([]poi.Record, 0, len(rows)-1)

	for i, cells := range rows[1:] {
		record, err := parseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		records = append(records, record)
	}

	return records, nil
}
