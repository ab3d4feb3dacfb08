// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/pois/poi"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
	FormatDuckDB  Format = "duckdb"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatXLSX, FormatGeoJSON, FormatDuckDB}

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".geojson", ".json":
		return FormatGeoJSON
	case ".duckdb", ".db":
		return FormatDuckDB
	default:
		return FormatCSV
	}
}

// ContentType is the MIME type of a format, for downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatGeoJSON:
		return "application/geo+json"
	case FormatDuckDB:
		return "application/octet-stream"
	default:
		return "text/csv"
	}
}

// Write streams records to w. DuckDB needs a file and is rejected here.
func Write(w io.Writer, format Format, records []poi.Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatGeoJSON:
		return WriteGeoJSON(w, records)
	default:
		return fmt.Errorf("%w %q for a stream", ErrUnknownFormat, format)
	}
}

// WriteFile writes the extraction to path. DuckDB files are appended to, so
// several extractions can share one database; every other format is
// written to a temporary file next to path and renamed over it, so a failed
// write leaves any previous file untouched.
func WriteFile(path string, format Format, e *Extraction) error {
	if format == FormatDuckDB {
		return writeDuckDB(path, e)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}

	err = f.Chmod(0o644)
	if err == nil {
		err = Write(f, format, e.Records)
	}

	err = errors.Join(err, f.Close())

	if err == nil {
		err = os.Rename(f.Name(), path)
	}

	if err != nil {
		return errors.Join(fmt.Errorf("writing %s: %w", path, err), os.Remove(f.Name()))
	}

	return nil
}

func writeDuckDB(path string, e *Extraction) error {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo := NewRecordRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return err
	}

	return repo.SaveExtraction(e)
}
