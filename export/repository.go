// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcodagnone/pois/poi"
	"github.com/jcodagnone/pois/spatial"
	"github.com/uber/h3-go/v4"
)

// H3Resolution is the cell size stored next to every record (~0.1 km² cells).
const H3Resolution = 9

// Extraction is one run of the tool: where it searched and what it found.
type Extraction struct {
	ID        int64
	Address   string
	Center    spatial.Point
	RadiusKm  float64
	CreatedAt time.Time
	Records   []poi.Record
}

// RecordRepository persists extractions in a SQL database.
type RecordRepository interface {
	// CreateSchema creates the extractions and pois tables
	CreateSchema() error

	// SaveExtraction stores the extraction and its records, and sets its ID
	SaveExtraction(e *Extraction) error

	// ListRecords returns the records of an extraction in their original order
	ListRecords(extractionID int64) ([]poi.Record, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlRecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new repository over db.
func NewRecordRepository(db *sql.DB) RecordRepository {
	return &sqlRecordRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlRecordRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlRecordRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS extractions_seq START 1;

		CREATE TABLE IF NOT EXISTS extractions (
			id INTEGER PRIMARY KEY DEFAULT nextval('extractions_seq'),
			address VARCHAR NOT NULL,
			center_lat DOUBLE NOT NULL,
			center_lng DOUBLE NOT NULL,
			radius_km DOUBLE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS pois (
			extraction_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			name VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			distance_from_center_km DOUBLE NOT NULL,
			h3_res9 UBIGINT,
			PRIMARY KEY (extraction_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

func cellOf(r poi.Record) (int64, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(r.Latitude, r.Longitude), H3Resolution)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", H3Resolution, err)
	}

	return int64(cell), nil
}

func (r *sqlRecordRepository) SaveExtraction(e *Extraction) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	if err := tx.QueryRow(`
		INSERT INTO extractions (address, center_lat, center_lng, radius_km, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		e.Address, e.Center.Lat, e.Center.Lng, e.RadiusKm, e.CreatedAt,
	).Scan(&e.ID); err != nil {
		return fmt.Errorf("inserting extraction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pois (extraction_id, position, name, category, latitude, longitude, distance_from_center_km, h3_res9)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range e.Records {
		cell, err := cellOf(rec)
		if err != nil {
			return err
		}

		if _, err := stmt.Exec(e.ID, i, rec.Name, rec.Category, rec.Latitude, rec.Longitude, rec.DistanceKm, cell); err != nil {
			return fmt.Errorf("inserting %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

func (r *sqlRecordRepository) ListRecords(extractionID int64) ([]poi.Record, error) {
	rows, err := r.db.Query(`
		SELECT name, category, latitude, longitude, distance_from_center_km
		FROM pois
		WHERE extraction_id = ?
		ORDER BY position`, extractionID)
	if err != nil {
		return nil, fmt.Errorf("querying pois: %w", err)
	}
	defer rows.Close()

	records := []poi.Record{}

	for rows.Next() {
		var rec poi.Record
		if err := rows.Scan(&rec.Name, &rec.Category, &rec.Latitude, &rec.Longitude, &rec.DistanceKm); err != nil {
			return nil, fmt.Errorf("scanning poi: %w", err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}
