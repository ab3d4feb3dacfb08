// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/pois/export"
	"github.com/jcodagnone/pois/geocode"
	"github.com/jcodagnone/pois/poi"
	"github.com/jcodagnone/pois/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	results map[string]spatial.Point
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*geocode.Result, error) {
	p, ok := f.results[address]
	if !ok {
		return nil, &geocode.GeocodingError{Type: geocode.ErrorTypeNotFound, Message: "no results"}
	}

	return &geocode.Result{Point: p, Provider: "fake"}, nil
}

type fakeInterpreter struct {
	response *poi.Response
	err      error
	calls    int
}

func (f *fakeInterpreter) Interpret(_ context.Context, _ string) (*poi.Response, error) {
	f.calls++

	return f.response, f.err
}

func ptr(f float64) *float64 { return &f }

func setupServerTest(t *testing.T, elements ...poi.Element) (*gin.Engine, *fakeInterpreter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := &fakeInterpreter{response: &poi.Response{Elements: elements}}
	geocoder := &fakeGeocoder{results: map[string]spatial.Point{
		"New York": {Lat: 40.7128, Lng: -74.0060},
	}}

	return NewServer(geocoder, poi.NewFetcher(source)).Router(), source
}

var joes = poi.Element{
	Type: "node", ID: 1, Lat: ptr(40.7130), Lon: ptr(-74.0062),
	Tags: map[string]string{"amenity": "cafe", "name": "Joe's"},
}

var bakery = poi.Element{
	Type: "way", ID: 2, Center: &poi.Center{Lat: 40.7125, Lon: -74.0055},
	Tags: map[string]string{"shop": "bakery"},
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)

	return w
}

func TestListPOIsByAddress(t *testing.T) {
	router, source := setupServerTest(t, joes, bakery)

	w := get(router, "/api/pois?address=New+York")
	require.Equal(t, http.StatusOK, w.Code)

	var resp POIsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, spatial.Point{Lat: 40.7128, Lng: -74.0060}, resp.Center)
	assert.InDelta(t, poi.DefaultRadiusKm, resp.RadiusKm, 1e-12)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "Joe's", resp.Records[0].Name)
	assert.Equal(t, poi.NotAvailable, resp.Records[1].Name)
	assert.Equal(t, "shop", resp.Records[1].Category)
	assert.Equal(t, 1, source.calls)
}

func TestListPOIsByCoordinates(t *testing.T) {
	router, _ := setupServerTest(t, joes)

	w := get(router, "/api/pois?lat=40.7128&lon=-74.0060&radius=1.5&name=JOE")
	require.Equal(t, http.StatusOK, w.Code)

	var resp POIsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1.5, resp.RadiusKm, 1e-12)
	assert.Equal(t, 1, resp.Count)
}

func TestListPOIsUnresolvableAddress(t *testing.T) {
	router, source := setupServerTest(t, joes)

	w := get(router, "/api/pois?address=Atlantis")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Could not geocode")
	assert.Zero(t, source.calls, "fetch must not run without a coordinate")
}

func TestListPOIsBadInput(t *testing.T) {
	router, source := setupServerTest(t, joes)

	for _, target := range []string{
		"/api/pois",
		"/api/pois?lat=40.7",
		"/api/pois?lat=&lon=",
		"/api/pois?lat=north&lon=1",
		"/api/pois?lat=1&lon=1&radius=0",
		"/api/pois?lat=1&lon=1&radius=-2",
	} {
		w := get(router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}

	assert.Zero(t, source.calls)
}

func TestListPOIsEmptyAndFailed(t *testing.T) {
	router, source := setupServerTest(t)

	w := get(router, "/api/pois?lat=1&lon=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"records":[]`)

	// a failing upstream looks exactly like an empty area
	source.err = errors.New("overpass is down")
	w = get(router, "/api/pois?lat=1&lon=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestExportPOIs(t *testing.T) {
	router, _ := setupServerTest(t, joes, bakery)

	w := get(router, "/api/export/csv?address=New+York")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="pois.csv"`)

	records, err := export.ReadCSV(w.Body)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Joe's", records[0].Name)

	w = get(router, "/api/export/xlsx?address=New+York")
	require.Equal(t, http.StatusOK, w.Code)
	records, err = export.ReadXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	w = get(router, "/api/export/geojson?address=New+York")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"FeatureCollection"`)
}

func TestExportPOIsErrors(t *testing.T) {
	router, _ := setupServerTest(t)

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/export/parquet?lat=1&lon=1").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/export/duckdb?lat=1&lon=1").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/api/export/csv?lat=1&lon=1").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(router, "/api/export/csv?address=Atlantis").Code)
}

func TestSearchView(t *testing.T) {
	router, _ := setupServerTest(t, joes, bakery)

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "POI Extraction Tool")

	w = get(router, "/search?address=New+York&lat=&lon=&radius=")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Found 2 POIs.")
	assert.Contains(t, body, "Joe&#39;s")
	assert.Contains(t, body, `href="/api/export/csv?address=New&#43;York"`)

	w = get(router, "/search?address=Atlantis")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), MsgNotGeocoded)

	w = get(router, "/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), MsgMissingInput)
}

func TestSearchViewNoPOIs(t *testing.T) {
	router, _ := setupServerTest(t)

	w := get(router, "/search?lat=1&lon=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgNoPOIs)
	assert.NotContains(t, w.Body.String(), "<table>")
}
