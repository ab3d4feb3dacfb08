// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the interactive POI extraction form.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/pois/export"
	"github.com/jcodagnone/pois/geocode"
	"github.com/jcodagnone/pois/poi"
	"github.com/jcodagnone/pois/spatial"
	"github.com/jcodagnone/pois/utils/textutils"
)

//go:embed templates/*.html
var templates embed.FS

// User facing messages, shared with the command line.
const (
	MsgNotGeocoded  = "Could not geocode address. Please try again."
	MsgNoPOIs       = "No POIs found in the specified area."
	MsgMissingInput = "Please enter an address or coordinates."
)

var (
	errMissingInput = errors.New(MsgMissingInput)
	errNotGeocoded  = errors.New(MsgNotGeocoded)
)

type Server struct {
	geocoder geocode.Geocoder
	fetcher  *poi.Fetcher
}

func NewServer(geocoder geocode.Geocoder, fetcher *poi.Fetcher) *Server {
	return &Server{geocoder: geocoder, fetcher: fetcher}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templates, "templates/*.html")))

	r.GET("/", s.indexView)
	r.GET("/search", s.searchView)
	r.GET("/api/pois", s.listPOIs)
	r.GET("/api/export/:format", s.exportPOIs)

	return r
}

func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// SearchRequest are the form fields; they are the same for the HTML and the API
// routes. Numbers are kept as text so a blank form field means "not given".
type SearchRequest struct {
	Address string `form:"address"`
	Lat     string `form:"lat"`
	Lon     string `form:"lon"`
	Radius  string `form:"radius"`
	Name    string `form:"name"`
}

func parseOptionalFloat(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}

	return &f, nil
}

func (req *SearchRequest) radius() (float64, error) {
	r, err := parseOptionalFloat("radius", req.Radius)
	if err != nil {
		return 0, err
	}

	if r == nil {
		return poi.DefaultRadiusKm, nil
	}

	if *r <= 0 {
		return 0, poi.ErrInvalidRadius
	}

	return *r, nil
}

// query re-encodes the request for download links.
func (req *SearchRequest) query() string {
	v := url.Values{}

	for key, value := range map[string]string{
		"address": req.Address,
		"lat":     req.Lat,
		"lon":     req.Lon,
		"radius":  req.Radius,
		"name":    req.Name,
	} {
		if strings.TrimSpace(value) != "" {
			v.Set(key, value)
		}
	}

	return v.Encode()
}

// locate prefers the address over explicit coordinates.
func (s *Server) locate(ctx context.Context, req *SearchRequest) (spatial.Point, error) {
	if strings.TrimSpace(req.Address) != "" {
		point, ok := geocode.Resolve(ctx, s.geocoder, req.Address)
		if !ok {
			return spatial.Point{}, errNotGeocoded
		}

		return point, nil
	}

	lat, err := parseOptionalFloat("latitude", req.Lat)
	if err != nil {
		return spatial.Point{}, err
	}

	lon, err := parseOptionalFloat("longitude", req.Lon)
	if err != nil {
		return spatial.Point{}, err
	}

	if lat == nil || lon == nil {
		return spatial.Point{}, errMissingInput
	}

	return spatial.Point{Lat: *lat, Lng: *lon}, nil
}

// searchOutcome is everything a view needs after running a search.
type searchOutcome struct {
	Request  *SearchRequest
	Center   spatial.Point
	RadiusKm float64
	Records  []poi.Record // empty, never nil, when nothing was found
	Status   int
	Err      error
}

// search runs the whole flow: bind, validate, locate, fetch, filter.
func (s *Server) search(ctx *gin.Context) searchOutcome {
	out := searchOutcome{Request: &SearchRequest{}, Status: http.StatusBadRequest}

	if err := ctx.ShouldBindQuery(out.Request); err != nil {
		out.Err = fmt.Errorf("invalid parameters: %w", err)

		return out
	}

	radius, err := out.Request.radius()
	if err != nil {
		out.Err = err

		return out
	}

	center, err := s.locate(ctx.Request.Context(), out.Request)
	if err != nil {
		if errors.Is(err, errNotGeocoded) {
			out.Status = http.StatusUnprocessableEntity
		}

		out.Err = err

		return out
	}

	records := s.fetcher.Fetch(ctx.Request.Context(), center, radius)

	out.Center = center
	out.RadiusKm = radius
	out.Records = poi.FilterByName(records, out.Request.Name)
	out.Status = http.StatusOK

	return out
}

type pageData struct {
	Request  *SearchRequest
	Center   *spatial.Point
	Records  []poi.Record
	Level    string // success, warning, error
	Message  string
	Download template.URL // query string of the download links
	Formats  []export.Format
}

func (s *Server) indexView(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", pageData{Request: &SearchRequest{}})
}

func (s *Server) searchView(ctx *gin.Context) {
	out := s.search(ctx)
	if out.Err != nil {
		level := "warning"
		if errors.Is(out.Err, errNotGeocoded) {
			level = "error"
		}

		ctx.HTML(out.Status, "index.html", pageData{Request: out.Request, Level: level, Message: out.Err.Error()})

		return
	}

	records := out.Records
	data := pageData{Request: out.Request, Center: &out.Center}

	if len(records) == 0 {
		data.Level, data.Message = "warning", MsgNoPOIs
	} else {
		data.Level = "success"
		data.Message = fmt.Sprintf("Found %s POIs.", textutils.FormatInt(int64(len(records))))
		data.Records = records
		data.Download = template.URL(out.Request.query())
		data.Formats = []export.Format{export.FormatCSV, export.FormatXLSX, export.FormatGeoJSON}
	}

	ctx.HTML(http.StatusOK, "index.html", data)
}

// POIsResponse is the body of GET /api/pois.
type POIsResponse struct {
	Center   spatial.Point `json:"center"`
	RadiusKm float64       `json:"radius_km"`
	Count    int           `json:"count"`
	Records  []poi.Record  `json:"records"`
}

func (s *Server) listPOIs(ctx *gin.Context) {
	out := s.search(ctx)
	if out.Err != nil {
		ctx.JSON(out.Status, gin.H{"error": out.Err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, POIsResponse{
		Center:   out.Center,
		RadiusKm: out.RadiusKm,
		Count:    len(out.Records),
		Records:  out.Records,
	})
}

func (s *Server) exportPOIs(ctx *gin.Context) {
	format, err := export.ParseFormat(ctx.Param("format"))
	if err != nil || format == export.FormatDuckDB {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", ctx.Param("format"))})

		return
	}

	out := s.search(ctx)
	if out.Err != nil {
		ctx.JSON(out.Status, gin.H{"error": out.Err.Error()})

		return
	}

	if len(out.Records) == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": MsgNoPOIs})

		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pois.%s"`, format))
	ctx.Header("Content-Type", format.ContentType())
	ctx.Status(http.StatusOK)

	if err := export.Write(ctx.Writer, format, out.Records); err != nil {
		log.Printf("Writing %s download: %v", format, err)
	}
}
