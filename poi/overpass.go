// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package poi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jcodagnone/pois/utils/httputils"
)

// OverpassURL is the public Overpass API interpreter.
const OverpassURL = "https://overpass-api.de/api/interpreter"

// ClientTimeout bounds the HTTP exchange with the interpreter. It is longer
// than QueryTimeout so the server gets to report its own timeout.
const ClientTimeout = 60 * time.Second

// ErrUnexpectedStatus is returned for any non-2xx answer.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Element is a single node, way or relation of an Overpass answer.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the centroid Overpass computes for ways and relations with
// "out center".
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Response is the JSON document returned by the interpreter.
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Remark    string    `json:"remark,omitempty"`
	Elements  []Element `json:"elements"`
}

// Interpreter executes an Overpass QL query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (*Response, error)
}

// ClientOptions configuration for OverpassClient.
type ClientOptions struct {
	// Endpoint overrides OverpassURL.
	Endpoint string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Timeout overrides ClientTimeout.
	Timeout time.Duration

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

// OverpassClient is an Interpreter talking to an Overpass API over HTTP.
type OverpassClient struct {
	endpoint string
	client   *http.Client
}

// NewOverpassClient creates a new client with the provided options.
func NewOverpassClient(options *ClientOptions) *OverpassClient {
	if options == nil {
		options = &ClientOptions{}
	}

	endpoint := OverpassURL
	if options.Endpoint != "" {
		endpoint = options.Endpoint
	}

	timeout := ClientTimeout
	if options.Timeout != 0 {
		timeout = options.Timeout
	}

	userAgent := "pois/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	return &OverpassClient{
		endpoint: endpoint,
		client: httputils.NewClient(httputils.ClientOptions{
			Timeout: timeout,
			Headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/json",
			},
			Trace:     options.EnableHTTPTrace,
			TraceBody: options.EnableHTTPBodyTrace,
		}),
	}
}

// Interpret posts query as the "data" form field and decodes the answer.
func (c *OverpassClient) Interpret(ctx context.Context, query string) (*Response, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying overpass: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the interpreter explains rejected queries in the body
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf("%w %d from overpass: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding overpass response: %w", err)
	}

	return &response, nil
}
