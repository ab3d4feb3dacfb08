// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils builds the HTTP clients used to talk to the geocoding and
// map-data services.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"
)

// ClientOptions describes how to assemble an *http.Client.
type ClientOptions struct {
	// Timeout bounds the whole exchange, including reading the body.
	Timeout time.Duration

	// Headers are set on every outgoing request.
	Headers map[string]string

	// Trace dumps requests and response headers to stderr.
	Trace bool

	// TraceBody also dumps response bodies.
	TraceBody bool

	// Transport is the innermost transport. Defaults to a tuned *http.Transport.
	Transport http.RoundTripper
}

// NewClient returns a client whose transport chain is
// headers -> logging -> transport.
func NewClient(options ClientOptions) *http.Client {
	transport := options.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          4,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       30 * time.Second,
			ResponseHeaderTimeout: options.Timeout,
		}
	}

	var traceWriter io.Writer
	if options.Trace || options.TraceBody {
		traceWriter = os.Stderr
	}

	return &http.Client{
		Timeout: options.Timeout,
		Transport: &AppendRequestHeadersRoundTripper{
			Headers: options.Headers,
			Transport: &LoggingRoundTripper{
				Writer:    traceWriter,
				DumpBody:  options.TraceBody,
				Transport: transport,
			},
		},
	}
}

/////////////////////////////////////////
/// RoundTrippers

// LoggingRoundTripper adds a very primitive logging to a http transaction.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// prefix each line and cut the dump so a large Overpass answer stays readable.
func abbreviate(lines []string, prefix rune) []string {
	const maxLines, maxChars = 256, 512

	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}

	for i, line := range lines {
		if len(line) > maxChars {
			line = line[:maxChars] + "…"
		}

		lines[i] = fmt.Sprintf("%c %s", prefix, line)
	}

	return lines
}

func (t *LoggingRoundTripper) write(lines []string, prefix rune) error {
	lines = abbreviate(lines, prefix)
	lines = append(lines, "")
	_, err := fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if err := t.write(strings.Split(string(dump), "\n"), '>'); err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	if _, err := fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", time.Since(start)); err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	if err := t.write(strings.Split(string(dump), "\n"), '<'); err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	return resp, nil
}

// AppendRequestHeadersRoundTripper adds headers to the request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface. The request is cloned
// so callers can reuse it.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.Headers) == 0 {
		return t.Transport.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	for k, v := range t.Headers {
		clone.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(clone)
}
