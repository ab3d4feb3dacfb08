// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"net/http"
	"time"

	"github.com/jcodagnone/pois/utils/httputils"
)

// DefaultTimeout bounds a single geocoding request.
const DefaultTimeout = 10 * time.Second

// Options configures the HTTP side of a provider.
type Options struct {
	// UserAgent identifies this client to the provider. Nominatim's usage
	// policy rejects requests without one.
	UserAgent string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration

	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

func (o *Options) httpClient() *http.Client {
	timeout := o.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	userAgent := "pois/unknown"
	if o.UserAgent != "" {
		userAgent = o.UserAgent
	}

	return httputils.NewClient(httputils.ClientOptions{
		Timeout: timeout,
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Trace:     o.EnableHTTPTrace,
		TraceBody: o.EnableHTTPBodyTrace,
	})
}

func (o *Options) baseURL(fallback string) string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fallback
}
