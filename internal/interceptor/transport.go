// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package interceptor

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HeaderRequestID correlates a client call with server logs.
const HeaderRequestID = "X-Request-ID"

// Transport is an http.RoundTripper applying the pipeline to every request.
type Transport struct {
	// Base performs the actual request. http.DefaultTransport when nil.
	Base     http.RoundTripper
	Pipeline *Pipeline
}

// RoundTrip implements http.RoundTripper. The caller's request is never mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	attached := false
	if out.Header.Get("Authorization") == "" {
		if token, ok := t.Pipeline.token(); ok {
			out.Header.Set("Authorization", "Bearer "+token)
			attached = true
		}
	}
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		t.Pipeline.log.Debug().Err(err).
			Str("method", out.Method).
			Str("url", out.URL.Redacted()).
			Msg("request failed before a response")
		return nil, err
	}

	t.Pipeline.log.Debug().
		Str("method", out.Method).
		Str("url", out.URL.Redacted()).
		Str("request_id", out.Header.Get(HeaderRequestID)).
		Bool("credential", attached).
		Int("status", resp.StatusCode).
		Msg("response")

	t.Pipeline.handleStatus(resp.StatusCode, attached, out.Method+" "+out.URL.Path)
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// Client returns an *http.Client whose requests go through the pipeline.
func (p *Pipeline) Client(base http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &Transport{Base: base, Pipeline: p},
	}
}
