// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sheetdesk/cli/internal/config"
	apperrors "sheetdesk/cli/internal/errors"
	"sheetdesk/cli/internal/logging"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// HTTP implements API over the REST endpoints.
type HTTP struct {
	// baseURL is prefixed to every endpoint path (e.g., "http://localhost:8000/api")
	baseURL   string
	endpoints config.Endpoints
	client    *http.Client
	log       zerolog.Logger
}

var _ API = (*HTTP)(nil)

// New creates an HTTP API client. client should carry the interceptor transport.
func New(baseURL string, endpoints config.Endpoints, client *http.Client, log zerolog.Logger) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    client,
		log:       log,
	}
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when non-nil).
// Non-2xx answers become *errors.E wrapping a *StatusError; transport failures
// become *errors.E of kind Transport wrapping the original error.
func (h *HTTP) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Debug().Str("path", path).Str("error", logging.Mask(err.Error())).Msg("request failed")
		return apperrors.Wrap(apperrors.Transport, "could not reach the server", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.Transport, "could not read the response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := newStatusError(resp.StatusCode, raw)
		h.log.Debug().Str("path", path).Int("status", resp.StatusCode).Str("detail", serr.Detail).Msg("request rejected")
		return serr.classify()
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(apperrors.Decode, "unexpected response from the server", err)
	}
	return nil
}
