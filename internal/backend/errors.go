// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "sheetdesk/cli/internal/errors"
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code int
	// Detail is the server-supplied explanation, "" when none was sent.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("status %d", e.Code)
}

func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{Code: code, Detail: parseDetail(body)}
}

// classify wraps the status error with its error kind.
func (e *StatusError) classify() *apperrors.E {
	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	var kind apperrors.Kind
	switch {
	case e.Code == http.StatusUnauthorized:
		kind = apperrors.CredentialRejected
	case e.Code == http.StatusForbidden:
		kind = apperrors.PermissionDenied
	case e.Code >= 500:
		kind = apperrors.Server
	default:
		kind = apperrors.Validation
	}
	return apperrors.Wrap(kind, msg, e)
}

// parseDetail extracts the server explanation from an error body.
// The API sends {"detail": "..."} for business errors and
// {"detail": [{"loc": [...], "msg": "..."}]} for request validation errors.
func parseDetail(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if s := detailText(raw); s != "" {
			return s
		}
	}
	return ""
}

func detailText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := lastLoc(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}

// DetailOf returns the server-supplied detail carried by err, or "".
func DetailOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0 for transport failures.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
