// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth holds the client's belief about who is logged in.
//
// The Store owns the in-memory session (token plus user record) and is the
// only writer of the credential store. Every other part of the CLI reads the
// session through Snapshot or IsAuthenticated, or learns about changes by
// subscribing.
package auth

import (
	"errors"

	"sheetdesk/cli/internal/backend"
)

// Status is the externally visible phase of the session.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
	StatusFailed          Status = "failed"
)

// Fallback messages used when the server gives no detail.
const (
	MsgLoginFailed        = "login failed"
	MsgRegistrationFailed = "registration failed"
)

// ErrSuperseded is the cause of a result whose session was cleared
// (logout, expiry, reset) while its request was in flight.
var ErrSuperseded = errors.New("auth: session changed while the request was in flight")

// Session is a point-in-time copy of the store state.
type Session struct {
	Token   string        `json:"token,omitempty"`
	User    *backend.User `json:"user,omitempty"`
	Status  Status        `json:"status"`
	Loading bool          `json:"loading"`
}

// Authenticated reports whether both token and user are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Result is the outcome of Login and Register.
type Result struct {
	Success bool
	// Error is the message to show the user: the server detail when one was
	// sent, otherwise a generic fallback.
	Error string
	// Cause is the underlying error, nil on success.
	Cause error
}
