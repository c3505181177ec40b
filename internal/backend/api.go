// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the client for the sheetdesk auth API.
//
// It covers the four remote operations the session layer depends on
// (register, login, logout, current user). Requests go through whatever
// *http.Client it is given; in the application that client carries the
// interceptor transport, so credentials are attached and session expiry is
// detected without this package knowing about either.
package backend

import "context"

// API defines the auth operations the session store depends on.
// Implementations may call the real HTTP endpoints or provide fakes for tests.
type API interface {
	// Register creates an account. It does not establish a session.
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	// Login exchanges credentials for a bearer token and the user record.
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	// Logout invalidates the current token server-side.
	Logout(ctx context.Context) error
	// Me returns the user the current token belongs to.
	Me(ctx context.Context) (*User, error)
}

// User is the identity record returned by the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	// CreatedAt is kept verbatim; the server emits naive timestamps.
	CreatedAt string `json:"created_at,omitempty"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the result of a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
