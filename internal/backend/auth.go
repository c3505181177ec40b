// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "sheetdesk/cli/internal/errors"
)

// Register calls POST /auth/register. The server answers 201 with the new user.
func (h *HTTP) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	var u User
	if err := h.do(ctx, http.MethodPost, h.endpoints.Register, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login calls POST /auth/login and returns the issued token with its user.
func (h *HTTP) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var raw json.RawMessage
	if err := h.do(ctx, http.MethodPost, h.endpoints.Login, LoginRequest{Username: username, Password: password}, &raw); err != nil {
		return nil, err
	}
	return parseLoginResponse(raw)
}

// parseLoginResponse decodes the login body, tolerating the token under a few
// common field names. A response without token or user is a decode failure:
// the session must never be half-established.
func parseLoginResponse(raw json.RawMessage) (*LoginResponse, error) {
	var out LoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.Decode, "unexpected login response", err)
	}
	if out.AccessToken == "" {
		var loose map[string]any
		if err := json.Unmarshal(raw, &loose); err == nil {
			out.AccessToken = extractAccessToken(loose)
		}
	}
	if out.AccessToken == "" {
		return nil, apperrors.New(apperrors.Decode, "login response carried no access token")
	}
	if out.User == nil || out.User.Username == "" {
		return nil, apperrors.New(apperrors.Decode, "login response carried no user")
	}
	return &out, nil
}

// extractAccessToken tries common field names for the token.
func extractAccessToken(result map[string]any) string {
	for _, key := range []string{"access_token", "accessToken", "token", "session_token"} {
		if v, ok := result[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Logout calls POST /auth/logout.
func (h *HTTP) Logout(ctx context.Context) error {
	var ack MessageResponse
	return h.do(ctx, http.MethodPost, h.endpoints.Logout, nil, &ack)
}

// Me calls GET /auth/me.
func (h *HTTP) Me(ctx context.Context) (*User, error) {
	var u User
	if err := h.do(ctx, http.MethodGet, h.endpoints.Me, nil, &u); err != nil {
		return nil, err
	}
	if u.Username == "" {
		return nil, apperrors.New(apperrors.Decode, "current user response carried no username")
	}
	return &u, nil
}
