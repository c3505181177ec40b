// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sheetdesk/cli/internal/config"
	apperrors "sheetdesk/cli/internal/errors"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.Handler) *HTTP {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", config.Default().Endpoints, &http.Client{Timeout: 5 * time.Second}, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "alice" || req.Password != "correct-pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "sess-1",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 7, "username": "alice", "email": "alice@x.com", "is_active": true, "created_at": "2024-05-01T10:00:00"},
		})
	}))

	resp, err := c.Login(context.Background(), "alice", "correct-pw")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, &User{ID: 7, Username: "alice", Email: "alice@x.com", IsActive: true, CreatedAt: "2024-05-01T10:00:00"}, resp.User)

	_, err = c.Login(context.Background(), "alice", "wrong-pw")
	require.Error(t, err)
	assert.Equal(t, apperrors.CredentialRejected, apperrors.KindOf(err))
	assert.Equal(t, "invalid username or password", DetailOf(err))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestLoginResponseFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		token   string
		wantErr bool
	}{
		{name: "camel case token", body: `{"accessToken":"a","user":{"username":"u"}}`, token: "a"},
		{name: "plain token", body: `{"token":"b","user":{"username":"u"}}`, token: "b"},
		{name: "no token", body: `{"user":{"username":"u"}}`, wantErr: true},
		{name: "no user", body: `{"access_token":"c"}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseLoginResponse(json.RawMessage(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.Decode, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, resp.AccessToken)
		})
	}
}

func TestRegister(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Username {
		case "taken":
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "username already exists"})
		case "short":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]any{
				{"loc": []any{"body", "email"}, "msg": "value is not a valid email address"},
				{"loc": []any{"body", "password"}, "msg": "too short"},
			}})
		default:
			writeJSON(w, http.StatusCreated, map[string]any{"id": 2, "username": req.Username, "email": req.Email, "is_active": true})
		}
	}))

	u, err := c.Register(context.Background(), RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	_, err = c.Register(context.Background(), RegisterRequest{Username: "taken"})
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
	assert.Equal(t, "username already exists", DetailOf(err))

	_, err = c.Register(context.Background(), RegisterRequest{Username: "short"})
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
	assert.Equal(t, "email: value is not a valid email address; password: too short", DetailOf(err))
}

func TestMeAndLogout(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			assert.Equal(t, http.MethodGet, r.Method)
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "alice"})
		case "/api/auth/logout":
			assert.Equal(t, http.MethodPost, r.Method)
			writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
		default:
			http.NotFound(w, r)
		}
	}))

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	require.NoError(t, c.Logout(context.Background()))
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		code   int
		body   string
		kind   apperrors.Kind
		detail string
	}{
		{http.StatusUnauthorized, `{"detail":"not logged in"}`, apperrors.CredentialRejected, "not logged in"},
		{http.StatusForbidden, `{"detail":"account disabled"}`, apperrors.PermissionDenied, "account disabled"},
		{http.StatusNotFound, `{"error":"no such route"}`, apperrors.Validation, "no such route"},
		{http.StatusInternalServerError, `oops`, apperrors.Server, ""},
		{http.StatusBadGateway, ``, apperrors.Server, ""},
	}
	for _, tt := range tests {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
			_, _ = w.Write([]byte(tt.body))
		}))

		_, err := c.Me(context.Background())
		require.Error(t, err)
		assert.Equal(t, tt.kind, apperrors.KindOf(err), "status %d", tt.code)
		assert.Equal(t, tt.detail, DetailOf(err), "status %d", tt.code)
		if tt.detail == "" {
			assert.Equal(t, http.StatusText(tt.code), apperrors.MessageOf(err))
		}
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	c := New(base, config.Default().Endpoints, &http.Client{Timeout: 2 * time.Second}, zerolog.Nop())

	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.Transport, apperrors.KindOf(err))
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, "", DetailOf(err))
}

func TestMeRejectsEmptyUser(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	}))

	_, err := c.Me(context.Background())
	assert.Equal(t, apperrors.Decode, apperrors.KindOf(err))
}
