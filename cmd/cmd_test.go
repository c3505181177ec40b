// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"sheetdesk/cli/internal/backend"
	"sheetdesk/cli/internal/credentials"
	"sheetdesk/cli/internal/terminal"
	"sheetdesk/cli/internal/xdg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	url     string
	logins  atomic.Int32
	logouts atomic.Int32
}

// setupCLI points config and state at temp dirs and starts a fake API.
func setupCLI(t *testing.T) *testServer {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("SHEETDESK_CREDENTIAL_BACKEND", "file")
	t.Setenv("SHEETDESK_PASSWORD", "")
	t.Chdir(root)

	ts := &testServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			ts.logins.Add(1)
			var req backend.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "correct-pw" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"invalid username or password"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"tok-alice-123456","token_type":"bearer","user":{"id":1,"username":"alice","email":"alice@x.com"}}`))
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-alice-123456" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"not logged in"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":1,"username":"alice","email":"alice@x.com"}`))
		case "/api/auth/logout":
			ts.logouts.Add(1)
			_, _ = w.Write([]byte(`{"message":"logged out"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	ts.url = srv.URL + "/api"
	return ts
}

// run executes the root command with fresh flag state.
func run(t *testing.T, args ...string) error {
	t.Helper()
	rt = nil
	showVersion, verbose, apiURL = false, false, ""
	loginUsername, loginPassword = "", ""
	registerUsername, registerEmail, registerPassword = "", "", ""
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func tokenFile(t *testing.T) string {
	t.Helper()
	dir, err := xdg.StateDir()
	require.NoError(t, err)
	return filepath.Join(dir, credentials.FileName)
}

func TestLoginWhoamiLogout(t *testing.T) {
	ts := setupCLI(t)

	require.NoError(t, run(t, "login", "-u", "alice", "-p", "correct-pw", "--api-url", ts.url))
	b, err := os.ReadFile(tokenFile(t))
	require.NoError(t, err)
	assert.Equal(t, "tok-alice-123456", strings.TrimSpace(string(b)))

	require.NoError(t, run(t, "login", "-u", "alice", "-p", "correct-pw", "--api-url", ts.url))
	assert.Equal(t, int32(1), ts.logins.Load(), "second login short-circuits on the stored session")

	require.NoError(t, run(t, "whoami", "--api-url", ts.url))
	require.NoError(t, run(t, "status", "--api-url", ts.url))

	require.NoError(t, run(t, "logout", "--api-url", ts.url))
	assert.Equal(t, int32(1), ts.logouts.Load())
	_, err = os.Stat(tokenFile(t))
	assert.True(t, os.IsNotExist(err))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := setupCLI(t)

	err := run(t, "login", "-u", "alice", "-p", "wrong-pw", "--api-url", ts.url)

	assert.ErrorIs(t, err, errReported)
	_, statErr := os.Stat(tokenFile(t))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoginPasswordFromEnv(t *testing.T) {
	ts := setupCLI(t)
	t.Setenv("SHEETDESK_PASSWORD", "correct-pw")

	require.NoError(t, run(t, "login", "-u", "alice", "--api-url", ts.url))
	assert.Equal(t, int32(1), ts.logins.Load())
}

func TestVersionSkipsRuntime(t *testing.T) {
	setupCLI(t)
	t.Setenv("SHEETDESK_TIMEOUT_SECONDS", "-1")

	require.NoError(t, run(t, "--version"))
	assert.Nil(t, rt)
}

func TestConfigSet(t *testing.T) {
	setupCLI(t)

	require.NoError(t, run(t, "config", "set", "api_base_url", "https://sheets.example.com/api/"))
	assert.Nil(t, rt)
	assert.Error(t, run(t, "config", "set", "timeout_seconds", "never"))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://sheets.example.com/api", cfg.APIBaseURL)
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	setupCLI(t)
	apiURL, verbose = "https://flag.example.com/api/", true
	t.Cleanup(func() { apiURL, verbose = "", false })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestPasswordFrom(t *testing.T) {
	p := terminal.NewReaderPrompter(strings.NewReader("typed\n"), &strings.Builder{})

	t.Setenv("SHEETDESK_PASSWORD", "")
	pw, err := passwordFrom(p, "flag")
	require.NoError(t, err)
	assert.Equal(t, "flag", pw)

	pw, err = passwordFrom(p, "")
	require.NoError(t, err)
	assert.Equal(t, "typed", pw)

	t.Setenv("SHEETDESK_PASSWORD", "from-env")
	pw, err = passwordFrom(p, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "alice", displayName(&backend.User{Username: "alice", Email: "a@x.com"}))
	assert.Equal(t, "a@x.com", displayName(&backend.User{Email: "a@x.com"}))
	assert.Equal(t, "user", displayName(nil))
}
