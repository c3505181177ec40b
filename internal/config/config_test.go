package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 60*time.Second, c.Timeout())
	assert.Equal(t, 1500*time.Millisecond, c.ReloadDelay())
}

func TestLoadFromFileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_base_url": "https://sheets.example.com/api",
		"credential_backend": "file",
		"endpoints": {"me": "/v2/me"}
	}`), 0o600))

	t.Setenv("SHEETDESK_TIMEOUT_SECONDS", "5")
	t.Setenv("SHEETDESK_ENDPOINT_LOGIN", "/v2/login")

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://sheets.example.com/api", c.APIBaseURL)
	assert.Equal(t, "file", c.CredentialBackend)
	assert.Equal(t, 5, c.TimeoutSeconds)
	assert.Equal(t, "/v2/me", c.Endpoints.Me)
	assert.Equal(t, "/v2/login", c.Endpoints.Login)
	assert.Equal(t, "/auth/register", c.Endpoints.Register, "unset fields keep defaults")
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHEETDESK_CREDENTIAL_BACKEND=memory\n"), 0o600))
	// godotenv sets real process env; make sure it is undone after the test
	t.Setenv("SHEETDESK_CREDENTIAL_BACKEND", "")
	require.NoError(t, os.Unsetenv("SHEETDESK_CREDENTIAL_BACKEND"))

	c, err := LoadFrom(filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, "memory", c.CredentialBackend)
}

func TestLoadFromRejectsBadJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.APIBaseURL = " " }},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"negative reload delay", func(c *Config) { c.ReloadDelayMillis = -1 }},
		{"unknown backend", func(c *Config) { c.CredentialBackend = "floppy" }},
		{"relative endpoint", func(c *Config) { c.Endpoints.Logout = "auth/logout" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSaveWritesPrivateFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := Default()
	c.APIBaseURL = "https://saved.example.com/api"
	require.NoError(t, Save(c))

	p, err := Path()
	require.NoError(t, err)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	t.Chdir(t.TempDir())
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com/api", loaded.APIBaseURL)
}

func TestSet(t *testing.T) {
	c := Default()

	require.NoError(t, c.Set("api_base_url", " https://sheets.example.com/api/ "))
	require.NoError(t, c.Set("timeout_seconds", "15"))
	require.NoError(t, c.Set("credential_backend", "FILE"))
	assert.Equal(t, "https://sheets.example.com/api", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.Timeout())
	assert.Equal(t, "file", c.CredentialBackend)

	before := c
	assert.Error(t, c.Set("timeout_seconds", "soon"))
	assert.Error(t, c.Set("timeout_seconds", "-1"))
	assert.Error(t, c.Set("credential_backend", "vault"))
	assert.Error(t, c.Set("colour", "blue"))
	assert.Equal(t, before, c)
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, SaveTo(path, Config{APIBaseURL: "https://file.example.com"}))
	t.Setenv("SHEETDESK_API_URL", "https://env.example.com")

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", c.APIBaseURL)
}

func TestLoadFromReportsBrokenDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHEETDESK_API_BASE_URL=\"https://unterminated\n"), 0o600))

	_, err := LoadFrom(filepath.Join(dir, "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}
