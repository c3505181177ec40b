// Package config loads sheetdesk configuration.
//
// Sources, lowest precedence first: built-in defaults, config.json in the XDG
// config dir, .env / .env.local in the working directory, then SHEETDESK_*
// environment variables. Only non-secret settings live here; the session token
// goes to the credential store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"sheetdesk/cli/internal/xdg"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// FileName is the config file name inside the XDG config dir.
const FileName = "config.json"

// Config holds non-sensitive CLI settings.
type Config struct {
	APIBaseURL        string    `json:"api_base_url" env:"SHEETDESK_API_URL"`
	TimeoutSeconds    int       `json:"timeout_seconds" env:"SHEETDESK_TIMEOUT_SECONDS"`
	CredentialBackend string    `json:"credential_backend" env:"SHEETDESK_CREDENTIAL_BACKEND"`
	ReloadDelayMillis int       `json:"reload_delay_ms" env:"SHEETDESK_RELOAD_DELAY_MS"`
	LogLevel          string    `json:"log_level" env:"SHEETDESK_LOG_LEVEL"`
	LogFormat         string    `json:"log_format" env:"SHEETDESK_LOG_FORMAT"`
	Endpoints         Endpoints `json:"endpoints" envPrefix:"SHEETDESK_ENDPOINT_"`
}

// Endpoints contains the auth API paths, relative to APIBaseURL.
type Endpoints struct {
	Register string `json:"register" env:"REGISTER"`
	Login    string `json:"login" env:"LOGIN"`
	Logout   string `json:"logout" env:"LOGOUT"`
	Me       string `json:"me" env:"ME"`
}

// credentialBackends mirrors credentials.Backends; config must not import it.
var credentialBackends = []string{"auto", "keychain", "file", "memory"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:        "http://localhost:8000/api",
		TimeoutSeconds:    60,
		CredentialBackend: "auto",
		ReloadDelayMillis: 1500,
		LogLevel:          "info",
		LogFormat:         "console",
		Endpoints: Endpoints{
			Register: "/auth/register",
			Login:    "/auth/login",
			Logout:   "/auth/logout",
			Me:       "/auth/me",
		},
	}
}

// Timeout is the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReloadDelay is the pause before the runtime resets after a rejected credential.
func (c Config) ReloadDelay() time.Duration {
	return time.Duration(c.ReloadDelayMillis) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("api_base_url is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.ReloadDelayMillis < 0 {
		return fmt.Errorf("reload_delay_ms must not be negative, got %d", c.ReloadDelayMillis)
	}
	if !slices.Contains(credentialBackends, strings.ToLower(c.CredentialBackend)) {
		return fmt.Errorf("credential_backend must be one of %s, got %q", strings.Join(credentialBackends, ", "), c.CredentialBackend)
	}
	for name, p := range map[string]string{
		"register": c.Endpoints.Register,
		"login":    c.Endpoints.Login,
		"logout":   c.Endpoints.Logout,
		"me":       c.Endpoints.Me,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("endpoint %s must start with '/', got %q", name, p)
		}
	}
	return nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration from every source and validates it.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(p)
}

// LoadFrom is Load with an explicit config file path. A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	c, err := LoadFile(path)
	if err != nil {
		return c, err
	}

	for _, name := range []string{".env", ".env.local"} {
		// .env files are optional, but a broken one is reported
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return c, fmt.Errorf("load %s: %w", name, err)
		}
	}

	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// LoadFile returns the defaults overlaid with the config file only, without
// environment overrides. It is the base for edits that are saved back.
func LoadFile(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return c, err
	}
	return c, nil
}

// Keys lists the settings accepted by Set.
var Keys = []string{"api_base_url", "timeout_seconds", "credential_backend", "reload_delay_ms", "log_level", "log_format"}

// Set assigns one setting by its JSON name and validates the result.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "api_base_url":
		next.APIBaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout_seconds: %w", err)
		}
		next.TimeoutSeconds = n
	case "credential_backend":
		next.CredentialBackend = strings.ToLower(strings.TrimSpace(value))
	case "reload_delay_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("reload_delay_ms: %w", err)
		}
		next.ReloadDelayMillis = n
	case "log_level":
		next.LogLevel = value
	case "log_format":
		next.LogFormat = value
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Save writes configuration to the XDG config file.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(p, c)
}

// SaveTo writes configuration to path with 0600 permissions.
func SaveTo(path string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
