// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe access to the OS keychain/credential
// store for sheetdesk.
//
// The session token is the only secret sheetdesk keeps, stored under a single
// key in the "sheetdesk" service namespace. macOS uses the native security
// command when available; every other platform goes through the keyring
// library with native backends only (no encrypted-file fallback, that is what
// the file credential backend is for).
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "sheetdesk"

// KeySessionToken is the single key holding the bearer token.
const KeySessionToken = "session_token"

// ErrNotFound is returned by LoadToken when no token is stored.
var ErrNotFound = errors.New("keychain: token not found")

// Manager provides thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
	log     zerolog.Logger
}

// keychainBackend is implemented by the native macOS backend.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Open creates a Manager backed by the OS keychain.
func Open(log zerolog.Logger) (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(log)
		if err == nil {
			return &Manager{backend: backend, log: log}, nil
		}
		log.Debug().Err(err).Msg("macOS security command unavailable, falling back to keyring")
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring, log: log}, nil
}

// NewWithRing wraps an already opened keyring.
func NewWithRing(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{ring: ring, log: log}
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// pass is the fallback when the login keychain is locked down
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          allowed,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  ServiceName,
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
	}
	return keyring.Open(cfg)
}

// SaveToken stores the session token, overwriting any previous value.
func (m *Manager) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeySessionToken, token)
	}
	return m.ring.Set(keyring.Item{
		Key:   KeySessionToken,
		Data:  []byte(token),
		Label: "sheetdesk session token",
	})
}

// LoadToken retrieves the session token. A missing or empty entry yields ErrNotFound.
func (m *Manager) LoadToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		token, err := m.backend.Get(KeySessionToken)
		if err != nil {
			return "", err
		}
		if token == "" {
			return "", ErrNotFound
		}
		return token, nil
	}

	it, err := m.ring.Get(KeySessionToken)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// ClearToken removes the session token. Removing a missing token is not an error.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(KeySessionToken)
	}
	if err := m.ring.Remove(KeySessionToken); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
