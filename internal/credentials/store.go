// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credentials persists the session token across process restarts.
//
// Only the bearer token is ever persisted, never the user record. Load has no
// error condition: an unreadable or missing backend entry simply means there is
// no credential, and the server remains the only authority on whether a stored
// token is still valid.
package credentials

import (
	"fmt"
	"strings"

	"sheetdesk/cli/internal/keychain"

	"github.com/rs/zerolog"
)

// Reader is the read side used by the interceptor pipeline.
type Reader interface {
	Load() (string, bool)
}

// Store persists a single session token.
type Store interface {
	Reader
	// Save persists token, overwriting any prior value.
	Save(token string) error
	// Clear removes any persisted token. Clearing an empty store succeeds.
	Clear() error
}

// Backend names accepted by Open.
const (
	BackendAuto     = "auto"
	BackendKeychain = "keychain"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendAuto, BackendKeychain, BackendFile, BackendMemory}

// Open resolves a backend name to a Store. "auto" prefers the OS keychain and
// falls back to a private file in the XDG state dir.
func Open(backend string, log zerolog.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendKeychain:
		m, err := keychain.Open(log)
		if err != nil {
			return nil, fmt.Errorf("open keychain: %w", err)
		}
		return NewKeychain(m, log), nil
	case BackendFile:
		return DefaultFile(log)
	case BackendMemory:
		return NewMemory(""), nil
	case BackendAuto, "":
		m, err := keychain.Open(log)
		if err == nil {
			return NewKeychain(m, log), nil
		}
		log.Debug().Err(err).Msg("keychain unavailable, using file credential store")
		return DefaultFile(log)
	default:
		return nil, fmt.Errorf("unknown credential backend %q (valid: %s)", backend, strings.Join(Backends, ", "))
	}
}
