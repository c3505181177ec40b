// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credentials

import (
	"errors"

	"sheetdesk/cli/internal/keychain"

	"github.com/rs/zerolog"
)

// Keychain stores the token in the OS keychain.
type Keychain struct {
	m   *keychain.Manager
	log zerolog.Logger
}

// NewKeychain wraps a keychain manager.
func NewKeychain(m *keychain.Manager, log zerolog.Logger) *Keychain {
	return &Keychain{m: m, log: log}
}

func (k *Keychain) Save(token string) error {
	return k.m.SaveToken(token)
}

func (k *Keychain) Load() (string, bool) {
	token, err := k.m.LoadToken()
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			k.log.Debug().Err(err).Msg("keychain read failed, treating as no credential")
		}
		return "", false
	}
	return token, true
}

func (k *Keychain) Clear() error {
	return k.m.ClearToken()
}
