// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credentials

import "sync"

// Memory keeps the token in process memory only.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a store seeded with token ("" for empty).
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
