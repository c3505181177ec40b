// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sheetdesk/cli/internal/xdg"

	"github.com/rs/zerolog"
)

// FileName is the token file name inside the state dir.
const FileName = "session_token"

// File stores the token as the sole content of a 0600 file. The bytes are
// returned exactly as saved; an empty file holds no credential.
type File struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewFile stores the token at path.
func NewFile(path string, log zerolog.Logger) *File {
	return &File{path: path, log: log}
}

// DefaultFile stores the token under the XDG state dir.
func DefaultFile(log zerolog.Logger) (*File, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	return NewFile(filepath.Join(dir, FileName), log), nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// write-then-rename so a crash never leaves a truncated token
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace token: %w", err)
	}
	return nil
}

func (f *File) Load() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Debug().Err(err).Str("path", f.path).Msg("token file unreadable, treating as no credential")
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
