// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package interceptor attaches the session credential to every outgoing API
// call and reacts to session invalidation on the way back.
//
// The same rules apply to HTTP (Transport) and gRPC (UnaryClientInterceptor,
// StreamClientInterceptor):
//
//   - outbound: when the credential store holds a token and the caller did not
//     set one, send it as "Authorization: Bearer <token>".
//   - 401 / Unauthenticated on a call that carried our credential: clear the
//     credential store, drop the in-memory session, tell the user the session
//     expired and schedule a runtime reset.
//   - 403 / PermissionDenied: tell the user the action is not allowed.
//   - everything else passes through untouched.
//
// Responses and errors are always returned to the caller unchanged.
package interceptor

import (
	"net/http"
	"sync"

	"sheetdesk/cli/internal/credentials"
	"sheetdesk/cli/internal/notify"

	"github.com/rs/zerolog"
)

// Invalidator drops the in-memory session after the server rejected the credential.
type Invalidator interface {
	Invalidate()
}

// Reloader discards runtime state and re-runs startup after a short delay.
type Reloader interface {
	ScheduleReload()
}

// Hooks are the side effects triggered by inbound handling.
// They are bound after construction because the session store itself
// issues requests through the pipeline.
type Hooks struct {
	Notifier    notify.Notifier
	Invalidator Invalidator
	Reloader    Reloader
}

// Pipeline holds the credential store and the inbound side effects.
type Pipeline struct {
	creds credentials.Store
	log   zerolog.Logger

	mu    sync.RWMutex
	hooks Hooks
}

// New creates a pipeline reading and clearing creds.
func New(creds credentials.Store, log zerolog.Logger) *Pipeline {
	return &Pipeline{creds: creds, log: log}
}

// Bind installs the side-effect hooks. Nil hooks are skipped.
func (p *Pipeline) Bind(h Hooks) {
	p.mu.Lock()
	p.hooks = h
	p.mu.Unlock()
}

// token returns the credential to attach, if any.
func (p *Pipeline) token() (string, bool) {
	return p.creds.Load()
}

// handleStatus applies the inbound rules for an HTTP-equivalent status.
// attached reports whether this pipeline put a credential on the call.
func (p *Pipeline) handleStatus(status int, attached bool, target string) {
	switch status {
	case http.StatusUnauthorized:
		if !attached {
			p.log.Debug().Str("target", target).Msg("401 on uncredentialed call, leaving session alone")
			return
		}
		p.expire(target)
	case http.StatusForbidden:
		p.log.Debug().Str("target", target).Msg("permission denied")
		if n := p.snapshot().Notifier; n != nil {
			n.NotAuthorized()
		}
	}
}

// expire runs the credential-rejected recovery in its fixed order.
func (p *Pipeline) expire(target string) {
	p.log.Warn().Str("target", target).Msg("session credential rejected, clearing session")

	if err := p.creds.Clear(); err != nil {
		p.log.Error().Err(err).Msg("failed to clear credential store")
	}
	h := p.snapshot()
	if h.Invalidator != nil {
		h.Invalidator.Invalidate()
	}
	if h.Notifier != nil {
		h.Notifier.SessionExpired()
	}
	if h.Reloader != nil {
		h.Reloader.ScheduleReload()
	}
}

func (p *Pipeline) snapshot() Hooks {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hooks
}
