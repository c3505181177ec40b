// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package app assembles the session layer from configuration.
//
// A Runtime owns one credential store, one interceptor pipeline, one API
// client and one session store, wired so that the pipeline can invalidate
// the session and ask the runtime to start over after the server rejects
// the credential.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"sheetdesk/cli/internal/auth"
	"sheetdesk/cli/internal/backend"
	"sheetdesk/cli/internal/config"
	"sheetdesk/cli/internal/credentials"
	"sheetdesk/cli/internal/interceptor"
	"sheetdesk/cli/internal/logging"
	"sheetdesk/cli/internal/notify"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// Runtime is the assembled session layer.
type Runtime struct {
	Config   config.Config
	Log      zerolog.Logger
	Creds    credentials.Store
	Pipeline *interceptor.Pipeline
	API      backend.API
	Store    *auth.Store

	notifier   notify.Notifier
	transport  http.RoundTripper
	afterReset func(authenticated bool)

	// reloading is set from ScheduleReload until the reset finishes.
	reloading atomic.Bool
	mu        sync.Mutex
	timer     *time.Timer
	closed    bool
}

// Option customizes New.
type Option func(*Runtime)

// WithLogger replaces the logger built from the config.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runtime) { r.Log = log }
}

// WithCredentials replaces the credential store named by the config.
func WithCredentials(c credentials.Store) Option {
	return func(r *Runtime) { r.Creds = c }
}

// WithNotifier replaces the terminal notifier. nil silences notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(r *Runtime) { r.notifier = n }
}

// WithTransport sets the base transport under the interceptor.
func WithTransport(rt http.RoundTripper) Option {
	return func(r *Runtime) { r.transport = rt }
}

// OnReset registers fn to run after every scheduled reset.
func OnReset(fn func(authenticated bool)) Option {
	return func(r *Runtime) { r.afterReset = fn }
}

// New builds a Runtime from cfg. The session is not initialized; call
// Store.Initialize before trusting it.
func New(cfg config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runtime{
		Config:   cfg,
		Log:      logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat),
		notifier: notify.NewTerminal(os.Stderr),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notifier == nil {
		r.notifier = notify.Nop{}
	}

	if r.Creds == nil {
		creds, err := credentials.Open(cfg.CredentialBackend, r.Log)
		if err != nil {
			return nil, fmt.Errorf("open credential store: %w", err)
		}
		r.Creds = creds
	}

	r.Pipeline = interceptor.New(r.Creds, r.Log)
	client := r.Pipeline.Client(r.transport, cfg.Timeout())
	r.API = backend.New(cfg.APIBaseURL, cfg.Endpoints, client, r.Log)
	r.Store = auth.NewStore(r.API, r.Creds, r.Log)
	r.Pipeline.Bind(interceptor.Hooks{
		Notifier:    r.notifier,
		Invalidator: r.Store,
		Reloader:    r,
	})

	r.Log.Debug().
		Str("api", cfg.APIBaseURL).
		Str("credentials", cfg.CredentialBackend).
		Dur("timeout", cfg.Timeout()).
		Msg("runtime ready")
	return r, nil
}

// HTTPClient returns a client for other APIs of the application. Requests
// through it carry the session credential and trigger the same recovery.
func (r *Runtime) HTTPClient() *http.Client {
	return r.Pipeline.Client(r.transport, r.Config.Timeout())
}

// DialOptions returns gRPC options that install the pipeline on a connection.
func (r *Runtime) DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithChainUnaryInterceptor(r.Pipeline.UnaryClientInterceptor()),
		grpc.WithChainStreamInterceptor(r.Pipeline.StreamClientInterceptor()),
	}
}

// ScheduleReload resets the runtime after the configured delay. Calls made
// while a reset is pending are ignored.
func (r *Runtime) ScheduleReload() {
	if !r.reloading.CompareAndSwap(false, true) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.reloading.Store(false)
		return
	}
	delay := r.Config.ReloadDelay()
	r.Log.Debug().Dur("delay", delay).Msg("reload scheduled")
	r.timer = time.AfterFunc(delay, func() {
		defer r.reloading.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), r.Config.Timeout())
		defer cancel()
		r.Reset(ctx)
	})
}

// Reset discards in-memory session state and runs startup again. It reports
// whether the session is authenticated afterwards.
func (r *Runtime) Reset(ctx context.Context) bool {
	r.Store.Reset()
	ok := r.Store.Initialize(ctx)
	r.Log.Debug().Bool("authenticated", ok).Msg("runtime reset")
	if r.afterReset != nil {
		r.afterReset(ok)
	}
	return ok
}

// ReloadPending reports whether a reset is scheduled or running.
func (r *Runtime) ReloadPending() bool {
	return r.reloading.Load()
}

// Close cancels a pending reset. It does not wait for one already running.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil && r.timer.Stop() {
		r.reloading.Store(false)
	}
	return nil
}
