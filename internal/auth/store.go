// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"sheetdesk/cli/internal/backend"
	"sheetdesk/cli/internal/credentials"
	apperrors "sheetdesk/cli/internal/errors"
	"sheetdesk/cli/internal/logging"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Store is the session state machine.
//
// The mutex guards the session fields and is never held across a call to the
// API. Identical concurrent actions share one request through a singleflight
// group; the first caller's context governs that request. Every clear bumps
// the epoch, and a login or fetch that started under an older epoch does not
// commit its result.
type Store struct {
	api   backend.API
	creds credentials.Store
	log   zerolog.Logger

	group singleflight.Group

	mu       sync.Mutex
	token    string
	user     *backend.User
	inflight int
	failed   bool
	epoch    uint64
	subs     map[int]func(Session)
	nextSub  int
}

// NewStore builds a store and performs the startup read of the persisted token.
// The session is not authenticated until Initialize confirms the token.
func NewStore(api backend.API, creds credentials.Store, log zerolog.Logger) *Store {
	s := &Store{
		api:   api,
		creds: creds,
		log:   log,
		subs:  make(map[int]func(Session)),
	}
	if token, ok := creds.Load(); ok {
		s.token = token
		log.Debug().Str("token", logging.MaskToken(token)).Msg("found persisted session token")
	}
	return s
}

// Login exchanges credentials for a session.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	v, _, _ := s.group.Do(actionKey("login", username, password), func() (any, error) {
		epoch := s.begin()
		defer s.end()
		return s.authenticate(ctx, epoch, username, password, MsgLoginFailed), nil
	})
	return v.(Result)
}

// Register creates an account and logs into it with the same credentials.
// A failed login after a successful registration is reported as a failure;
// the account still exists server-side.
func (s *Store) Register(ctx context.Context, username, email, password string) Result {
	v, _, _ := s.group.Do(actionKey("register", username+"\x00"+email, password), func() (any, error) {
		epoch := s.begin()
		defer s.end()

		req := backend.RegisterRequest{Username: username, Email: email, Password: password}
		if _, err := s.api.Register(ctx, req); err != nil {
			s.log.Debug().Err(err).Str("username", username).Msg("registration rejected")
			s.markFailed()
			return failure(err, MsgRegistrationFailed), nil
		}
		s.log.Debug().Str("username", username).Msg("registered, logging in")
		return s.authenticate(ctx, epoch, username, password, MsgRegistrationFailed), nil
	})
	return v.(Result)
}

func (s *Store) authenticate(ctx context.Context, epoch uint64, username, password, fallback string) Result {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Debug().Err(err).Str("username", username).Msg("login rejected")
		s.markFailed()
		return failure(err, fallback)
	}
	if err := s.commit(epoch, resp.AccessToken, resp.User); err != nil {
		if !errors.Is(err, ErrSuperseded) {
			s.markFailed()
		}
		s.log.Debug().Err(err).Str("username", username).Msg("login not committed")
		return failure(err, fallback)
	}
	s.log.Debug().Str("username", username).Str("token", logging.MaskToken(resp.AccessToken)).Msg("session established")
	return Result{Success: true}
}

// Logout ends the session. The remote call is best-effort; the local session
// is cleared whatever its outcome.
func (s *Store) Logout(ctx context.Context) {
	s.group.Do("logout", func() (any, error) {
		s.begin()
		defer s.end()

		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed")
		}
		s.ClearAuth()
		return nil, nil
	})
}

// FetchCurrentUser refreshes the user record for the current token. It returns
// false without a network call when there is no token, and clears the session
// when the server does not confirm the token.
func (s *Store) FetchCurrentUser(ctx context.Context) bool {
	ok, _ := s.fetch(ctx)
	return ok
}

// fetch returns ErrSuperseded when a clear or reset landed while the request
// was out. The token is left alone in that case.
func (s *Store) fetch(ctx context.Context) (bool, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return false, nil
	}

	v, err, _ := s.group.Do("fetch\x00"+token, func() (any, error) {
		epoch := s.begin()
		defer s.end()

		user, err := s.api.Me(ctx)
		if err != nil {
			s.log.Debug().Err(err).Msg("current user fetch failed")
			s.clearIf(epoch, token)
			return false, nil
		}

		committed := s.update(func() bool {
			if s.epoch != epoch || s.token != token {
				return false
			}
			s.user = user
			return true
		})
		if !committed {
			return false, ErrSuperseded
		}
		return true, nil
	})
	return v.(bool), err
}

// initAttempts bounds how often Initialize refetches after being superseded.
const initAttempts = 3

// Initialize reconciles the persisted token with the server. It reports
// whether the session is authenticated afterwards. Only a failed fetch
// clears the token; a fetch superseded by a reset is retried with whatever
// token is current.
func (s *Store) Initialize(ctx context.Context) bool {
	for i := 0; i < initAttempts; i++ {
		if _, err := s.fetch(ctx); !errors.Is(err, ErrSuperseded) {
			break
		}
		s.log.Debug().Msg("current user fetch superseded, retrying")
	}
	return s.IsAuthenticated()
}

// SetAuth persists token and records the session. Nothing changes in memory
// when the credential store refuses the token.
func (s *Store) SetAuth(token string, user *backend.User) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()
	return s.commit(epoch, token, user)
}

func (s *Store) commit(epoch uint64, token string, user *backend.User) error {
	if token == "" || user == nil {
		return apperrors.New(apperrors.Decode, "session requires both token and user")
	}

	var err error
	s.update(func() bool {
		if s.epoch != epoch {
			err = ErrSuperseded
			return false
		}
		if serr := s.creds.Save(token); serr != nil {
			err = apperrors.Wrap(apperrors.Storage, "could not store the session token", serr)
			return false
		}
		u := *user
		s.token, s.user, s.failed = token, &u, false
		return true
	})
	return err
}

// ClearAuth erases the persisted token and the in-memory session.
func (s *Store) ClearAuth() {
	s.update(func() bool {
		s.clearLocked()
		return true
	})
}

// Invalidate drops the session after the server rejected its credential.
func (s *Store) Invalidate() {
	s.log.Debug().Msg("session invalidated by server")
	s.ClearAuth()
}

// Reset discards all in-memory state and re-reads the persisted token, as a
// freshly started process would.
func (s *Store) Reset() {
	s.update(func() bool {
		s.epoch++
		s.token, s.user, s.failed = "", nil, false
		if token, ok := s.creds.Load(); ok {
			s.token = token
		}
		return true
	})
}

// clearIf clears only when no clear or new session happened since epoch
// and token is still the current one.
func (s *Store) clearIf(epoch uint64, token string) {
	s.update(func() bool {
		if s.epoch != epoch || s.token != token {
			return false
		}
		s.clearLocked()
		return true
	})
}

func (s *Store) clearLocked() {
	s.epoch++
	s.token, s.user = "", nil
	if err := s.creds.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("could not erase stored session token")
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsAuthenticated is true iff both token and user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Loading reports whether any action is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Status returns the derived session status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) statusLocked() Status {
	switch {
	case s.token != "" && s.user != nil:
		return StatusAuthenticated
	case s.inflight > 0:
		return StatusAuthenticating
	case s.failed:
		return StatusFailed
	default:
		return StatusUnauthenticated
	}
}

func (s *Store) snapshotLocked() Session {
	snap := Session{
		Token:   s.token,
		Status:  s.statusLocked(),
		Loading: s.inflight > 0,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// update applies fn under the lock and, when fn reports a change, notifies
// subscribers outside it.
func (s *Store) update(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if !changed {
		s.mu.Unlock()
		return false
	}
	snap := s.snapshotLocked()
	subs := make([]func(Session), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return true
}

// begin marks an action in flight and returns the epoch it runs under.
func (s *Store) begin() uint64 {
	var epoch uint64
	s.update(func() bool {
		s.inflight++
		s.failed = false
		epoch = s.epoch
		return true
	})
	return epoch
}

func (s *Store) end() {
	s.update(func() bool {
		s.inflight--
		return true
	})
}

func (s *Store) markFailed() {
	s.update(func() bool {
		s.failed = true
		return true
	})
}

func failure(err error, fallback string) Result {
	msg := backend.DetailOf(err)
	if msg == "" {
		msg = fallback
	}
	return Result{Success: false, Error: msg, Cause: err}
}

// actionKey identifies an action for coalescing without keeping the password.
func actionKey(action, who, password string) string {
	sum := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%s\x00%s\x00%s", action, who, hex.EncodeToString(sum[:]))
}
