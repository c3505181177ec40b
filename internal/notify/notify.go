// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify is the user-facing message boundary for session events.
package notify

import (
	"io"

	"github.com/pterm/pterm"
)

// Messages emitted by the interceptor pipeline.
const (
	MsgSessionExpired = "Your session has expired, please log in again"
	MsgNotAuthorized  = "You are not authorized to perform this action"
)

// Notifier displays session events to the user.
type Notifier interface {
	SessionExpired()
	NotAuthorized()
}

// Terminal prints notifications with pterm prefixes.
type Terminal struct {
	warning *pterm.PrefixPrinter
	err     *pterm.PrefixPrinter
}

// NewTerminal writes notifications to w (os.Stderr in the CLI).
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		warning: pterm.Warning.WithWriter(w),
		err:     pterm.Error.WithWriter(w),
	}
}

func (t *Terminal) SessionExpired() {
	t.warning.Println(MsgSessionExpired)
}

func (t *Terminal) NotAuthorized() {
	t.err.Println(MsgNotAuthorized)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) SessionExpired() {}
func (Nop) NotAuthorized()  {}
