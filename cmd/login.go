// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

// loginCmd represents the login command for password authentication.
// It exchanges a username and password for a session token, which is kept in
// the credential store so later commands run authenticated.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Log in with your username and password",
	Long: `The login command authenticates against the sheetdesk server and stores the
resulting session token in the OS keychain (or the configured credential store).

Missing values are prompted for; the password is read without echo. The password
may also be supplied through SHEETDESK_PASSWORD for non-interactive use.
If you are already logged in as the requested user, nothing is done.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := rt.Store

		// If already logged in with a valid token, short-circuit
		if store.Initialize(ctx) {
			current := displayName(store.Snapshot().User)
			if loginUsername == "" || loginUsername == current {
				fmt.Printf("Already logged in as %s\n", current)
				return nil
			}
		}

		p := newPrompter()
		username := loginUsername
		if username == "" {
			u, err := askUsername(p)
			if err != nil {
				return err
			}
			username = u
		}
		password, err := passwordFrom(p, loginPassword)
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stderr, "Logging in", spinnerFrames, 120*time.Millisecond)
		res := store.Login(ctx, username, password)
		stop()
		if !res.Success {
			return reportFailure(os.Stderr, res, "logging in")
		}

		fmt.Println(getRandomLoginGreeting(displayName(store.Snapshot().User)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prefer the prompt or SHEETDESK_PASSWORD)")
}
