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
	registerUsername string
	registerEmail    string
	registerPassword string
)

// registerCmd creates an account and logs into it.
var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create an account and log in",
	Long: `The register command creates a new sheetdesk account and then logs in with
the same credentials. If the account is created but the login that follows fails,
the command reports a failure; run 'sheetdesk login' to retry.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter()
		username := registerUsername
		if username == "" {
			u, err := askUsername(p)
			if err != nil {
				return err
			}
			username = u
		}
		email := registerEmail
		if email == "" {
			e, err := p.Line("Email: ")
			if err != nil {
				return err
			}
			email = e
		}
		password, err := passwordFrom(p, registerPassword)
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stderr, "Creating account", spinnerFrames, 120*time.Millisecond)
		res := rt.Store.Register(cmd.Context(), username, email, password)
		stop()
		if !res.Success {
			return reportFailure(os.Stderr, res, "creating your account")
		}

		fmt.Printf("✅ Account created. Logged in as %s\n", displayName(rt.Store.Snapshot().User))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Account username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Account password (prefer the prompt or SHEETDESK_PASSWORD)")
}
