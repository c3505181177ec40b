// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It ends the session on the server (best-effort) and always removes the
// stored session token locally.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and remove the saved token",
	Long: `The logout command asks the server to end the current session and removes the
session token from the credential store. Local state is cleared even when the
server cannot be reached.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		rt.Store.Logout(cmd.Context())
		fmt.Println("✅ Logged out. The saved session token has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
