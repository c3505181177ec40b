package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// It validates the stored session with the server before showing the account.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command displays information about the currently authenticated account.
It validates the stored session token with the server and shows the account if the
session is still valid. A rejected token is removed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if !rt.Store.Initialize(cmd.Context()) {
			printNotLoggedIn()
			return nil
		}
		u := rt.Store.Snapshot().User
		fmt.Printf("👤 Current user: %s\n", displayName(u))
		if u.Email != "" {
			fmt.Printf("   Email: %s\n", u.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
