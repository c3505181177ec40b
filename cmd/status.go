// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"

	"sheetdesk/cli/internal/auth"
	"sheetdesk/cli/internal/logging"

	"github.com/spf13/cobra"
)

// statusView is the JSON shape printed by the status command.
type statusView struct {
	auth.Session
	Authenticated bool   `json:"authenticated"`
	API           string `json:"api"`
	Credentials   string `json:"credential_backend"`
}

// statusCmd prints the reconciled session as JSON.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the session state as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt.Store.Initialize(cmd.Context())
		snap := rt.Store.Snapshot()
		view := statusView{
			Session:       snap,
			Authenticated: snap.Authenticated(),
			API:           rt.Config.APIBaseURL,
			Credentials:   rt.Config.CredentialBackend,
		}
		if view.Token != "" {
			view.Token = logging.MaskToken(view.Token)
		}

		b, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
