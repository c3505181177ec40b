// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the sheetdesk client.
// It implements the account subcommands (login, register, logout, whoami,
// status) and configuration editing using the Cobra CLI framework. Every
// command that talks to the server shares one app.Runtime built before it runs.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sheetdesk/cli/internal/app"
	"sheetdesk/cli/internal/config"
	"sheetdesk/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
	apiURL      string

	// rt is built in PersistentPreRunE for commands that need the session layer.
	rt *app.Runtime
)

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("reported")

// annotationNoRuntime skips runtime construction for a command.
const annotationNoRuntime = "sheetdesk/no-runtime"

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the sheetdesk CLI application.
var rootCmd = &cobra.Command{
	Use:           "sheetdesk",
	Short:         "sheetdesk CLI for your spreadsheet workspace",
	Long:          `sheetdesk is a command-line client for the sheetdesk spreadsheet service. It manages your login session and keeps the session token in the OS keychain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoRuntime] != "" || showVersion {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := app.New(cfg)
		if err != nil {
			return err
		}
		rt = r
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt == nil {
			return nil
		}
		return rt.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("sheetdesk %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// loadConfig reads configuration and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(apiURL, "/")
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Override the API base URL")
}
