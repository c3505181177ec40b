// Package main is the entry point for the sheetdesk CLI application.
// It manages the login session for the sheetdesk spreadsheet service.
package main

import (
	"sheetdesk/cli/cmd"
)

// main is the entry point for the sheetdesk CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
