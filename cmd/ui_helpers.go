package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"sheetdesk/cli/internal/auth"
	"sheetdesk/cli/internal/backend"
	apperrors "sheetdesk/cli/internal/errors"
	"sheetdesk/cli/internal/httperrors"
	"sheetdesk/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The spinner runs in a separate goroutine and
// can be stopped by calling the returned function.
//
// The spinner hides the cursor while it runs and clears the line when stopped.
// Nothing is drawn when w is not a terminal.
//
// Parameters:
//   - w: The file to write the spinner to (typically os.Stderr)
//   - text: The text to display after the spinner animation
//   - frames: Array of strings representing animation frames (e.g., ["|", "/", "-", "\\"])
//   - interval: Time duration between frame updates
//
// Returns a function that stops the spinner and cleans up when called.
func startInlineSpinner(w *os.File, text string, frames []string, interval time.Duration) func() {
	if !term.IsTerminal(int(w.Fd())) {
		return func() {}
	}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	cursor.Hide()
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
		cursor.Show()
	}
}

// newPrompter reads answers from stdin and prints prompts to stderr.
func newPrompter() *terminal.Prompter {
	return terminal.NewPrompter(os.Stdin, os.Stderr)
}

// askUsername prompts for a username and removes the prompt afterwards.
func askUsername(p *terminal.Prompter) (string, error) {
	const prompt = "Username: "
	u, err := p.Line(prompt)
	if err != nil {
		return "", err
	}
	terminal.ClearPreviousLines(len(prompt) + len(u))
	return u, nil
}

// passwordFrom returns the flag value, then $SHEETDESK_PASSWORD, then prompts.
func passwordFrom(p *terminal.Prompter, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("SHEETDESK_PASSWORD"); v != "" {
		return v, nil
	}
	return p.Secret("Password: ")
}

// reportFailure shows a failed login or registration and returns errReported.
func reportFailure(w io.Writer, res auth.Result, context string) error {
	if apperrors.KindOf(res.Cause) == apperrors.Transport {
		_ = httperrors.FormatNetworkError(w, res.Cause, context, httperrors.ExtractHostFromURL(rt.Config.APIBaseURL))
		return errReported
	}
	pterm.Error.WithWriter(w).Println(res.Error)
	return errReported
}

// displayName prefers the username and falls back to the email.
func displayName(u *backend.User) string {
	if u == nil {
		return "user"
	}
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return "user"
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to edit some sheets?",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'sheetdesk login' to get started.")
}
