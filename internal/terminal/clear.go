// Package terminal provides utilities for terminal operations such as clearing text
// and reading credentials without echo.
package terminal

import (
	"math"
	"os"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// ClearPreviousLines clears text from the terminal that was previously printed.
// It calculates how many lines were used by the provided text based on the current
// terminal width, then moves up and clears each line.
//
// This is used to remove the login prompts once they have been answered.
//
// Parameters:
//   - textLength: The total number of characters in the text to clear (prompt + user input)
//
// One extra line is cleared for the newline produced when the user presses Enter.
func ClearPreviousLines(textLength int) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	for i, n := 0, linesToClear(textLength, width()); i < n; i++ {
		cursor.ClearLine()
		if i < n-1 {
			cursor.Up(1)
		}
	}
	cursor.HorizontalAbsolute(0)
}

func width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80 // default fallback
}

func linesToClear(textLength, termWidth int) int {
	total := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if total < 1 {
		total = 1
	}
	return total + 1
}
