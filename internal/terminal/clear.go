// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides small terminal manipulation helpers.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ClearPromptLines removes an interactive prompt from the screen after
// the user submitted it. textLength is the prompt plus the typed input;
// wrapping is derived from the current terminal width.
func ClearPromptLines(textLength int) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	lines := (textLength + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	// Enter left the cursor on a fresh line below the input.
	lines++

	for i := 0; i < lines; i++ {
		fmt.Print("\r\x1b[2K")
		if i < lines-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
