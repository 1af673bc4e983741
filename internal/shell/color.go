// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package shell

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type palette struct {
	reset, red, green, yellow, cyan, bold string
}

var (
	ansi = palette{
		reset:  "\033[0m",
		red:    "\033[31m",
		green:  "\033[32m",
		yellow: "\033[33m",
		cyan:   "\033[36m",
		bold:   "\033[1m",
	}
	plain palette
)

// ColorEnabled resolves a color mode ("auto", "always" or "never") for out.
// In auto mode only a terminal gets colors.
func ColorEnabled(mode string, out io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
