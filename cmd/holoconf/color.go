package main

import (
	"os"

	"golang.org/x/term"
)

// colorEnabled reports whether the validate command may use ANSI color for
// its pass/fail summary: stdout must be a terminal (checked the same way
// the teacher's ansi_video_renderer checks terminal dimensions via
// golang.org/x/term), and NO_COLOR must be unset (spec §6 "Environment
// variables honored: NO_COLOR disables ANSI").
func colorEnabled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

func colorize(s, code string) string {
	if !colorEnabled() {
		return s
	}

	return code + s + ansiReset
}
