// Command statsdash shows the Pages report of a site tracked by a
// Plausible-compatible stats API, interactively on a terminal or as plain
// text when piped.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, stdio())
	stop()
	os.Exit(code)
}

func stdio() ioEnv {
	fd := int(os.Stdout.Fd())
	return ioEnv{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTTY:  func() bool { return term.IsTerminal(fd) },
		width: func() int {
			w, _, err := term.GetSize(fd)
			if err != nil || w <= 0 {
				return defaultWidth
			}
			return w
		},
	}
}
