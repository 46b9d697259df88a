// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Command reef is the bash-passthrough/translator engine's CLI
// (spec §6): `detect`, `translate`, `bash-exec`, and `daemon`.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	color.NoColor = !term.IsTerminal(int(os.Stderr.Fd()))

	root := newRootCmd()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		if ec, ok := err.(exitCoder); ok {
			if msg := ec.Error(); msg != "" {
				color.New(color.FgRed).Fprintln(os.Stderr, msg)
			}
			os.Exit(ec.ExitCode())
		}
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// exitCoder lets a subcommand's RunE carry a specific process exit
// code (spec §7's taxonomy — 1, 2, 127, or a propagated subprocess
// code) through cobra's plain error return.
type exitCoder interface {
	error
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }
func (e *exitError) Unwrap() error { return e.err }

func exitErrorf(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}
