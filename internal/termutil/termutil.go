// Copyright 2021 The age Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package termutil reads passphrases from the terminal without echo.
package termutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrPasswordMismatch is returned by ReadPasswordConfirm when both entries
// differ.
var ErrPasswordMismatch = errors.New("verify failure: passwords do not match")

// clearLine clears the current line on the terminal, or opens a new line if
// terminal escape codes don't work.
func clearLine(out io.Writer) {
	const (
		CUI = "\033["   // Control Sequence Introducer
		CPL = CUI + "F" // Cursor Previous Line
		EL  = CUI + "K" // Erase in Line
	)

	// CRLF instead of LF, WSL2 does not go back to the start of the line on
	// a plain LF when running Windows binaries.
	fmt.Fprintf(out, "\r\n"+CPL+EL)
}

// withTerminal runs f with the terminal input and output files, if available.
// A non-terminal stdin is never used, so stdin stays free for data.
func withTerminal(f func(in, out *os.File) error) error {
	if runtime.GOOS == "windows" {
		in, err := os.OpenFile("CONIN$", os.O_RDWR, 0)
		if err != nil {
			return errors.Wrap(err, "error opening console")
		}
		defer in.Close()
		out, err := os.OpenFile("CONOUT$", os.O_WRONLY, 0)
		if err != nil {
			return errors.Wrap(err, "error opening console")
		}
		defer out.Close()
		return f(in, out)
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err == nil {
		defer tty.Close()
		return f(tty, tty)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return f(os.Stdin, os.Stdin)
	}
	return errors.Wrap(err, "standard input is not a terminal, and /dev/tty is not available")
}

func prompt(in, out *os.File, msg string) ([]byte, error) {
	fmt.Fprintf(out, "%s ", msg)
	defer clearLine(out)
	b, err := term.ReadPassword(int(in.Fd()))
	if err != nil {
		return nil, errors.Wrap(err, "error reading password")
	}
	return b, nil
}

// ReadPassword reads a value from the terminal with no echo. The prompt is
// ephemeral.
func ReadPassword(msg string) (password []byte, err error) {
	err = withTerminal(func(in, out *os.File) error {
		password, err = prompt(in, out, msg)
		return err
	})
	return
}

// ReadPasswordConfirm reads a value twice, like `openssl enc` does before
// encrypting, and returns ErrPasswordMismatch if they differ.
func ReadPasswordConfirm(msg string) (password []byte, err error) {
	err = withTerminal(func(in, out *os.File) error {
		if password, err = prompt(in, out, msg); err != nil {
			return err
		}
		confirm, err := prompt(in, out, "Verifying - "+msg)
		if err != nil {
			return err
		}
		if !bytes.Equal(password, confirm) {
			password = nil
			return ErrPasswordMismatch
		}
		return nil
	})
	return
}
