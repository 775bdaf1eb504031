package utils

import (
	"bytes"
	"io"
	"os"
	"unicode"

	"github.com/pkg/errors"
)

// stdinFilename is the name of the file that is used in many command
// line utilities to denote input is to be read from STDIN.
const stdinFilename = "-"

// stdin points to STDIN through os.Stdin.
var stdin = os.Stdin

// ReadFile reads the file identified by filename and returns its contents.
// If filename is "-", it reads from STDIN.
func ReadFile(filename string) (b []byte, err error) {
	if filename == stdinFilename {
		filename = "/dev/stdin"
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, errors.Wrapf(maybeUnwrap(err), "error reading %s", filename)
	}
	return b, nil
}

// ReadPasswordFromFile reads and returns the password from the given
// filename. Trailing whitespace, including new lines, is removed.
func ReadPasswordFromFile(filename string) ([]byte, error) {
	password, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRightFunc(password, unicode.IsSpace), nil
}

// WriteFile writes data to a file named by filename. If the file does not
// exist, WriteFile creates it with permissions perm (before umask);
// otherwise WriteFile truncates it before writing.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(filename, data, perm); err != nil {
		return errors.Wrapf(maybeUnwrap(err), "error writing %s", filename)
	}
	return nil
}

// maybeUnwrap strips the *os.PathError wrapping so the message does not
// repeat the filename.
func maybeUnwrap(err error) error {
	if wrapped := errors.Unwrap(err); wrapped != nil {
		return wrapped
	}
	return err
}
