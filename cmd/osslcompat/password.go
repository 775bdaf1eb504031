package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/internal/termutil"
	"go.step.sm/osslcompat/internal/utils"
)

// readPasswordArg resolves a password argument using the openssl syntax:
//
//	pass:<password>  the password itself
//	env:<var>        the value of an environment variable
//	file:<path>      the contents of a file without trailing spaces, "-" for STDIN
//
// An empty argument prompts for the password on the terminal, twice if
// confirm is set.
func readPasswordArg(arg, prompt string, confirm bool) ([]byte, error) {
	if arg == "" {
		if confirm {
			return termutil.ReadPasswordConfirm(prompt)
		}
		return termutil.ReadPassword(prompt)
	}

	kind, value, ok := strings.Cut(arg, ":")
	if !ok {
		return nil, errors.Errorf("invalid password argument %q", arg)
	}
	switch kind {
	case "pass":
		return []byte(value), nil
	case "env":
		v, ok := os.LookupEnv(value)
		if !ok {
			return nil, errors.Errorf("environment variable %s is not set", value)
		}
		return []byte(v), nil
	case "file":
		return utils.ReadPasswordFromFile(value)
	default:
		return nil, errors.Errorf("invalid password argument %q", arg)
	}
}
