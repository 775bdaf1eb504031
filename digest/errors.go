package digest

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedAlgorithm is the error matched by errors.Is when a label
	// cannot be resolved to a hashing engine.
	ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

	// ErrBlockLengthUnavailable is returned by BlockLength for digests that
	// are not in the legacy block length table.
	ErrBlockLengthUnavailable = errors.New("block length not available")

	// ErrCloneFailure is returned when the state of a running digest cannot
	// be duplicated.
	ErrCloneFailure = errors.New("digest state cannot be cloned")
)

// UnsupportedAlgorithmError is returned when a label does not resolve to a
// registered hashing engine. Label is the value given by the caller, before
// canonicalization.
type UnsupportedAlgorithmError struct {
	Label string
	Name  string
}

func (e *UnsupportedAlgorithmError) Error() string {
	if e.Label == e.Name {
		return fmt.Sprintf("unsupported digest algorithm %q", e.Label)
	}
	return fmt.Sprintf("unsupported digest algorithm %q (%s)", e.Label, e.Name)
}

// Is reports whether target is ErrUnsupportedAlgorithm.
func (e *UnsupportedAlgorithmError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}
