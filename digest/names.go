package digest

import (
	"strings"

	"github.com/pkg/errors"
)

// namespaceSeparator separates the segments of a namespaced algorithm label,
// e.g. "OpenSSL::Digest::SHA256".
const namespaceSeparator = "::"

// blockLengths is the legacy block length table. It only knows about the
// digests that the original HMAC code paths supported, and it must not be
// extended: callers rely on BlockLength failing for everything else.
var blockLengths = map[string]int{
	"SHA":     64,
	"SHA-1":   64,
	"MD5":     64,
	"SHA-256": 64,
	"SHA-384": 128,
	"SHA-512": 128,
}

// Canonicalize converts an algorithm label into the name used by the engine
// registry. Only the last segment of a namespaced label is used.
//
//	Canonicalize("SHA256")                == "SHA-256"
//	Canonicalize("OpenSSL::Digest::SHA1") == "SHA-1"
//	Canonicalize("DSS")                   == "SHA"
//	Canonicalize("DSS1")                  == "SHA-1"
//	Canonicalize("RIPEMD160")             == "RIPEMD160"
//
// Canonicalize never fails; the result is only validated when it is resolved
// with New.
func Canonicalize(label string) string {
	name := label
	if i := strings.LastIndex(name, namespaceSeparator); i >= 0 {
		name = name[i+len(namespaceSeparator):]
	}

	switch {
	case strings.EqualFold(name, "DSS"):
		return "SHA"
	case strings.EqualFold(name, "DSS1"):
		return "SHA-1"
	case len(name) > 3 && strings.EqualFold(name[:3], "SHA") && name[3] != '-':
		return name[:3] + "-" + name[3:]
	default:
		return name
	}
}

// BlockLength returns the compression block length in bytes of the given
// canonical digest name as defined by the legacy table. Digests outside the
// table, even if New can resolve them, return ErrBlockLengthUnavailable.
func BlockLength(name string) (int, error) {
	if n, ok := blockLengths[strings.ToUpper(name)]; ok {
		return n, nil
	}
	return 0, errors.Wrapf(ErrBlockLengthUnavailable, "digest %s", name)
}
