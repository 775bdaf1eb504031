// Package fipsutil decides which legacy digest names stay usable when the
// program runs in FIPS 140-3 mode.
//
// The digest registry asks Only before resolving a name. When it reports
// true, names whose canonical form is not approved by DigestApproved, such
// as "MD5" or "RIPEMD160", resolve to nothing and fail with the same error
// as an unknown algorithm. In "on" mode, or outside FIPS mode, every
// registered digest stays available.
package fipsutil

import (
	"crypto/fips140"
	"os"
	"strings"
	"sync"
)

// Enabled reports whether the Go cryptography libraries run in FIPS 140-3
// mode, set with GODEBUG=fips140=on or fips140=only at startup.
func Enabled() bool {
	return fips140.Enabled()
}

var onlyMode = sync.OnceValue(func() bool {
	return fips140.Enabled() && godebugOnly(os.Getenv("GODEBUG"))
})

// Only reports whether the process runs with GODEBUG=fips140=only. In that
// mode the digest registry hides digests that are not approved.
func Only() bool {
	return onlyMode()
}

// godebugOnly reports whether the last fips140 setting in the comma separated
// GODEBUG value is "only".
func godebugOnly(godebug string) bool {
	settings := strings.Split(godebug, ",")
	for i := len(settings) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(strings.TrimSpace(settings[i]), "=")
		if ok && k == "fips140" {
			return v == "only"
		}
	}
	return false
}
