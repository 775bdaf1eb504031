package fipsutil

import "strings"

// approvedDigests are the digests allowed by FIPS 140-3, keyed by canonical
// name.
var approvedDigests = map[string]bool{
	"SHA":         true,
	"SHA-1":       true,
	"SHA-224":     true,
	"SHA-256":     true,
	"SHA-384":     true,
	"SHA-512":     true,
	"SHA-512/224": true,
	"SHA-512/256": true,
	"SHA3-224":    true,
	"SHA3-256":    true,
	"SHA3-384":    true,
	"SHA3-512":    true,
}

// DigestApproved reports whether the digest with the given canonical name is
// approved for use in FIPS 140-3 mode. MD4, MD5, RIPEMD160 and the BLAKE2
// family are not.
func DigestApproved(name string) bool {
	return approvedDigests[strings.ToUpper(name)]
}
