package digest

import (
	"encoding/asn1"
	"strings"
)

// Digest algorithm identifiers, RFC 3279, RFC 5758 and NIST CSOR.
var (
	oidMD4       = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 4}
	oidMD5       = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 5}
	oidSHA1      = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}
	oidSHA224    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 4}
	oidSHA256    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
	oidSHA384    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2}
	oidSHA512    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}
	oidRIPEMD160 = asn1.ObjectIdentifier{1, 3, 36, 3, 2, 1}
	oidSHA3_256  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 8}
	oidSHA3_384  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 9}
	oidSHA3_512  = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 10}
)

var digestOIDs = map[string]asn1.ObjectIdentifier{
	"MD4":       oidMD4,
	"MD5":       oidMD5,
	"SHA":       oidSHA1,
	"SHA-1":     oidSHA1,
	"SHA-224":   oidSHA224,
	"SHA-256":   oidSHA256,
	"SHA-384":   oidSHA384,
	"SHA-512":   oidSHA512,
	"RIPEMD160": oidRIPEMD160,
	"SHA3-256":  oidSHA3_256,
	"SHA3-384":  oidSHA3_384,
	"SHA3-512":  oidSHA3_512,
}

// OID returns the algorithm identifier of a canonical digest name.
func OID(name string) (asn1.ObjectIdentifier, bool) {
	oid, ok := digestOIDs[strings.ToUpper(name)]
	return oid, ok
}
