// Package fingerprint computes the fingerprints printed by
// `openssl x509 -fingerprint` using the legacy digest names.
package fingerprint

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/digest"
)

// Encoding defines the way to encode the digest.
type Encoding int

const (
	// HexFingerprint represents upper case hex bytes separated by colons,
	// the OpenSSL format.
	HexFingerprint Encoding = iota + 1
	// HexRawFingerprint represents lower case hex without separators.
	HexRawFingerprint
	// Base64Fingerprint represents the base64 encoding of the fingerprint.
	Base64Fingerprint
	// Base64URLFingerprint represents the base64URL encoding of the fingerprint.
	Base64URLFingerprint
	// Base64RawFingerprint represents the base64RawStd encoding of the fingerprint.
	Base64RawFingerprint
	// Base64RawURLFingerprint represents the base64RawURL encoding of the fingerprint.
	Base64RawURLFingerprint
)

// ParseEncoding returns the encoding with the given name: hex, hex-raw,
// base64, base64-url, base64-raw or base64-raw-url.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "hex", "":
		return HexFingerprint, nil
	case "hex-raw":
		return HexRawFingerprint, nil
	case "base64":
		return Base64Fingerprint, nil
	case "base64-url":
		return Base64URLFingerprint, nil
	case "base64-raw":
		return Base64RawFingerprint, nil
	case "base64-raw-url":
		return Base64RawURLFingerprint, nil
	default:
		return 0, errors.Errorf("unsupported fingerprint encoding %q", name)
	}
}

// New returns the fingerprint of data hashed with the digest label, e.g.
// "SHA1" or "Digest::SHA256".
func New(data []byte, label string, encoding Encoding) (string, error) {
	sum, err := digest.Sum(label, data)
	if err != nil {
		return "", err
	}
	fp := Fingerprint(sum, encoding)
	if fp == "" {
		return "", errors.Errorf("unknown fingerprint encoding %d", encoding)
	}
	return fp, nil
}

// Fingerprint encodes the given digest using the encoding. It returns an
// empty string for unknown encodings.
func Fingerprint(sum []byte, encoding Encoding) string {
	switch encoding {
	case HexFingerprint:
		return colonHex(sum)
	case HexRawFingerprint:
		return hex.EncodeToString(sum)
	case Base64Fingerprint:
		return base64.StdEncoding.EncodeToString(sum)
	case Base64URLFingerprint:
		return base64.URLEncoding.EncodeToString(sum)
	case Base64RawFingerprint:
		return base64.RawStdEncoding.EncodeToString(sum)
	case Base64RawURLFingerprint:
		return base64.RawURLEncoding.EncodeToString(sum)
	default:
		return ""
	}
}

func colonHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s := strings.ToUpper(hex.EncodeToString(b))
	var sb strings.Builder
	sb.Grow(len(s) + len(b) - 1)
	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(s[i : i+2])
	}
	return sb.String()
}
