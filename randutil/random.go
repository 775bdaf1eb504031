// Package randutil provides the random salts and initialization vectors used
// by the legacy key derivation and encryption formats.
package randutil

import (
	"crypto/rand"
	"io"
)

// Reader is the source of randomness, crypto/rand.Reader by default.
var Reader io.Reader = rand.Reader

// Salt returns a random salt of the given size. OpenSSL salts are 8 bytes.
func Salt(size int) []byte {
	return Bytes(size)
}

// Bytes returns size random bytes. It panics if Reader fails, which never
// happens with crypto/rand.
func Bytes(size int) []byte {
	b := make([]byte, size)
	if _, err := io.ReadFull(Reader, b); err != nil {
		panic(err)
	}
	return b
}
