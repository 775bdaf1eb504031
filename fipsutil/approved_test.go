package fipsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestApproved(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"SHA-256", true},
		{"sha-256", true},
		{"SHA", true},
		{"SHA3-512", true},
		{"MD5", false},
		{"MD4", false},
		{"RIPEMD160", false},
		{"BLAKE2B-512", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DigestApproved(tt.name))
		})
	}
}

func TestOnly(t *testing.T) {
	// Only implies Enabled.
	if Only() {
		assert.True(t, Enabled())
	}
}

func Test_godebugOnly(t *testing.T) {
	tests := []struct {
		godebug string
		want    bool
	}{
		{"", false},
		{"fips140=only", true},
		{"fips140=on", false},
		{"x509sha1=1,fips140=only", true},
		{"fips140=only,fips140=on", false},
		{"fips140=on,fips140=only", true},
		{"fips140=only, x509sha1=1", true},
		{"fips140", false},
	}
	for _, tt := range tests {
		t.Run(tt.godebug, func(t *testing.T) {
			assert.Equal(t, tt.want, godebugOnly(tt.godebug))
		})
	}
}
