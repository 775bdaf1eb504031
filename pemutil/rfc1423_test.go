package pemutil

import (
	"bytes"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/evp"
)

func mustMD5(t *testing.T) *digest.Digest {
	t.Helper()
	md, err := digest.New("MD5")
	require.NoError(t, err)
	return md
}

//nolint:staticcheck // deprecated ciphers used only as a reference
var x509Ciphers = map[string]x509.PEMCipher{
	"DES-CBC":      x509.PEMCipherDES,
	"DES-EDE3-CBC": x509.PEMCipher3DES,
	"AES-128-CBC":  x509.PEMCipherAES128,
	"AES-192-CBC":  x509.PEMCipherAES192,
	"AES-256-CBC":  x509.PEMCipherAES256,
}

func TestEncryptDecryptPEMBlock(t *testing.T) {
	keys := mustGenerateKeys(t)
	data := mustPKCS8(t, keys.ecdsa)
	password := []byte("mypassword")

	for _, alg := range rfc1423Algos {
		t.Run(alg, func(t *testing.T) {
			block, err := EncryptPEMBlock(rand.Reader, "PRIVATE KEY", data, password, alg)
			require.NoError(t, err)
			assert.Equal(t, "PRIVATE KEY", block.Type)
			assert.Equal(t, "4,ENCRYPTED", block.Headers["Proc-Type"])
			assert.True(t, strings.HasPrefix(block.Headers["DEK-Info"], alg+","))
			assert.True(t, IsEncryptedPEMBlock(block))
			assert.NotEqual(t, data, block.Bytes)

			got, err := DecryptPEMBlock(block, password)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			// Survives a PEM round trip.
			p, _ := pem.Decode(pem.EncodeToMemory(block))
			require.NotNil(t, p)
			got, err = DecryptPEMBlock(p, password)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

//nolint:staticcheck // cross-check with the deprecated x509 implementation
func TestDecryptPEMBlock_x509(t *testing.T) {
	keys := mustGenerateKeys(t)
	data := mustPKCS8(t, keys.ed25519)
	password := []byte("mypassword")

	for _, alg := range rfc1423Algos {
		t.Run(alg, func(t *testing.T) {
			block, err := x509.EncryptPEMBlock(rand.Reader, "PRIVATE KEY", data, password, x509Ciphers[alg])
			require.NoError(t, err)
			got, err := DecryptPEMBlock(block, password)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			block, err = EncryptPEMBlock(rand.Reader, "PRIVATE KEY", data, password, alg)
			require.NoError(t, err)
			assert.True(t, x509.IsEncryptedPEMBlock(block))
			got, err = x509.DecryptPEMBlock(block, password)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

//nolint:staticcheck // cross-check with the deprecated x509 implementation
func TestDecryptPEMBlock_emptyPassword(t *testing.T) {
	data := []byte("some DER data")
	for _, password := range [][]byte{nil, {}} {
		block, err := x509.EncryptPEMBlock(rand.Reader, "TEST", data, password, x509.PEMCipherAES128)
		require.NoError(t, err)

		got, err := DecryptPEMBlock(block, nil)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		got, err = DecryptPEMBlock(block, []byte{})
		require.NoError(t, err)
		assert.Equal(t, data, got)

		block, err = EncryptPEMBlock(rand.Reader, "TEST", data, nil, "AES-128-CBC")
		require.NoError(t, err)
		got, err = x509.DecryptPEMBlock(block, password)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestEncryptPEMBlock_deterministic(t *testing.T) {
	iv := bytes.Repeat([]byte{0xab}, 16)
	data := []byte("some DER data")
	password := []byte("password")

	block, err := EncryptPEMBlock(bytes.NewReader(iv), "TEST", data, password, "aes-128-cbc")
	require.NoError(t, err)
	assert.Equal(t, "AES-128-CBC,ABABABABABABABABABABABABABABABAB", block.Headers["DEK-Info"])

	c, err := evp.LookupCipher("AES-128-CBC")
	require.NoError(t, err)
	key, _, err := evp.BytesToKey(16, 0, mustMD5(t), iv[:8], password, 1)
	require.NoError(t, err)
	want, err := c.Encrypt(key, iv, data)
	require.NoError(t, err)
	assert.Equal(t, want, block.Bytes)
}

func TestEncryptPEMBlock_errors(t *testing.T) {
	_, err := EncryptPEMBlock(rand.Reader, "TEST", []byte("data"), []byte("pass"), "AES-128-CTR")
	assert.ErrorIs(t, err, evp.ErrUnknownCipher)
	_, err = EncryptPEMBlock(rand.Reader, "TEST", []byte("data"), []byte("pass"), "RC2-CBC")
	assert.ErrorIs(t, err, evp.ErrUnknownCipher)
	_, err = EncryptPEMBlock(bytes.NewReader([]byte{1, 2, 3}), "TEST", []byte("data"), []byte("pass"), "AES-128-CBC")
	assert.Error(t, err)
}

func TestDecryptPEMBlock_errors(t *testing.T) {
	data := []byte("0123456789abcdef0123456789abcdef")
	block, err := EncryptPEMBlock(rand.Reader, "TEST", data, []byte("password"), "AES-256-CBC")
	require.NoError(t, err)
	validIV := strings.TrimPrefix(block.Headers["DEK-Info"], "AES-256-CBC,")

	withHeader := func(dek string) *pem.Block {
		return &pem.Block{Type: "TEST", Headers: map[string]string{"DEK-Info": dek}, Bytes: block.Bytes}
	}

	tests := []struct {
		name  string
		block *pem.Block
	}{
		{"no header", &pem.Block{Type: "TEST", Bytes: block.Bytes}},
		{"no comma", withHeader("AES-256-CBC")},
		{"unknown cipher", withHeader("AES-256-GCM," + validIV)},
		{"bad hex", withHeader("AES-256-CBC,zz")},
		{"short iv", withHeader("AES-256-CBC,0011")},
		{"bad length", &pem.Block{Type: "TEST", Headers: block.Headers, Bytes: block.Bytes[:20]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptPEMBlock(tt.block, []byte("password"))
			assert.Error(t, err)
		})
	}

	assert.False(t, IsEncryptedPEMBlock(&pem.Block{Type: "TEST"}))

	// A wrong password fails the padding check most of the time.
	got, err := DecryptPEMBlock(block, []byte("wrong"))
	if err != nil {
		assert.ErrorIs(t, err, x509.IncorrectPasswordError)
	} else {
		assert.NotEqual(t, data, got)
	}
}

func TestDecryptPEMBlock_lowercaseIV(t *testing.T) {
	data := []byte("data")
	block, err := EncryptPEMBlock(rand.Reader, "TEST", data, []byte("password"), "DES-EDE3-CBC")
	require.NoError(t, err)
	block.Headers["DEK-Info"] = strings.ToLower(block.Headers["DEK-Info"])

	got, err := DecryptPEMBlock(block, []byte("password"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	_, err = hex.DecodeString(strings.Split(block.Headers["DEK-Info"], ",")[1])
	assert.NoError(t, err)
}
