package evp

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestEncryptDecrypt(t *testing.T) {
	password := []byte("password")
	plaintext := []byte("Lorem ipsum dolor sit amet, consectetur adipiscing elit.")
	salt := []byte("saltsalt")

	tests := []struct {
		name   string
		cipher string
		opts   []Option
		salted bool
	}{
		{"default", "aes-256-cbc", nil, true},
		{"md5", "aes-256-cbc", []Option{WithDigest("md5")}, true},
		{"sha1 iterations", "aes-128-cbc", []Option{WithDigest("sha1"), WithIterations(10)}, true},
		{"pbkdf2", "aes-256-cbc", []Option{WithPBKDF2()}, true},
		{"pbkdf2 iterations", "aes-192-ctr", []Option{WithPBKDF2(), WithIterations(100)}, true},
		{"fixed salt", "des3", []Option{WithSalt(salt)}, true},
		{"no salt", "aes-128-ofb", []Option{WithNoSalt()}, false},
		{"no salt pbkdf2", "aes-256-cfb", []Option{WithNoSalt(), WithPBKDF2()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encrypt(tt.cipher, password, plaintext, tt.opts...)
			require.NoError(t, err)
			if tt.salted {
				assert.True(t, bytes.HasPrefix(data, []byte("Salted__")))
			} else {
				assert.False(t, bytes.HasPrefix(data, []byte("Salted__")))
			}

			got, err := Decrypt(tt.cipher, password, data, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestEncrypt_randomSalt(t *testing.T) {
	d1, err := Encrypt("aes-256-cbc", []byte("password"), []byte("data"))
	require.NoError(t, err)
	d2, err := Encrypt("aes-256-cbc", []byte("password"), []byte("data"))
	require.NoError(t, err)
	assert.NotEqual(t, d1[8:16], d2[8:16])
	assert.NotEqual(t, d1, d2)
}

func TestEncrypt_format(t *testing.T) {
	password := []byte("password")
	salt := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	plaintext := []byte("hello world\n")
	c, err := LookupCipher("AES-256-CBC")
	require.NoError(t, err)

	t.Run("bytestokey", func(t *testing.T) {
		key, iv, err := BytesToKey(32, 16, mustDigest(t, "MD5"), salt, password, 1)
		require.NoError(t, err)
		ciphertext, err := c.Encrypt(key, iv, plaintext)
		require.NoError(t, err)
		want := append(append([]byte("Salted__"), salt...), ciphertext...)

		got, err := Encrypt("aes-256-cbc", password, plaintext, WithSalt(salt), WithDigest("MD5"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("pbkdf2", func(t *testing.T) {
		b := pbkdf2.Key(password, salt, 10000, 48, sha256.New)
		ciphertext, err := c.Encrypt(b[:32], b[32:], plaintext)
		require.NoError(t, err)
		want := append(append([]byte("Salted__"), salt...), ciphertext...)

		got, err := Encrypt("aes-256-cbc", password, plaintext, WithSalt(salt), WithPBKDF2())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("nosalt", func(t *testing.T) {
		key, iv, err := BytesToKey(32, 16, mustDigest(t, "SHA256"), nil, password, 1)
		require.NoError(t, err)
		want, err := c.Encrypt(key, iv, plaintext)
		require.NoError(t, err)

		got, err := Encrypt("aes-256-cbc", password, plaintext, WithNoSalt())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestDecrypt_errors(t *testing.T) {
	data, err := Encrypt("aes-256-cbc", []byte("password"), []byte("secret message"))
	require.NoError(t, err)

	_, err = Decrypt("aes-256-cbc", []byte("password"), []byte("Salted_"))
	assert.Error(t, err)
	_, err = Decrypt("aes-256-cbc", []byte("password"), append([]byte("NotSalt!"), data[8:]...))
	assert.Error(t, err)
	_, err = Decrypt("aes-256-xts", []byte("password"), data)
	assert.True(t, errors.Is(err, ErrUnknownCipher))
	_, err = Decrypt("aes-256-cbc", []byte("password"), data[:len(data)-1])
	assert.True(t, errors.Is(err, ErrDecryption))

	// A wrong password usually fails the padding check, but it can produce a
	// valid padding by chance.
	got, err := Decrypt("aes-256-cbc", []byte("wrong"), data)
	if err != nil {
		assert.True(t, errors.Is(err, ErrDecryption))
	} else {
		assert.NotEqual(t, []byte("secret message"), got)
	}
}

func TestOptions_errors(t *testing.T) {
	_, err := Encrypt("aes-256-cbc", []byte("password"), []byte("data"), WithDigest("MD2"))
	assert.Error(t, err)
	_, err = Encrypt("aes-256-cbc", []byte("password"), []byte("data"), WithIterations(0))
	assert.Error(t, err)
	_, err = Encrypt("aes-256-cbc", []byte("password"), []byte("data"), WithSalt([]byte("short")))
	assert.Error(t, err)
	_, err = Decrypt("aes-256-cbc", []byte("password"), []byte("data"), WithIterations(-1))
	assert.Error(t, err)
}

// Outputs of `openssl enc -a` with a random salt unless -nosalt is given.
func TestDecrypt_openssl(t *testing.T) {
	plaintext := []byte("The quick brown fox jumps over the lazy dog")
	tests := []struct {
		name     string
		cipher   string
		password []byte
		opts     []Option
		data     string
	}{
		{"aes-256-cbc md5", "aes-256-cbc", []byte("password"), []Option{WithDigest("md5")},
			"U2FsdGVkX18F9WExyQ1HqbrMOKLWtZ6QGs+SxT7/ZnTkvHej8EvaaIOfbHRruhL4NuH+VeP+fyq0F9W2BLRymw=="},
		{"aes-256-cbc sha256", "aes-256-cbc", []byte("password"), nil,
			"U2FsdGVkX19VrqxfB3gZBQsRPJX0qrdEI0XN3dT3aRgE2rWvEfwUBPxcw/hTJnC6cbYq27PSdjjkwmvTwtSw3g=="},
		{"aes-256-cbc pbkdf2", "aes-256-cbc", []byte("password"), []Option{WithPBKDF2(), WithIterations(1000), WithDigest("sha256")},
			"U2FsdGVkX19T0zXdOGGCh/0agpNVbRlvcehq/jcsFcGlqHyH48hT3bv7a6VimHnho9h/Z2aLPOP44v7y1yhFnw=="},
		{"aes-128-ctr sha256", "aes-128-ctr", []byte("password"), []Option{WithDigest("sha256")},
			"U2FsdGVkX19l44DSm6r1ZYXLIii1PlOHhvC4OIcTZcUnbNtQStkThfUBMqO5zN2/Di7sNfNofioT6xA="},
		{"des-ede3-cbc md5", "des-ede3-cbc", []byte("password"), []Option{WithDigest("md5")},
			"U2FsdGVkX1+BuRG6lhZ3uIYhae1RzFTpSbM6skyZ5KiZyjHewdBkiWNlTcKkQr/MHt3CjFOLC0d5Uo+qqJOwLQ=="},
		{"aes-128-cbc nosalt", "aes-128-cbc", []byte("password"), []Option{WithDigest("md5"), WithNoSalt()},
			"RxOz2O1wN1cIdjFLh4pYn8bKHfal8+gt9OD4h2Y5XWYEdxQOT/Oxhb9ARpJcWc8L"},
		{"empty password", "aes-128-cbc", []byte{}, []Option{WithDigest("md5")},
			"U2FsdGVkX18JYdDH3YyhpLsAor7dXB7UP9TKcUG9gI1AbfiLpfydIuCbRwBtv9keocRQ2QI3m6dwTRWyrbXEDw=="},
		{"nil password", "aes-128-cbc", nil, []Option{WithDigest("md5")},
			"U2FsdGVkX18JYdDH3YyhpLsAor7dXB7UP9TKcUG9gI1AbfiLpfydIuCbRwBtv9keocRQ2QI3m6dwTRWyrbXEDw=="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := base64.StdEncoding.DecodeString(tt.data)
			require.NoError(t, err)
			got, err := Decrypt(tt.cipher, tt.password, data, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestEncrypt_nilPassword(t *testing.T) {
	salt := []byte("saltsalt")
	for _, opts := range [][]Option{
		{WithSalt(salt)},
		{WithSalt(salt), WithDigest("md5"), WithIterations(3)},
		{WithSalt(salt), WithPBKDF2()},
		{WithNoSalt()},
	} {
		withNil, err := Encrypt("aes-256-cbc", nil, []byte("data"), opts...)
		require.NoError(t, err)
		withEmpty, err := Encrypt("aes-256-cbc", []byte{}, []byte("data"), opts...)
		require.NoError(t, err)
		assert.Equal(t, withEmpty, withNil)

		// The key is derived from the empty password, not left as zeros.
		got, err := Decrypt("aes-256-cbc", []byte{}, withNil, opts...)
		require.NoError(t, err)
		assert.Equal(t, []byte("data"), got)
	}
}
