// Package evp implements the legacy OpenSSL password based key derivation,
// EVP_BytesToKey, and the formats built on top of it.
package evp

import (
	"github.com/pkg/errors"

	"go.step.sm/osslcompat/digest"
)

// SaltSize is the number of salt bytes used by BytesToKey. Longer salts are
// truncated.
const SaltSize = 8

var (
	// ErrShortSalt is returned when a salt has fewer than SaltSize bytes.
	ErrShortSalt = errors.New("salt must be at least 8 bytes")

	// ErrDecryption is returned when a ciphertext cannot be decrypted,
	// usually because of a wrong password.
	ErrDecryption = errors.New("bad decrypt")
)

// BytesToKey derives a key of keyLen bytes and an iv of ivLen bytes from
// data and salt, compatible with OpenSSL's EVP_BytesToKey:
//
//	D_1 = H^count(data || salt)
//	D_i = H^count(D_(i-1) || data || salt)
//
// The key is filled first with the bytes of D_1, D_2, ..., then the iv. Only
// the first 8 bytes of the salt are used. A nil salt is not hashed at all,
// and a nil data returns a zero key and iv without hashing.
//
// The digest md is reset before use and left reset on return. BytesToKey is
// not a modern key derivation function, it exists for compatibility.
func BytesToKey(keyLen, ivLen int, md *digest.Digest, salt, data []byte, count int) (key, iv []byte, err error) {
	switch {
	case keyLen < 0 || ivLen < 0:
		return nil, nil, errors.Errorf("invalid key length %d or iv length %d", keyLen, ivLen)
	case count < 1:
		return nil, nil, errors.Errorf("invalid iteration count %d", count)
	case salt != nil && len(salt) < SaltSize:
		return nil, nil, errors.Wrapf(ErrShortSalt, "salt has %d bytes", len(salt))
	}

	key = make([]byte, keyLen)
	iv = make([]byte, ivLen)
	if data == nil {
		return key, iv, nil
	}
	if md == nil {
		return nil, nil, errors.New("digest cannot be nil")
	}

	var block []byte
	nkey, niv := keyLen, ivLen
	for addmd := 0; ; addmd++ {
		md.Reset()
		if addmd > 0 {
			md.Update(block)
		}
		md.Update(data)
		if salt != nil {
			md.Update(salt[:SaltSize])
		}
		clear(block)
		block = md.Finish()

		for i := 1; i < count; i++ {
			md.Update(block)
			next := md.Finish()
			clear(block)
			block = next
		}

		i := 0
		for ; nkey > 0 && i < len(block); i++ {
			key[keyLen-nkey] = block[i]
			nkey--
		}
		for ; niv > 0 && i < len(block); i++ {
			iv[ivLen-niv] = block[i]
			niv--
		}
		if nkey == 0 && niv == 0 {
			break
		}
	}
	clear(block)

	return key, iv, nil
}

// PKCS5KeyIVGen derives the key and iv for the cipher c from a password the
// way OpenSSL's Cipher#pkcs5_keyivgen does. The salt must be nil or exactly
// 8 bytes. If iterations is 0, 2048 is used; if md is empty, MD5 is used.
func PKCS5KeyIVGen(c *Cipher, pass, salt []byte, iterations int, md string) (key, iv []byte, err error) {
	if c == nil {
		return nil, nil, errors.New("cipher cannot be nil")
	}
	if salt != nil && len(salt) != SaltSize {
		return nil, nil, errors.Errorf("salt must be an 8-octet string, got %d bytes", len(salt))
	}
	if iterations == 0 {
		iterations = 2048
	}
	if md == "" {
		md = "MD5"
	}
	d, err := digest.New(md)
	if err != nil {
		return nil, nil, err
	}
	if pass == nil {
		pass = []byte{}
	}
	return BytesToKey(c.KeyLen, c.IVLen, d, salt, pass, iterations)
}
