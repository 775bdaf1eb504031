package pemutil

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"io"
	"strings"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/evp"
)

// rfc1423Algos are the ciphers accepted in a DEK-Info header, the same set
// written by `openssl rsa -des3`, `-aes256`, etc.
var rfc1423Algos = []string{
	"DES-CBC",
	"DES-EDE3-CBC",
	"AES-128-CBC",
	"AES-192-CBC",
	"AES-256-CBC",
}

func rfc1423Cipher(name string) (*evp.Cipher, error) {
	c, err := evp.LookupCipher(name)
	if err != nil {
		return nil, err
	}
	for _, alg := range rfc1423Algos {
		if c.Name == alg {
			return c, nil
		}
	}
	return nil, errors.Wrapf(evp.ErrUnknownCipher, "cipher %s cannot be used in PEM blocks", name)
}

// rfc1423Key derives the key as OpenSSL's PEM_do_header does, using MD5, one
// iteration and the first 8 bytes of the iv as the salt. A nil password is
// hashed as an empty one.
func rfc1423Key(c *evp.Cipher, password, iv []byte) ([]byte, error) {
	md, err := digest.NewCanonical("MD5")
	if err != nil {
		return nil, err
	}
	if password == nil {
		password = []byte{}
	}
	key, _, err := evp.BytesToKey(c.KeyLen, 0, md, iv[:evp.SaltSize], password, 1)
	return key, err
}

// IsEncryptedPEMBlock returns whether the PEM block is password encrypted
// according to RFC 1423.
func IsEncryptedPEMBlock(b *pem.Block) bool {
	_, ok := b.Headers["DEK-Info"]
	return ok
}

// DecryptPEMBlock takes a PEM block encrypted according to RFC 1423 and the
// password used to encrypt it and returns a slice of decrypted DER encoded
// bytes. It returns x509.IncorrectPasswordError if the padding is not valid,
// which usually means the password is wrong.
func DecryptPEMBlock(b *pem.Block, password []byte) ([]byte, error) {
	dek, ok := b.Headers["DEK-Info"]
	if !ok {
		return nil, errors.New("no DEK-Info header in block")
	}

	mode, hexIV, ok := strings.Cut(dek, ",")
	if !ok {
		return nil, errors.New("malformed DEK-Info header")
	}
	c, err := rfc1423Cipher(mode)
	if err != nil {
		return nil, err
	}
	iv, err := hex.DecodeString(strings.TrimSpace(hexIV))
	if err != nil {
		return nil, errors.Wrap(err, "error decoding DEK-Info iv")
	}
	if len(iv) != c.IVLen {
		return nil, errors.New("incorrect iv size")
	}

	key, err := rfc1423Key(c, password, iv)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	data, err := c.Decrypt(key, iv, b.Bytes)
	if err != nil {
		if errors.Is(err, evp.ErrDecryption) {
			return nil, x509.IncorrectPasswordError
		}
		return nil, err
	}
	return data, nil
}

// EncryptPEMBlock returns a PEM block of the specified type holding the
// given DER encoded data encrypted with the specified cipher and password
// according to RFC 1423. The iv is read from rand.
func EncryptPEMBlock(rand io.Reader, blockType string, data, password []byte, cipherName string) (*pem.Block, error) {
	c, err := rfc1423Cipher(cipherName)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, c.IVLen)
	if _, err := io.ReadFull(rand, iv); err != nil {
		return nil, errors.Wrap(err, "cannot generate iv")
	}

	key, err := rfc1423Key(c, password, iv)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	encrypted, err := c.Encrypt(key, iv, data)
	if err != nil {
		return nil, err
	}

	return &pem.Block{
		Type: blockType,
		Headers: map[string]string{
			"Proc-Type": "4,ENCRYPTED",
			"DEK-Info":  c.Name + "," + strings.ToUpper(hex.EncodeToString(iv)),
		},
		Bytes: encrypted,
	}, nil
}
