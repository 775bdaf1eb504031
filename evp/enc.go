package evp

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/randutil"
)

// saltedMagic is the header written by `openssl enc` before the salt.
const saltedMagic = "Salted__"

// Defaults used by `openssl enc` since OpenSSL 1.1.0.
const (
	DefaultDigest           = "SHA-256"
	DefaultPBKDF2Iterations = 10000
)

type options struct {
	digest     string
	iterations int
	pbkdf2     bool
	salt       []byte
	noSalt     bool
}

// Option configures Encrypt and Decrypt.
type Option func(o *options) error

// WithDigest sets the digest used to derive the key, SHA-256 by default. Use
// "MD5" for files created by OpenSSL < 1.1.0.
func WithDigest(label string) Option {
	return func(o *options) error {
		if !digest.IsSupported(label) {
			return &digest.UnsupportedAlgorithmError{Label: label, Name: digest.Canonicalize(label)}
		}
		o.digest = label
		return nil
	}
}

// WithIterations sets the iteration count of the key derivation, 1 by
// default for EVP_BytesToKey and 10000 for PBKDF2.
func WithIterations(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.Errorf("invalid iteration count %d", n)
		}
		o.iterations = n
		return nil
	}
}

// WithPBKDF2 derives the key and iv with PBKDF2 instead of EVP_BytesToKey,
// like `openssl enc -pbkdf2`.
func WithPBKDF2() Option {
	return func(o *options) error {
		o.pbkdf2 = true
		return nil
	}
}

// WithSalt sets the salt used by Encrypt instead of a random one.
func WithSalt(salt []byte) Option {
	return func(o *options) error {
		if len(salt) != SaltSize {
			return errors.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
		}
		o.salt = salt
		return nil
	}
}

// WithNoSalt disables the salt and the "Salted__" header, like
// `openssl enc -nosalt`.
func WithNoSalt() Option {
	return func(o *options) error {
		o.noSalt = true
		return nil
	}
}

func newOptions(opts []Option) (*options, error) {
	o := &options{digest: DefaultDigest}
	for _, fn := range opts {
		if err := fn(o); err != nil {
			return nil, err
		}
	}
	if o.iterations == 0 {
		o.iterations = 1
		if o.pbkdf2 {
			o.iterations = DefaultPBKDF2Iterations
		}
	}
	return o, nil
}

// deriveKey derives the key and iv of c. A nil password is an empty one, it
// must not take the no data path of BytesToKey.
func (o *options) deriveKey(c *Cipher, password, salt []byte) (key, iv []byte, err error) {
	md, err := digest.New(o.digest)
	if err != nil {
		return nil, nil, err
	}
	if password == nil {
		password = []byte{}
	}
	if o.pbkdf2 {
		b := pbkdf2.Key(password, salt, o.iterations, c.KeyLen+c.IVLen, md.New)
		return b[:c.KeyLen], b[c.KeyLen:], nil
	}
	return BytesToKey(c.KeyLen, c.IVLen, md, salt, password, o.iterations)
}

// Encrypt encrypts plaintext in the format written by `openssl enc`:
//
//	"Salted__" || salt || ciphertext
//
// The salt is random unless WithSalt is used, and it is omitted together with
// the header if WithNoSalt is used.
func Encrypt(cipherName string, password, plaintext []byte, opts ...Option) ([]byte, error) {
	c, err := LookupCipher(cipherName)
	if err != nil {
		return nil, err
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	var salt []byte
	if !o.noSalt {
		salt = o.salt
		if salt == nil {
			salt = randutil.Salt(SaltSize)
		}
	}

	key, iv, err := o.deriveKey(c, password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	ciphertext, err := c.Encrypt(key, iv, plaintext)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		return ciphertext, nil
	}

	out := make([]byte, 0, len(saltedMagic)+SaltSize+len(ciphertext))
	out = append(out, saltedMagic...)
	out = append(out, salt...)
	return append(out, ciphertext...), nil
}

// Decrypt decrypts data written by `openssl enc` or Encrypt. The same
// options used to encrypt must be used, except WithSalt as the salt is read
// from the header.
func Decrypt(cipherName string, password, data []byte, opts ...Option) ([]byte, error) {
	c, err := LookupCipher(cipherName)
	if err != nil {
		return nil, err
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	var salt []byte
	ciphertext := data
	if !o.noSalt {
		if len(data) < len(saltedMagic)+SaltSize || !bytes.HasPrefix(data, []byte(saltedMagic)) {
			return nil, errors.New("bad magic number")
		}
		salt = data[len(saltedMagic) : len(saltedMagic)+SaltSize]
		ciphertext = data[len(saltedMagic)+SaltSize:]
	}

	key, iv, err := o.deriveKey(c, password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	return c.Decrypt(key, iv, ciphertext)
}
