package evp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des" //nolint:gosec // legacy compatibility
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/internal/utils"
)

// ErrUnknownCipher is returned when a cipher name is not supported.
var ErrUnknownCipher = errors.New("unknown cipher")

// Mode is a block cipher mode of operation.
type Mode int

// Supported modes.
const (
	ModeCBC Mode = iota
	ModeCTR
	ModeCFB
	ModeOFB
)

// String returns the OpenSSL suffix of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCBC:
		return "CBC"
	case ModeCTR:
		return "CTR"
	case ModeCFB:
		return "CFB"
	case ModeOFB:
		return "OFB"
	default:
		return "unknown"
	}
}

// Cipher describes a symmetric cipher by its OpenSSL name.
type Cipher struct {
	Name      string
	KeyLen    int
	IVLen     int
	BlockSize int
	Mode      Mode
	newBlock  func(key []byte) (cipher.Block, error)
}

// ciphers holds the supported ciphers. Key and IV sizes are taken from the
// OpenSSL source.
var ciphers = map[string]*Cipher{}

// cipherAliases are the short names accepted by the openssl command line.
var cipherAliases = map[string]string{
	"AES128":   "AES-128-CBC",
	"AES192":   "AES-192-CBC",
	"AES256":   "AES-256-CBC",
	"DES":      "DES-CBC",
	"DES3":     "DES-EDE3-CBC",
	"DES-EDE3": "DES-EDE3-CBC",
}

func init() {
	for _, m := range []Mode{ModeCBC, ModeCTR, ModeCFB, ModeOFB} {
		for _, bits := range []int{128, 192, 256} {
			c := &Cipher{
				KeyLen:    bits / 8,
				IVLen:     aes.BlockSize,
				BlockSize: aes.BlockSize,
				Mode:      m,
				newBlock:  aes.NewCipher,
			}
			c.Name = "AES-" + strconv.Itoa(bits) + "-" + m.String()
			ciphers[c.Name] = c
		}
	}
	ciphers["DES-CBC"] = &Cipher{
		Name:      "DES-CBC",
		KeyLen:    8,
		IVLen:     des.BlockSize,
		BlockSize: des.BlockSize,
		Mode:      ModeCBC,
		newBlock:  des.NewCipher,
	}
	ciphers["DES-EDE3-CBC"] = &Cipher{
		Name:      "DES-EDE3-CBC",
		KeyLen:    24,
		IVLen:     des.BlockSize,
		BlockSize: des.BlockSize,
		Mode:      ModeCBC,
		newBlock:  des.NewTripleDESCipher,
	}
}

// LookupCipher returns the cipher with the given name. Names are case
// insensitive and the openssl aliases "aes256", "des3", ... are accepted.
func LookupCipher(name string) (*Cipher, error) {
	key := strings.ToUpper(name)
	if alias, ok := cipherAliases[key]; ok {
		key = alias
	}
	if c, ok := ciphers[key]; ok {
		return c, nil
	}
	return nil, errors.Wrapf(ErrUnknownCipher, "cipher %s", name)
}

// Ciphers returns the sorted names of the supported ciphers.
func Ciphers() []string {
	names := make([]string, 0, len(ciphers))
	for name := range ciphers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Padded reports whether the cipher uses PKCS#7 padding.
func (c *Cipher) Padded() bool {
	return c.Mode == ModeCBC
}

// Encrypt encrypts plaintext with the given key and iv. CBC ciphers pad the
// plaintext with PKCS#7 padding.
func (c *Cipher) Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := c.block(key, iv)
	if err != nil {
		return nil, err
	}

	if c.Padded() {
		padded := pad(plaintext, c.BlockSize)
		ciphertext := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
		return ciphertext, nil
	}

	ciphertext := make([]byte, len(plaintext))
	c.stream(block, iv, true).XORKeyStream(ciphertext, plaintext)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext with the given key and iv. It returns
// ErrDecryption if the length or the padding are not valid.
func (c *Cipher) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := c.block(key, iv)
	if err != nil {
		return nil, err
	}

	if c.Padded() {
		if len(ciphertext) == 0 || len(ciphertext)%c.BlockSize != 0 {
			return nil, errors.Wrap(ErrDecryption, "wrong final block length")
		}
		plaintext := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
		out := unpad(plaintext, c.BlockSize)
		if out == nil {
			return nil, ErrDecryption
		}
		return out, nil
	}

	plaintext := make([]byte, len(ciphertext))
	c.stream(block, iv, false).XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

func (c *Cipher) block(key, iv []byte) (cipher.Block, error) {
	if len(key) != c.KeyLen {
		return nil, errors.Errorf("invalid key length %d for %s", len(key), c.Name)
	}
	if len(iv) != c.IVLen {
		return nil, errors.Errorf("invalid iv length %d for %s", len(iv), c.Name)
	}
	block, err := c.newBlock(key)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating %s cipher", c.Name)
	}
	return block, nil
}

//nolint:staticcheck // CFB and OFB are needed for compatibility
func (c *Cipher) stream(block cipher.Block, iv []byte, encrypt bool) cipher.Stream {
	switch c.Mode {
	case ModeCFB:
		if encrypt {
			return cipher.NewCFBEncrypter(block, iv)
		}
		return cipher.NewCFBDecrypter(block, iv)
	case ModeOFB:
		return cipher.NewOFB(block, iv)
	default:
		return cipher.NewCTR(block, iv)
	}
}

// pad appends PKCS#7 padding. A full block is added if the plaintext is
// already aligned.
func pad(plaintext []byte, blockSize int) []byte {
	n := blockSize - len(plaintext)%blockSize
	padLen := utils.MustUint8(n)
	out := make([]byte, len(plaintext), len(plaintext)+n)
	copy(out, plaintext)
	for i := 0; i < n; i++ {
		out = append(out, padLen)
	}
	return out
}

// unpad removes PKCS#7 padding, it returns nil if the padding is not valid.
func unpad(plaintext []byte, blockSize int) []byte {
	if len(plaintext) == 0 {
		return nil
	}
	padLen := int(plaintext[len(plaintext)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(plaintext) {
		return nil
	}
	for _, b := range plaintext[len(plaintext)-padLen:] {
		if int(b) != padLen {
			return nil
		}
	}
	return plaintext[:len(plaintext)-padLen]
}
