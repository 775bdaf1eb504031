// Package pemutil turns the inputs accepted by the OpenSSL compatibility
// layer into DER. Inputs may be PEM armored, raw DER, a stream or a value
// that knows how to encode itself.
package pemutil

import (
	"bytes"
	"encoding/pem"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/internal/utils"
)

// ErrEmptyStream is returned when a stream input yields no data at all.
var ErrEmptyStream = errors.New("empty stream")

// Input is either an open stream or an in-memory buffer. A stream input is
// consumed by the first call to Normalize.
type Input struct {
	r   io.Reader
	buf []byte
}

// InputFromReader returns an input that reads r until EOF.
func InputFromReader(r io.Reader) Input {
	return Input{r: r}
}

// InputFromBytes returns an input backed by b.
func InputFromBytes(b []byte) Input {
	return Input{buf: b}
}

// InputFromString returns an input backed by s.
func InputFromString(s string) Input {
	return Input{buf: []byte(s)}
}

// InputFromValue returns an input for v. Readers become stream inputs, any
// other value is projected to DER first using ToDER.
func InputFromValue(v any) (Input, error) {
	if r, ok := v.(io.Reader); ok {
		return InputFromReader(r), nil
	}
	b, err := ToDER(v)
	if err != nil {
		return Input{}, err
	}
	return InputFromBytes(b), nil
}

// IsStream reports whether the input is backed by a stream.
func (in Input) IsStream() bool {
	return in.r != nil
}

func (in Input) bytes() ([]byte, error) {
	if in.r == nil {
		return in.buf, nil
	}
	b, err := io.ReadAll(in.r)
	if err != nil {
		return nil, errors.Wrap(err, "error reading input")
	}
	if len(b) == 0 {
		return nil, ErrEmptyStream
	}
	return b, nil
}

// Normalize returns the DER bytes of the input. If the input contains a PEM
// block, the contents of the first one are returned. Otherwise the input is
// assumed to be DER and it is returned unchanged. A PEM decoding failure is
// never an error, the only errors come from reading a stream.
func Normalize(in Input) ([]byte, error) {
	b, err := in.bytes()
	if err != nil {
		return nil, err
	}
	return decodeOrRaw(b), nil
}

// NormalizeFile reads filename, or STDIN if filename is "-", and normalizes
// its contents. An empty file returns ErrEmptyStream.
func NormalizeFile(filename string) ([]byte, error) {
	b, err := utils.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Normalize(InputFromReader(bytes.NewReader(b)))
}

// PasswordPrompter returns the password used to decrypt a PEM block. The
// message describes the block.
type PasswordPrompter func(msg string) ([]byte, error)

// NormalizeDecrypt is like Normalize, but if the first PEM block is
// encrypted according to RFC 1423 it asks fn for the password and returns
// the decrypted contents.
func NormalizeDecrypt(in Input, fn PasswordPrompter) ([]byte, error) {
	b, err := in.bytes()
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return b, nil
	}
	if !IsEncryptedPEMBlock(block) {
		return block.Bytes, nil
	}
	if fn == nil {
		return nil, errors.Errorf("%s is encrypted and no password was provided", block.Type)
	}
	password, err := fn(fmt.Sprintf("Enter pass phrase for %s:", block.Type))
	if err != nil {
		return nil, err
	}
	return DecryptPEMBlock(block, password)
}

func decodeOrRaw(b []byte) []byte {
	if block, _ := pem.Decode(b); block != nil {
		return block.Bytes
	}
	return b
}
