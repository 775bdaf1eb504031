// Package digest implements the digest side of the OpenSSL compatibility
// layer: the legacy algorithm name rules, the legacy block length table and
// a running digest bound to a canonical name.
package digest

import (
	"encoding"
	"encoding/hex"
	"hash"

	"github.com/pkg/errors"
)

// Digest is a running digest bound to a canonical algorithm name. Finish
// returns the digest of the data written so far and resets the state, the
// bound name is kept.
//
// A Digest is not safe for concurrent use.
type Digest struct {
	name    string
	factory Factory
	h       hash.Hash
}

// New canonicalizes the label and returns a new running digest for it. If
// the canonical name is not registered it returns an
// *UnsupportedAlgorithmError with the original label.
func New(label string) (*Digest, error) {
	name := Canonicalize(label)
	e, ok := lookup(name)
	if !ok {
		return nil, &UnsupportedAlgorithmError{Label: label, Name: name}
	}
	return &Digest{name: e.name, factory: e.new, h: e.new()}, nil
}

// NewCanonical returns a running digest for a name already in registry form
// (e.g. "SHA3-256"), skipping the legacy name rules.
func NewCanonical(name string) (*Digest, error) {
	e, ok := lookup(name)
	if !ok {
		return nil, &UnsupportedAlgorithmError{Label: name, Name: name}
	}
	return &Digest{name: e.name, factory: e.new, h: e.new()}, nil
}

// Name returns the canonical name of the digest.
func (d *Digest) Name() string {
	return d.name
}

// Size returns the digest length in bytes.
func (d *Digest) Size() int {
	return d.h.Size()
}

// BlockSize returns the block size of the underlying engine. Use BlockLength
// for the legacy table.
func (d *Digest) BlockSize() int {
	return d.h.BlockSize()
}

// Update adds p to the running digest.
func (d *Digest) Update(p []byte) {
	d.h.Write(p)
}

// Write implements io.Writer. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Reset discards the accumulated state.
func (d *Digest) Reset() {
	d.h.Reset()
}

// Finish returns the digest of the accumulated data and resets the state.
func (d *Digest) Finish() []byte {
	sum := d.h.Sum(nil)
	d.h.Reset()
	return sum
}

// Sum appends the current digest to b without changing the state.
func (d *Digest) Sum(b []byte) []byte {
	return d.h.Sum(b)
}

// Hash returns the underlying hash.Hash. Writes to it update the digest.
func (d *Digest) Hash() hash.Hash {
	return d.h
}

// New returns a new hash.Hash of the same algorithm in its initial state.
func (d *Digest) New() hash.Hash {
	return d.factory()
}

// Clone returns an independent copy of the digest with the same name and
// accumulated state. Engines that cannot export their state return
// ErrCloneFailure.
func (d *Digest) Clone() (*Digest, error) {
	m, ok := d.h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, errors.Wrapf(ErrCloneFailure, "digest %s", d.name)
	}
	state, err := m.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(ErrCloneFailure, "digest %s: %v", d.name, err)
	}
	h := d.factory()
	u, ok := h.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, errors.Wrapf(ErrCloneFailure, "digest %s", d.name)
	}
	if err := u.UnmarshalBinary(state); err != nil {
		return nil, errors.Wrapf(ErrCloneFailure, "digest %s: %v", d.name, err)
	}
	return &Digest{name: d.name, factory: d.factory, h: h}, nil
}

// Sum returns the digest of data using the algorithm for label.
func Sum(label string, data []byte) ([]byte, error) {
	d, err := New(label)
	if err != nil {
		return nil, err
	}
	d.Update(data)
	return d.Finish(), nil
}

// HexSum is like Sum but returns the lowercase hex encoding.
func HexSum(label string, data []byte) (string, error) {
	sum, err := Sum(label, data)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
