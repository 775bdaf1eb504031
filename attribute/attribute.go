// Package attribute builds the (type, values) Attribute records used in
// PKCS#9, PKCS#10 requests and PKCS#12 bags, the way OpenSSL's
// X509_ATTRIBUTE does.
package attribute

import (
	"bytes"
	"encoding/asn1"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/pemutil"
)

// Attribute is an object identifier and a value that are set independently.
// The value is stored in decoded form after a round trip through DER, so it
// never keeps a reference to the value it was set from. The encoding is
// computed by ToASN1 each time it is called.
type Attribute struct {
	oid      string
	value    asn1.RawValue
	hasValue bool
}

// New returns an attribute with the given object name or dotted identifier
// and value. The value can be anything accepted by pemutil.ToDER.
func New(oid string, value any) (*Attribute, error) {
	a := new(Attribute)
	if err := a.SetOID(oid); err != nil {
		return nil, err
	}
	if err := a.SetValue(value); err != nil {
		return nil, err
	}
	return a, nil
}

// NewWithOID returns an attribute without a value.
func NewWithOID(oid string) (*Attribute, error) {
	a := new(Attribute)
	if err := a.SetOID(oid); err != nil {
		return nil, err
	}
	return a, nil
}

// Parse parses a DER encoded Attribute. The values, usually a SET, become
// the value of the attribute, so encoding it again returns the same bytes.
func Parse(der []byte) (*Attribute, error) {
	var attr struct {
		Type   asn1.ObjectIdentifier
		Values asn1.RawValue
	}
	rest, err := asn1.Unmarshal(der, &attr)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing attribute")
	}
	if len(rest) > 0 {
		return nil, errors.New("error parsing attribute: trailing data")
	}
	return &Attribute{
		oid:      oidString(attr.Type),
		value:    attr.Values,
		hasValue: true,
	}, nil
}

// OID returns the object name or dotted identifier of the attribute.
func (a *Attribute) OID() string {
	return a.oid
}

// SetOID sets the object identifier. It accepts the names known by
// LookupOID and dotted identifiers.
func (a *Attribute) SetOID(oid string) error {
	if _, err := resolveOID(oid); err != nil {
		return err
	}
	a.oid = oid
	return nil
}

// Value returns the decoded value and whether it has been set.
func (a *Attribute) Value() (asn1.RawValue, bool) {
	return a.value, a.hasValue
}

// SetValue converts v to DER with pemutil.ToDER and stores the decoded
// result. Byte slices and strings must contain exactly one DER element.
func (a *Attribute) SetValue(v any) error {
	der, err := pemutil.ToDER(v)
	if err != nil {
		return err
	}
	rv, err := parseRawValue(bytes.Clone(der))
	if err != nil {
		return err
	}
	a.value = rv
	a.hasValue = true
	return nil
}

// ToASN1 returns the Attribute structure built by Encode.
func (a *Attribute) ToASN1() (asn1.RawValue, error) {
	if a.oid == "" {
		return asn1.RawValue{}, errors.New("attribute type is not set")
	}
	if !a.hasValue {
		return asn1.RawValue{}, errors.New("attribute value is not set")
	}
	return Encode(a.oid, a.value)
}

// MarshalDER returns the DER encoding of the attribute. It makes an
// Attribute a valid value for pemutil.ToDER and SetValue.
func (a *Attribute) MarshalDER() ([]byte, error) {
	rv, err := a.ToASN1()
	if err != nil {
		return nil, err
	}
	return rv.FullBytes, nil
}

// Equal reports whether both attributes have the same encoding.
func (a *Attribute) Equal(b *Attribute) bool {
	if a == nil || b == nil {
		return a == b
	}
	da, err := a.MarshalDER()
	if err != nil {
		return false
	}
	db, err := b.MarshalDER()
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}
