package pemutil

import (
	"crypto/x509"
	"encoding/asn1"

	"github.com/pkg/errors"
)

// DERMarshaler is implemented by values that can encode themselves as DER.
type DERMarshaler interface {
	MarshalDER() ([]byte, error)
}

// Kind classifies the values accepted by ToDER.
type Kind int

const (
	// KindOpaque values have no DER form of their own. ToDER encodes them
	// with encoding/asn1, which fails for most of them.
	KindOpaque Kind = iota
	// KindBytes values, []byte and string, are already serialized.
	KindBytes
	// KindConvertible values know their DER encoding: DERMarshaler
	// implementations, certificates, requests, CRLs, asn1.RawValue and keys.
	KindConvertible
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindConvertible:
		return "convertible"
	default:
		return "opaque"
	}
}

// KindOf returns the kind of v.
func KindOf(v any) Kind {
	switch v.(type) {
	case []byte, string:
		return KindBytes
	case DERMarshaler, *x509.Certificate, *x509.CertificateRequest, *x509.RevocationList,
		asn1.RawValue, *asn1.RawValue:
		return KindConvertible
	}
	if isKey(v) {
		return KindConvertible
	}
	return KindOpaque
}

// ToDER returns the DER form of v if it has one. Byte slices and strings are
// returned as they are, without checking that they contain DER.
func ToDER(v any) ([]byte, error) {
	switch KindOf(v) {
	case KindBytes:
		if s, ok := v.(string); ok {
			return []byte(s), nil
		}
		return v.([]byte), nil
	case KindConvertible:
		return convertibleToDER(v)
	default:
		if v == nil {
			return nil, errors.New("cannot convert nil to DER")
		}
		b, err := asn1.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot convert %T to DER", v)
		}
		return b, nil
	}
}

func convertibleToDER(v any) ([]byte, error) {
	switch t := v.(type) {
	case DERMarshaler:
		return t.MarshalDER()
	case *x509.Certificate:
		return nonEmpty(t.Raw, "certificate")
	case *x509.CertificateRequest:
		return nonEmpty(t.Raw, "certificate request")
	case *x509.RevocationList:
		return nonEmpty(t.Raw, "certificate revocation list")
	case asn1.RawValue:
		return rawValueToDER(&t)
	case *asn1.RawValue:
		return rawValueToDER(t)
	default:
		return marshalKey(v)
	}
}

func rawValueToDER(rv *asn1.RawValue) ([]byte, error) {
	if len(rv.FullBytes) > 0 {
		return rv.FullBytes, nil
	}
	b, err := asn1.Marshal(*rv)
	return b, errors.Wrap(err, "error marshaling asn1 value")
}

func nonEmpty(raw []byte, name string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.Errorf("%s does not have a DER encoding", name)
	}
	return raw, nil
}
