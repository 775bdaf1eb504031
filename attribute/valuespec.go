package attribute

import (
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"

	"go.step.sm/osslcompat/internal/utils"
)

const valueSpecSeparator = ":"

// Value spec types.
const (
	PrintableType   = "printable"
	UTF8Type        = "utf8"
	IA5Type         = "ia5"
	NumericType     = "numeric"
	IntType         = "int"
	OIDType         = "oid"
	BoolType        = "bool"
	OctetType       = "octet"
	RawType         = "raw"
	NullType        = "null"
	UTCType         = "utc"
	GeneralizedType = "generalized"
)

// ParseValueSpec returns the ASN.1 value described by spec, a type and a
// value separated by a colon:
//
//	printable:foo   PrintableString, also used when there is no type
//	utf8:foo        UTF8String
//	ia5:foo         IA5String
//	numeric:123     NumericString
//	int:-42         INTEGER
//	oid:2.5.4.3     OBJECT IDENTIFIER, object names like "CN" are accepted
//	bool:true       BOOLEAN
//	octet:cafe      OCTET STRING, hex encoded
//	raw:MAMCAQE=    base64 encoded DER, used as it is
//	null:           NULL
//	utc:<RFC3339>   UTCTime
//	generalized:... GeneralizedTime
//
// Unknown types are treated as part of a printable value, so "a:b" is the
// PrintableString "a:b".
func ParseValueSpec(spec string) (asn1.RawValue, error) {
	typ, value := PrintableType, spec
	if t, v, ok := strings.Cut(spec, valueSpecSeparator); ok && isValueSpecType(t) {
		typ, value = t, v
	}
	der, err := marshalValue(typ, value)
	if err != nil {
		return asn1.RawValue{}, err
	}
	return parseRawValue(der)
}

func isValueSpecType(t string) bool {
	switch t {
	case PrintableType, UTF8Type, IA5Type, NumericType, IntType, OIDType,
		BoolType, OctetType, RawType, NullType, UTCType, GeneralizedType:
		return true
	default:
		return false
	}
}

func marshalValue(typ, value string) ([]byte, error) {
	switch typ {
	case PrintableType:
		if !utils.IsPrintableString(value, true, false) {
			return nil, errors.Errorf("invalid printable value %q", value)
		}
		return marshalString(value, typ)
	case UTF8Type:
		if !utf8.ValidString(value) {
			return nil, errors.Errorf("invalid utf8 value %q", value)
		}
		return marshalString(value, typ)
	case IA5Type:
		if !utils.IsIA5String(value) {
			return nil, errors.Errorf("invalid ia5 value %q", value)
		}
		return marshalString(value, typ)
	case NumericType:
		if !utils.IsNumericString(value) {
			return nil, errors.Errorf("invalid numeric value %q", value)
		}
		return marshalString(value, typ)
	case IntType:
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, errors.Errorf("invalid int value %q", value)
		}
		return build(func(b *cryptobyte.Builder) { b.AddASN1BigInt(n) })
	case OIDType:
		oid, err := parseObjectIdentifier(value)
		if err != nil {
			return nil, err
		}
		return build(func(b *cryptobyte.Builder) { b.AddASN1ObjectIdentifier(oid) })
	case BoolType:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Errorf("invalid bool value %q", value)
		}
		return build(func(b *cryptobyte.Builder) { b.AddASN1Boolean(v) })
	case OctetType:
		v, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid octet value %q", value)
		}
		return build(func(b *cryptobyte.Builder) { b.AddASN1OctetString(v) })
	case RawType:
		v, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid raw value %q", value)
		}
		return v, nil
	case NullType:
		return build(func(b *cryptobyte.Builder) { b.AddASN1NULL() })
	case UTCType, GeneralizedType:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s value", typ)
		}
		if typ == UTCType {
			return build(func(b *cryptobyte.Builder) { b.AddASN1UTCTime(t) })
		}
		return build(func(b *cryptobyte.Builder) { b.AddASN1GeneralizedTime(t) })
	default:
		return nil, errors.Errorf("unsupported value type %s", typ)
	}
}

func marshalString(value, params string) ([]byte, error) {
	b, err := asn1.MarshalWithParams(value, params)
	return b, errors.Wrapf(err, "error marshaling %s value", params)
}

func build(fn func(b *cryptobyte.Builder)) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	fn(b)
	der, err := b.Bytes()
	return der, errors.Wrap(err, "error building asn1 value")
}

// parseObjectIdentifier parses an object name or a strict dotted object
// identifier.
func parseObjectIdentifier(s string) (asn1.ObjectIdentifier, error) {
	if oid, ok := LookupOID(s); ok {
		return oid, nil
	}
	arcs, err := parseArcs(s)
	if err != nil {
		return nil, err
	}
	if len(arcs) < 2 || arcs[0] > 2 || (arcs[0] < 2 && arcs[1] >= 40) {
		return nil, errors.Wrapf(ErrMalformedOID, "%q", s)
	}
	oid := make(asn1.ObjectIdentifier, len(arcs))
	for i, n := range arcs {
		if n > uint64(^uint32(0)>>1) {
			return nil, errors.Wrapf(ErrMalformedOID, "arc %d of %q is too large", i, s)
		}
		oid[i] = int(n)
	}
	return oid, nil
}
