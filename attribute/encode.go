package attribute

import (
	"bytes"
	"encoding/asn1"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"go.step.sm/osslcompat/pemutil"
)

// constructedBit is set in the identifier octet of constructed encodings.
const constructedBit = 0x20

// Encode returns the ASN.1 Attribute structure
//
//	Attribute ::= SEQUENCE {
//	  type   OBJECT IDENTIFIER,
//	  values SET OF ANY }
//
// for the given object name or dotted identifier and value. A constructed
// value, usually a SET or a SEQUENCE, is used as the second element as it
// is. Any other value is wrapped in a SET with one element.
//
// Strings that are not a known name are encoded as dotted identifiers
// without checking the object identifier rules, so "7.1" or "5" produce an
// encoding other decoders may reject. The first two arcs are packed as
// 40*x+y, which wraps around when x is large enough to overflow a uint64.
// Arcs that are not numbers return ErrMalformedOID.
func Encode(oidOrName string, value asn1.RawValue) (asn1.RawValue, error) {
	arcs, err := resolveOID(oidOrName)
	if err != nil {
		return asn1.RawValue{}, err
	}
	der, err := pemutil.ToDER(value)
	if err != nil {
		return asn1.RawValue{}, err
	}
	if len(der) == 0 {
		return asn1.RawValue{}, errors.New("attribute value is empty")
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) {
			addArcs(b, arcs)
		})
		if isConstructed(der) {
			b.AddBytes(der)
		} else {
			b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
				b.AddBytes(der)
			})
		}
	})
	return buildRawValue(b)
}

// Sequence returns a SEQUENCE with the given values in order.
func Sequence(values ...asn1.RawValue) (asn1.RawValue, error) {
	return constructed(cbasn1.SEQUENCE, values, false)
}

// Set returns a SET with the given values sorted by their encoding, as DER
// requires.
func Set(values ...asn1.RawValue) (asn1.RawValue, error) {
	return constructed(cbasn1.SET, values, true)
}

func constructed(tag cbasn1.Tag, values []asn1.RawValue, sorted bool) (asn1.RawValue, error) {
	elems := make([][]byte, len(values))
	for i, v := range values {
		der, err := pemutil.ToDER(v)
		if err != nil {
			return asn1.RawValue{}, err
		}
		elems[i] = der
	}
	if sorted {
		slices.SortFunc(elems, bytes.Compare)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(tag, func(b *cryptobyte.Builder) {
		for _, e := range elems {
			b.AddBytes(e)
		}
	})
	return buildRawValue(b)
}

func buildRawValue(b *cryptobyte.Builder) (asn1.RawValue, error) {
	der, err := b.Bytes()
	if err != nil {
		return asn1.RawValue{}, errors.Wrap(err, "error building asn1 value")
	}
	return parseRawValue(der)
}

// parseRawValue decodes a single DER element, trailing data is an error.
func parseRawValue(der []byte) (asn1.RawValue, error) {
	var rv asn1.RawValue
	rest, err := asn1.Unmarshal(der, &rv)
	if err != nil {
		return asn1.RawValue{}, errors.Wrap(err, "error parsing asn1 value")
	}
	if len(rest) > 0 {
		return asn1.RawValue{}, errors.New("error parsing asn1 value: trailing data")
	}
	return rv, nil
}

func isConstructed(der []byte) bool {
	return len(der) > 0 && der[0]&constructedBit != 0
}

// addArcs writes the contents of an OBJECT IDENTIFIER. The first two arcs
// are combined as 40*x+y when there are at least two.
func addArcs(b *cryptobyte.Builder, arcs []uint64) {
	if len(arcs) == 1 {
		addBase128(b, arcs[0])
		return
	}
	addBase128(b, arcs[0]*40+arcs[1])
	for _, n := range arcs[2:] {
		addBase128(b, n)
	}
}

func addBase128(b *cryptobyte.Builder, n uint64) {
	var buf [10]byte
	i := len(buf) - 1
	buf[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		buf[i] = byte(n&0x7f) | 0x80
	}
	b.AddBytes(buf[i:])
}
