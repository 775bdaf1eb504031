package attribute

import (
	"encoding/asn1"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.step.sm/osslcompat/digest"
)

// ErrMalformedOID is returned when a string is neither a known object name
// nor a sequence of numeric arcs.
var ErrMalformedOID = errors.New("malformed object identifier")

type objectName struct {
	short string
	long  string
	oid   asn1.ObjectIdentifier
}

// objectNames uses the OpenSSL short and long names.
var objectNames = []objectName{
	{"CN", "commonName", asn1.ObjectIdentifier{2, 5, 4, 3}},
	{"serialNumber", "serialNumber", asn1.ObjectIdentifier{2, 5, 4, 5}},
	{"C", "countryName", asn1.ObjectIdentifier{2, 5, 4, 6}},
	{"L", "localityName", asn1.ObjectIdentifier{2, 5, 4, 7}},
	{"ST", "stateOrProvinceName", asn1.ObjectIdentifier{2, 5, 4, 8}},
	{"street", "streetAddress", asn1.ObjectIdentifier{2, 5, 4, 9}},
	{"O", "organizationName", asn1.ObjectIdentifier{2, 5, 4, 10}},
	{"OU", "organizationalUnitName", asn1.ObjectIdentifier{2, 5, 4, 11}},
	{"rsaEncryption", "rsaEncryption", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}},
	{"emailAddress", "emailAddress", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}},
	{"unstructuredName", "unstructuredName", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 2}},
	{"contentType", "contentType", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 3}},
	{"messageDigest", "messageDigest", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 4}},
	{"signingTime", "signingTime", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 5}},
	{"challengePassword", "challengePassword", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 7}},
	{"unstructuredAddress", "unstructuredAddress", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 8}},
	{"extReq", "Extension Request", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 14}},
	{"SMIME-CAPS", "S/MIME Capabilities", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 15}},
	{"friendlyName", "friendlyName", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 20}},
	{"localKeyID", "localKeyID", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 21}},
	{"msExtReq", "Microsoft Extension Request", asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 14}},
	{"subjectKeyIdentifier", "X509v3 Subject Key Identifier", asn1.ObjectIdentifier{2, 5, 29, 14}},
	{"keyUsage", "X509v3 Key Usage", asn1.ObjectIdentifier{2, 5, 29, 15}},
	{"subjectAltName", "X509v3 Subject Alternative Name", asn1.ObjectIdentifier{2, 5, 29, 17}},
	{"basicConstraints", "X509v3 Basic Constraints", asn1.ObjectIdentifier{2, 5, 29, 19}},
	{"authorityKeyIdentifier", "X509v3 Authority Key Identifier", asn1.ObjectIdentifier{2, 5, 29, 35}},
	{"extendedKeyUsage", "X509v3 Extended Key Usage", asn1.ObjectIdentifier{2, 5, 29, 37}},
}

var (
	objectsByName = map[string]*objectName{}
	objectsByOID  = map[string]*objectName{}
)

func init() {
	for i := range objectNames {
		o := &objectNames[i]
		objectsByName[strings.ToLower(o.short)] = o
		objectsByName[strings.ToLower(o.long)] = o
		objectsByOID[o.oid.String()] = o
	}
}

// LookupOID returns the object identifier for a short or long object name,
// e.g. "subjectAltName" or "X509v3 Subject Alternative Name". Names are case
// insensitive. Digest names like "SHA256" resolve to the digest algorithm
// identifier.
func LookupOID(name string) (asn1.ObjectIdentifier, bool) {
	if o, ok := objectsByName[strings.ToLower(name)]; ok {
		return o.oid, true
	}
	return digest.OID(digest.Canonicalize(name))
}

// ShortName returns the short name of a known object identifier.
func ShortName(oid asn1.ObjectIdentifier) (string, bool) {
	if o, ok := objectsByOID[oid.String()]; ok {
		return o.short, true
	}
	return "", false
}

// parseArcs splits a dotted object identifier. The arcs are not checked
// against the object identifier rules, "5" and "7.1" are accepted. Only
// empty and non-numeric arcs fail.
func parseArcs(s string) ([]uint64, error) {
	if s == "" {
		return nil, errors.Wrap(ErrMalformedOID, "empty object identifier")
	}
	parts := strings.Split(s, ".")
	arcs := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedOID, "%q", s)
		}
		arcs[i] = n
	}
	return arcs, nil
}

// resolveOID returns the arcs for a name or a dotted object identifier.
func resolveOID(oidOrName string) ([]uint64, error) {
	if oid, ok := LookupOID(oidOrName); ok {
		arcs := make([]uint64, len(oid))
		for i, n := range oid {
			arcs[i] = uint64(n) //nolint:gosec // arcs in the table are positive
		}
		return arcs, nil
	}
	return parseArcs(oidOrName)
}

// oidString returns the short name of an object identifier if it has one,
// or its dotted form.
func oidString(oid asn1.ObjectIdentifier) string {
	if name, ok := ShortName(oid); ok {
		return name
	}
	return oid.String()
}
