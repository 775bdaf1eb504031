package pemutil

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"

	"github.com/pkg/errors"
)

// MarshalPKIXPublicKey serializes a public key to DER-encoded PKIX format. The
// following key types are supported: *rsa.PublicKey, *ecdsa.PublicKey,
// ed25519.PublicKey and *ecdh.PublicKey. Unsupported key types result in an
// error.
func MarshalPKIXPublicKey(pub crypto.PublicKey) ([]byte, error) {
	switch pub.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey, *ecdh.PublicKey:
		b, err := x509.MarshalPKIXPublicKey(pub)
		return b, errors.Wrap(err, "error marshaling PKIX public key")
	default:
		return nil, errors.Errorf("unsupported public key type %T", pub)
	}
}

// MarshalPKCS8PrivateKey converts a private key to PKCS#8 encoded form. The
// following key types are supported: *rsa.PrivateKey, *ecdsa.PrivateKey,
// ed25519.PrivateKey and *ecdh.PrivateKey. Unsupported key types result in
// an error.
func MarshalPKCS8PrivateKey(key crypto.PrivateKey) ([]byte, error) {
	switch k := key.(type) {
	case *ed25519.PrivateKey:
		return MarshalPKCS8PrivateKey(*k)
	case *rsa.PrivateKey, *ecdsa.PrivateKey, ed25519.PrivateKey, *ecdh.PrivateKey:
		b, err := x509.MarshalPKCS8PrivateKey(key)
		return b, errors.Wrap(err, "error marshaling PKCS#8")
	default:
		return nil, errors.Errorf("unsupported private key type %T", key)
	}
}

// isKey reports whether v is one of the key types supported by the marshal
// functions.
func isKey(v any) bool {
	switch v.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey, *ecdh.PublicKey,
		*rsa.PrivateKey, *ecdsa.PrivateKey, ed25519.PrivateKey, *ed25519.PrivateKey, *ecdh.PrivateKey:
		return true
	default:
		return false
	}
}

func marshalKey(v any) ([]byte, error) {
	switch v.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey, ed25519.PrivateKey, *ed25519.PrivateKey, *ecdh.PrivateKey:
		return MarshalPKCS8PrivateKey(v)
	default:
		return MarshalPKIXPublicKey(v)
	}
}
