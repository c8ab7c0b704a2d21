// Package signer loads OpenPGP signing keys and produces the signatures
// embedded in RPM signature headers.
package signer

// Signer interface for signing package contents
type Signer interface {
	// Sign creates a detached binary signature over data
	Sign(data []byte) ([]byte, error)

	// GetPublicKey returns the public key in armored format
	GetPublicKey() ([]byte, error)

	// KeyID returns the hex key ID of the signing key
	KeyID() string
}
