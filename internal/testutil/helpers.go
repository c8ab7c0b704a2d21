// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

var (
	keyOnce   sync.Once
	keyEntity *openpgp.Entity
	keyErr    error
)

// Key returns a freshly generated RSA signing key, shared across a test binary.
func Key(t *testing.T) *openpgp.Entity {
	t.Helper()
	keyOnce.Do(func() {
		keyEntity, keyErr = openpgp.NewEntity("rpm-builder test", "", "test@example.com", &packet.Config{
			Algorithm: packet.PubKeyAlgoRSA,
			RSABits:   2048,
		})
	})
	if keyErr != nil {
		t.Fatalf("Failed to generate key: %v", keyErr)
	}
	return keyEntity
}

// ArmoredPrivateKey returns the test key as an armored private key block.
// When passphrase is set the private keys are encrypted with it.
func ArmoredPrivateKey(t *testing.T, passphrase string) []byte {
	t.Helper()

	var raw bytes.Buffer
	if err := Key(t).SerializePrivateWithoutSigning(&raw, nil); err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	// Work on a copy so the shared entity stays decrypted
	list, err := openpgp.ReadKeyRing(bytes.NewReader(raw.Bytes()))
	if err != nil {
		t.Fatalf("Failed to copy key: %v", err)
	}
	entity := list[0]

	if passphrase != "" {
		if err := entity.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
			t.Fatalf("Failed to encrypt key: %v", err)
		}
		for _, sub := range entity.Subkeys {
			if err := sub.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
				t.Fatalf("Failed to encrypt subkey: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to create armor: %v", err)
	}
	if err := entity.SerializePrivateWithoutSigning(w, nil); err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close armor: %v", err)
	}
	return buf.Bytes()
}

// Keyring returns the public half of the test key
func Keyring(t *testing.T) openpgp.EntityList {
	t.Helper()
	return openpgp.EntityList{Key(t)}
}

// WriteFile writes content under dir and returns its path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
