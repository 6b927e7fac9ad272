// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package seal

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/hashicorp/go-uuid"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the size in bytes of an A256GCM content encryption key.
const KeySize = 32

// Key is a named symmetric sealing key.
type Key struct {
	// ID is published in the sealed token's "kid" header and selects the key
	// when unsealing.
	ID string

	// Secret is the raw AES-256 key.
	Secret []byte
}

// RedactedSecret is the redacted string for a Key's secret
const RedactedSecret = "[REDACTED: sealing key]"

// String will redact the secret
func (k Key) String() string {
	return fmt.Sprintf("%s (%s)", k.ID, RedactedSecret)
}

// Validate the key.
func (k Key) Validate() error {
	const op = "seal.(Key).Validate"
	if k.ID == "" {
		return fmt.Errorf("%s: key id is empty: %w", op, ErrInvalidParameter)
	}
	if len(k.Secret) != KeySize {
		return fmt.Errorf("%s: key %q must be %d bytes, got %d: %w", op, k.ID, KeySize, len(k.Secret), ErrInvalidParameter)
	}
	return nil
}

// GenerateKey creates a Key with a random secret.
func GenerateKey(id string) (Key, error) {
	const op = "seal.GenerateKey"
	if id == "" {
		return Key{}, fmt.Errorf("%s: key id is empty: %w", op, ErrInvalidParameter)
	}
	secret, err := uuid.GenerateRandomBytes(KeySize)
	if err != nil {
		return Key{}, fmt.Errorf("%s: unable to generate secret: %w", op, err)
	}
	return Key{ID: id, Secret: secret}, nil
}

// DeriveKey derives a Key from configured secret material using HKDF-SHA256.
// The key id is used as the HKDF info, so the same secret yields a distinct
// key per id.
func DeriveKey(id string, secret, salt []byte) (Key, error) {
	const op = "seal.DeriveKey"
	if id == "" {
		return Key{}, fmt.Errorf("%s: key id is empty: %w", op, ErrInvalidParameter)
	}
	if len(secret) == 0 {
		return Key{}, fmt.Errorf("%s: secret is empty: %w", op, ErrInvalidParameter)
	}
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(id)), out); err != nil {
		return Key{}, fmt.Errorf("%s: unable to derive key: %w", op, err)
	}
	return Key{ID: id, Secret: out}, nil
}
