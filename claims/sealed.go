// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"fmt"
	"time"
)

// Sealer is the sealing service used by the sealed codec: authenticated
// encryption of the raw document into an opaque token, and back.
// seal.Sealer implements it.
type Sealer interface {
	// Seal returns an opaque token for data. The token must be rejected by
	// Unseal after exp.
	Seal(data []byte, exp time.Time) (string, error)

	// Unseal returns the data sealed in token, or an error if the token is
	// expired, corrupted or was not sealed by this service.
	Unseal(token string) ([]byte, error)
}

func sealSet(c ClaimsSet, s Sealer) (string, error) {
	if s == nil {
		return "", fmt.Errorf("sealer is nil: %w", ErrNilParameter)
	}
	raw, err := c.Serialize()
	if err != nil {
		return "", err
	}
	token, err := s.Seal([]byte(raw), c.Expiration())
	if err != nil {
		return "", fmt.Errorf("unable to seal: %w", err)
	}
	return token, nil
}

func unsealSet(token string, s Sealer) (string, error) {
	if s == nil {
		return "", fmt.Errorf("sealer is nil: %w", ErrNilParameter)
	}
	if token == "" {
		return "", fmt.Errorf("token is empty: %w", ErrSeal)
	}
	raw, err := s.Unseal(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSeal, err)
	}
	return string(raw), nil
}
