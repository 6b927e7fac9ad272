// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package seal turns byte payloads into opaque, tamper-evident strings and
// back. Tokens are compact JWEs using direct A256GCM encryption: the payload
// is confidential, and the protected header (which names the key and carries
// the expiration) is authenticated along with it.
package seal

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/hashicorp/go-hclog"
)

const headerExpiration jose.HeaderKey = "exp"

// Sealer seals and unseals payloads with a set of named keys. A Sealer is
// safe for concurrent use.
type Sealer struct {
	active Key
	keys   map[string][]byte

	logger hclog.Logger
	skew   time.Duration
	now    func() time.Time
}

// NewSealer creates a Sealer which seals with the active key and unseals with
// the active key or any retired key.
//
// Supported options: WithRetiredKeys, WithLogger, WithExpirySkew, WithNow
func NewSealer(active Key, opt ...Option) (*Sealer, error) {
	const op = "seal.NewSealer"
	if err := active.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid active key: %w", op, err)
	}
	opts := getSealerOpts(opt...)
	keys := make(map[string][]byte, 1+len(opts.withRetiredKeys))
	keys[active.ID] = cloneBytes(active.Secret)
	for _, k := range opts.withRetiredKeys {
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("%s: invalid retired key: %w", op, err)
		}
		if _, ok := keys[k.ID]; ok {
			return nil, fmt.Errorf("%s: duplicate key id %q: %w", op, k.ID, ErrInvalidParameter)
		}
		keys[k.ID] = cloneBytes(k.Secret)
	}
	if opts.withExpirySkew < 0 {
		return nil, fmt.Errorf("%s: expiry skew is negative: %w", op, ErrInvalidParameter)
	}
	return &Sealer{
		active: Key{ID: active.ID, Secret: keys[active.ID]},
		keys:   keys,
		logger: opts.withLogger,
		skew:   opts.withExpirySkew,
		now:    opts.withNow,
	}, nil
}

// ActiveKeyID returns the id of the key used for sealing.
func (s *Sealer) ActiveKeyID() string { return s.active.ID }

// Seal encrypts data with the active key. The token is rejected by Unseal
// once exp has passed.
func (s *Sealer) Seal(data []byte, exp time.Time) (string, error) {
	const op = "seal.(Sealer).Seal"
	if exp.IsZero() {
		return "", fmt.Errorf("%s: expiration is zero: %w", op, ErrInvalidParameter)
	}
	opts := (&jose.EncrypterOptions{}).WithHeader(headerExpiration, exp.Unix())
	enc, err := jose.NewEncrypter(
		jose.A256GCM,
		jose.Recipient{Algorithm: jose.DIRECT, Key: s.active.Secret, KeyID: s.active.ID},
		opts,
	)
	if err != nil {
		return "", fmt.Errorf("%s: unable to create encrypter: %w", op, err)
	}
	obj, err := enc.Encrypt(data)
	if err != nil {
		return "", fmt.Errorf("%s: unable to encrypt: %w", op, err)
	}
	token, err := obj.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("%s: unable to serialize: %w", op, err)
	}
	return token, nil
}

// Unseal authenticates and decrypts a token produced by Seal. Failures match
// one of ErrCorrupted, ErrUnrecognized or ErrExpired.
func (s *Sealer) Unseal(token string) ([]byte, error) {
	const op = "seal.(Sealer).Unseal"
	if err := checkCompact(token); err != nil {
		s.logger.Debug("rejecting malformed sealed token", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCorrupted, err)
	}
	obj, err := jose.ParseEncrypted(token, []jose.KeyAlgorithm{jose.DIRECT}, []jose.ContentEncryption{jose.A256GCM})
	if err != nil {
		s.logger.Debug("rejecting unparseable sealed token", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCorrupted, err)
	}
	kid := obj.Header.KeyID
	secret, ok := s.keys[kid]
	if !ok {
		s.logger.Debug("rejecting sealed token with unknown key", "op", op, "kid", kid)
		return nil, fmt.Errorf("%s: unknown key id %q: %w", op, kid, ErrUnrecognized)
	}
	data, err := obj.Decrypt(secret)
	if err != nil {
		s.logger.Debug("rejecting sealed token which failed authentication", "op", op, "kid", kid)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCorrupted, err)
	}
	exp, err := expiration(obj.Header.ExtraHeaders[headerExpiration])
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCorrupted, err)
	}
	if s.now().After(exp.Add(s.skew)) {
		s.logger.Debug("rejecting expired sealed token", "op", op, "kid", kid, "exp", exp)
		return nil, fmt.Errorf("%s: expired at %s: %w", op, exp.Format(time.RFC3339), ErrExpired)
	}
	return data, nil
}

// checkCompact requires five canonical base64url segments. go-jose decodes
// leniently, which would let some single character edits through unnoticed.
func checkCompact(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 5 {
		return fmt.Errorf("expected 5 segments, got %d", len(parts))
	}
	for i, p := range parts {
		if strings.ContainsAny(p, "\r\n") {
			return fmt.Errorf("segment %d contains a line break", i)
		}
		if _, err := base64.RawURLEncoding.Strict().DecodeString(p); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

func expiration(v interface{}) (time.Time, error) {
	switch exp := v.(type) {
	case float64:
		return time.Unix(int64(exp), 0), nil
	case json.Number:
		n, err := exp.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("exp header is invalid: %w", err)
		}
		return time.Unix(n, 0), nil
	case nil:
		return time.Time{}, fmt.Errorf("exp header is missing")
	default:
		return time.Time{}, fmt.Errorf("exp header is %T, not a number", v)
	}
}

func cloneBytes(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
