// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package id provides the identifier strategies used to assign a unique "jti"
// to every claims set an issuer builds.
//
// Every Strategy in this package is safe for concurrent use and will not
// return the same identifier twice within the lifetime of the process (or, for
// the Redis counter, the lifetime of the counter key).
package id

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrNilParameter      = errors.New("nil parameter")
	ErrIDGeneratorFailed = errors.New("id generation failed")
)

// Strategy produces unique token identifiers on demand.
type Strategy interface {
	// NextID returns an identifier that has never been returned before by
	// this Strategy.
	NextID() (string, error)
}

// StrategyFunc adapts an ordinary function to the Strategy interface.
type StrategyFunc func() (string, error)

// NextID implements Strategy.
func (f StrategyFunc) NextID() (string, error) { return f() }

// New generates a random base62 ID with an optional prefix. It's a shortcut for
// NewRandom(WithPrefix(prefix)).NextID()
func New(optionalPrefix string) (string, error) {
	const op = "id.New"
	r, err := NewRandom(WithPrefix(optionalPrefix))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return r.NextID()
}

func withPrefix(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return fmt.Sprintf("%s_%s", prefix, id)
}
