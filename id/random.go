// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package id

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-secure-stdlib/base62"
	"github.com/hashicorp/go-uuid"
)

// Random generates random base62 identifiers.
type Random struct {
	prefix string
	length int
	reader io.Reader
}

var _ Strategy = (*Random)(nil)

// NewRandom creates a base62 Strategy.
// Supported options: WithPrefix, WithLength, WithReader
func NewRandom(opt ...Option) (*Random, error) {
	const op = "id.NewRandom"
	opts := getIDOpts(opt...)
	if opts.withLength <= 0 {
		return nil, fmt.Errorf("%s: length must be greater than zero: %w", op, ErrInvalidParameter)
	}
	return &Random{
		prefix: opts.withPrefix,
		length: opts.withLength,
		reader: opts.withReader,
	}, nil
}

// NextID implements Strategy.
func (r *Random) NextID() (string, error) {
	const op = "id.(Random).NextID"
	var (
		id  string
		err error
	)
	switch r.reader {
	case nil:
		id, err = base62.Random(r.length)
	default:
		id, err = base62.RandomWithReader(r.length, r.reader)
	}
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate id: %w: %w", op, ErrIDGeneratorFailed, err)
	}
	return withPrefix(r.prefix, id), nil
}

// UUID generates random (v4) UUIDs.
type UUID struct {
	prefix string
}

var _ Strategy = (*UUID)(nil)

// NewUUID creates a UUID Strategy.
// Supported options: WithPrefix
func NewUUID(opt ...Option) *UUID {
	opts := getIDOpts(opt...)
	return &UUID{prefix: opts.withPrefix}
}

// NextID implements Strategy.
func (u *UUID) NextID() (string, error) {
	const op = "id.(UUID).NextID"
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate uuid: %w: %w", op, ErrIDGeneratorFailed, err)
	}
	return withPrefix(u.prefix, id), nil
}
