// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package id

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULID generates lexicographically sortable identifiers from a monotonic
// entropy source. Two IDs generated within the same millisecond still differ
// and sort in generation order.
type ULID struct {
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ Strategy = (*ULID)(nil)

// NewULID creates a ULID Strategy.
// Supported options: WithPrefix, WithReader, WithNow
func NewULID(opt ...Option) *ULID {
	opts := getIDOpts(opt...)
	r := opts.withReader
	if r == nil {
		r = rand.Reader
	}
	return &ULID{
		prefix:  opts.withPrefix,
		now:     opts.withNow,
		entropy: ulid.Monotonic(r, 0),
	}
}

// NextID implements Strategy.
func (u *ULID) NextID() (string, error) {
	const op = "id.(ULID).NextID"
	u.mu.Lock()
	defer u.mu.Unlock()
	v, err := ulid.New(ulid.Timestamp(u.now().UTC()), u.entropy)
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate ulid: %w: %w", op, ErrIDGeneratorFailed, err)
	}
	return withPrefix(u.prefix, v.String()), nil
}
