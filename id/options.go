// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package id

import (
	"io"
	"time"
)

// Option defines a common functional options type which can be used in a
// variadic parameter pattern.
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		if o == nil { // ignore any nil Options
			continue
		}
		o(opts)
	}
}

// DefaultIDLength is the default length of a random base62 ID (not counting
// its optional prefix).
const DefaultIDLength = 20

// DefaultRedisTimeout bounds a single Redis counter increment.
const DefaultRedisTimeout = 2 * time.Second

type idOptions struct {
	withPrefix  string
	withLength  int
	withReader  io.Reader
	withTimeout time.Duration
	withNow     func() time.Time
}

func idDefaults() idOptions {
	return idOptions{
		withLength:  DefaultIDLength,
		withTimeout: DefaultRedisTimeout,
		withNow:     time.Now,
	}
}

func getIDOpts(opt ...Option) idOptions {
	opts := idDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithPrefix provides an optional prefix for generated IDs. The prefix is
// separated from the ID with an underscore.
func WithPrefix(prefix string) Option {
	return func(o interface{}) {
		if o, ok := o.(*idOptions); ok {
			o.withPrefix = prefix
		}
	}
}

// WithLength provides an optional length for random base62 IDs.
func WithLength(l int) Option {
	return func(o interface{}) {
		if o, ok := o.(*idOptions); ok {
			o.withLength = l
		}
	}
}

// WithReader provides an optional source of randomness. It's used by the
// random and ULID strategies and is handy for tests.
func WithReader(r io.Reader) Option {
	return func(o interface{}) {
		if o, ok := o.(*idOptions); ok {
			o.withReader = r
		}
	}
}

// WithTimeout bounds each call the Redis counter strategy makes.
func WithTimeout(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*idOptions); ok {
			o.withTimeout = d
		}
	}
}

// WithNow provides an optional clock for the ULID strategy.
func WithNow(now func() time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*idOptions); ok && now != nil {
			o.withNow = now
		}
	}
}
