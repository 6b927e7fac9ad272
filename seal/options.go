// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package seal

import (
	"time"

	"github.com/hashicorp/go-hclog"
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

// DefaultExpirySkew defines a default time skew when checking a sealed
// token's expiration.
const DefaultExpirySkew = 0 * time.Second

type sealerOptions struct {
	withRetiredKeys []Key
	withLogger      hclog.Logger
	withExpirySkew  time.Duration
	withNow         func() time.Time
}

func sealerDefaults() sealerOptions {
	return sealerOptions{
		withLogger:     hclog.NewNullLogger(),
		withExpirySkew: DefaultExpirySkew,
		withNow:        time.Now,
	}
}

func getSealerOpts(opt ...Option) sealerOptions {
	opts := sealerDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithRetiredKeys provides keys which are still accepted when unsealing but
// are never used to seal. Use it to rotate the active key without
// invalidating tokens that are still in flight.
func WithRetiredKeys(k ...Key) Option {
	return func(o interface{}) {
		if o, ok := o.(*sealerOptions); ok {
			o.withRetiredKeys = append(o.withRetiredKeys, k...)
		}
	}
}

// WithLogger provides an optional logger.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*sealerOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithExpirySkew provides an optional leeway applied when checking a sealed
// token's expiration.
func WithExpirySkew(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*sealerOptions); ok {
			o.withExpirySkew = d
		}
	}
}

// WithNow provides an optional clock.
func WithNow(now func() time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*sealerOptions); ok && now != nil {
			o.withNow = now
		}
	}
}
