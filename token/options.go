// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

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

const (
	// DefaultCodeLifetime is how long an authorization code can be redeemed.
	DefaultCodeLifetime = 5 * time.Minute

	// DefaultAccessTokenLifetime is how long an access token is valid.
	DefaultAccessTokenLifetime = time.Hour
)

// configOptions is the set of available options for NewConfig
type configOptions struct {
	withCodeLifetime        time.Duration
	withAccessTokenLifetime time.Duration
	withLogger              hclog.Logger
	withNow                 func() time.Time
}

func configDefaults() configOptions {
	return configOptions{
		withCodeLifetime:        DefaultCodeLifetime,
		withAccessTokenLifetime: DefaultAccessTokenLifetime,
		withLogger:              hclog.NewNullLogger(),
		withNow:                 time.Now,
	}
}

func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithCodeLifetime provides an optional authorization code lifetime.
func WithCodeLifetime(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withCodeLifetime = d
		}
	}
}

// WithAccessTokenLifetime provides an optional access token lifetime.
func WithAccessTokenLifetime(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withAccessTokenLifetime = d
		}
	}
}

// WithLogger provides an optional logger.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}

// WithNow provides an optional clock.
func WithNow(now func() time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok && now != nil {
			o.withNow = now
		}
	}
}

// redeemOptions is the set of available options for RedeemCode
type redeemOptions struct {
	withScope                  []string
	withDeliveryClaims         map[string]interface{}
	withUserInfoDeliveryClaims map[string]interface{}
}

func redeemDefaults() redeemOptions {
	return redeemOptions{}
}

func getRedeemOpts(opt ...Option) redeemOptions {
	opts := redeemDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithScope narrows the scope of the access token to a subset of the scope
// granted with the code.
func WithScope(scope ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*redeemOptions); ok {
			o.withScope = scope
		}
	}
}

// WithDeliveryClaims replaces the general delivery claims of the access
// token, which otherwise are those of the code.
func WithDeliveryClaims(c map[string]interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*redeemOptions); ok {
			o.withDeliveryClaims = c
		}
	}
}

// WithUserInfoDeliveryClaims replaces the user info delivery claims of the
// access token, which otherwise are those of the code.
func WithUserInfoDeliveryClaims(c map[string]interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*redeemOptions); ok {
			o.withUserInfoDeliveryClaims = c
		}
	}
}
