// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import "time"

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

// claimsOptions is the set of optional attributes of a claims set.
type claimsOptions struct {
	withNonce                  string
	withScope                  []string
	withSessionID              string
	withRequestedClaims        map[string]interface{}
	withDeliveryClaims         map[string]interface{}
	withIDTokenDeliveryClaims  map[string]interface{}
	withUserInfoDeliveryClaims map[string]interface{}
	withConsentableClaims      []string
	withConsentedClaims        []string
	withCodeChallenge          *CodeChallenge
}

func claimsDefaults() claimsOptions {
	return claimsOptions{}
}

func getClaimsOpts(opt ...Option) claimsOptions {
	opts := claimsDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithNonce provides the nonce supplied by the authentication request.
func WithNonce(nonce string) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withNonce = nonce
		}
	}
}

// WithScope provides the granted scope. Duplicates are removed, preserving
// the order of first appearance.
func WithScope(scope ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withScope = scope
		}
	}
}

// WithSessionID provides the identity provider session id.
func WithSessionID(sid string) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withSessionID = sid
		}
	}
}

// WithRequestedClaims provides the "claims" request parameter of the
// authentication request.
func WithRequestedClaims(c map[string]interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withRequestedClaims = c
		}
	}
}

// WithDeliveryClaims provides the claims for general delivery to the relying
// party.
func WithDeliveryClaims(c map[string]interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withDeliveryClaims = c
		}
	}
}

// WithIDTokenDeliveryClaims provides the claims to be released in the ID
// token the authorization code is exchanged for. Only authorization codes
// carry them.
func WithIDTokenDeliveryClaims(c map[string]interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withIDTokenDeliveryClaims = c
		}
	}
}

// WithUserInfoDeliveryClaims provides the claims to be released by the user
// info endpoint.
func WithUserInfoDeliveryClaims(c map[string]interface{}) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withUserInfoDeliveryClaims = c
		}
	}
}

// WithConsentableClaims provides the names of the claims consent was asked
// for.
func WithConsentableClaims(names ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withConsentableClaims = names
		}
	}
}

// WithConsentedClaims provides the names of the claims consent was given
// for.
func WithConsentedClaims(names ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withConsentedClaims = names
		}
	}
}

// WithCodeChallenge provides the PKCE code challenge an authorization code is
// bound to. Only authorization codes carry it.
func WithCodeChallenge(cc CodeChallenge) Option {
	return func(o interface{}) {
		if o, ok := o.(*claimsOptions); ok {
			o.withCodeChallenge = &cc
		}
	}
}

// DefaultExpirySkew defines a default time skew when checking a claims set's
// expiration.
const DefaultExpirySkew = 0 * time.Second

type expiryOptions struct {
	withExpirySkew time.Duration
	withNow        func() time.Time
}

func expiryDefaults() expiryOptions {
	return expiryOptions{
		withExpirySkew: DefaultExpirySkew,
		withNow:        time.Now,
	}
}

func getExpiryOpts(opt ...Option) expiryOptions {
	opts := expiryDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithExpirySkew provides an optional expiry skew duration for IsExpired.
func WithExpirySkew(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*expiryOptions); ok {
			o.withExpirySkew = d
		}
	}
}

// WithNow provides an optional clock for IsExpired.
func WithNow(now func() time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*expiryOptions); ok && now != nil {
			o.withNow = now
		}
	}
}
