// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package lookup provides the functions an issuer uses to find the values it
// attaches to a claims set while a request is in flight: the authentication
// context class reference, the PKCE code challenge, and the client a user
// info request is made on behalf of.
//
// A lookup never returns an empty value with a nil error. When it has nothing
// to offer it returns ErrNotFound, which Chain treats as "try the next one".
// Any other error is a real failure and stops the chain.
package lookup

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrMalformedClaim       = errors.New("malformed claim")
	ErrInvalidRequestObject = errors.New("invalid request object")
	ErrNilParameter         = errors.New("nil parameter")
)

// Func looks up a string value from in.
type Func[In any] func(in In) (string, error)

// Chain returns a Func which evaluates fns in order. The first value found
// wins and the first error other than ErrNotFound is returned as is. If every
// fn returns ErrNotFound, so does the chain.
func Chain[In any](fns ...Func[In]) Func[In] {
	return func(in In) (string, error) {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			v, err := fn(in)
			switch {
			case err == nil:
				return v, nil
			case errors.Is(err, ErrNotFound):
				continue
			default:
				return "", err
			}
		}
		return "", fmt.Errorf("no lookup found a value: %w", ErrNotFound)
	}
}

// Static returns a Func which always yields v. An empty v yields ErrNotFound.
func Static[In any](v string) Func[In] {
	return func(In) (string, error) {
		if v == "" {
			return "", fmt.Errorf("static value is empty: %w", ErrNotFound)
		}
		return v, nil
	}
}
