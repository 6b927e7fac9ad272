// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package lookup

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/hashicorp/cap-tokenclaims/claims"
)

// Authentication request parameter names.
const (
	ParamCodeChallenge       = "code_challenge"
	ParamCodeChallengeMethod = "code_challenge_method"
	ParamNonce               = "nonce"
)

// RequestObjectAlgorithms are the signature algorithms a request object may
// be signed with.
var RequestObjectAlgorithms = []jose.SignatureAlgorithm{
	jose.RS256, jose.RS384, jose.RS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.PS256, jose.PS384, jose.PS512,
	jose.EdDSA,
	jose.HS256, jose.HS384, jose.HS512,
}

// AuthenticationRequest is an authentication request as received by the
// authorization endpoint.
type AuthenticationRequest struct {
	// Params are the request's query or form parameters.
	Params url.Values

	// RequestObject is the optional compact JWT passed by value in the
	// "request" parameter or resolved from "request_uri". Its signature must
	// already have been verified; lookups only read its claims.
	RequestObject string
}

// requestObjectClaims returns the claims of the request object, or
// ErrNotFound if the request has none.
func (r *AuthenticationRequest) requestObjectClaims() (map[string]interface{}, error) {
	if r.RequestObject == "" {
		return nil, fmt.Errorf("request has no request object: %w", ErrNotFound)
	}
	tok, err := jwt.ParseSigned(r.RequestObject, RequestObjectAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("unable to parse request object: %w: %w", ErrInvalidRequestObject, err)
	}
	var c map[string]interface{}
	if err := tok.UnsafeClaimsWithoutVerification(&c); err != nil {
		return nil, fmt.Errorf("unable to read request object claims: %w: %w", ErrInvalidRequestObject, err)
	}
	return c, nil
}

// RequestObjectClaim returns a Func which reads the string claim name from
// the request's request object.
func RequestObjectClaim(name string) Func[*AuthenticationRequest] {
	return func(r *AuthenticationRequest) (string, error) {
		const op = "lookup.RequestObjectClaim"
		if r == nil {
			return "", fmt.Errorf("%s: authentication request is nil: %w", op, ErrNilParameter)
		}
		c, err := r.requestObjectClaims()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		v, ok := c[name]
		if !ok || v == nil {
			return "", fmt.Errorf("%s: request object has no %q claim: %w", op, name, ErrNotFound)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%s: %q claim is %T, not a string: %w", op, name, v, ErrMalformedClaim)
		}
		if s == "" {
			return "", fmt.Errorf("%s: %q claim is empty: %w", op, name, ErrNotFound)
		}
		return s, nil
	}
}

// RequestParam returns a Func which reads the request parameter name.
func RequestParam(name string) Func[*AuthenticationRequest] {
	return func(r *AuthenticationRequest) (string, error) {
		const op = "lookup.RequestParam"
		if r == nil {
			return "", fmt.Errorf("%s: authentication request is nil: %w", op, ErrNilParameter)
		}
		if v := r.Params.Get(name); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("%s: request has no %q parameter: %w", op, name, ErrNotFound)
	}
}

// Requested returns a Func which prefers the request object's claim name
// over the request parameter of the same name.
func Requested(name string) Func[*AuthenticationRequest] {
	return Chain(RequestObjectClaim(name), RequestParam(name))
}

// CodeChallengeMethod looks up the requested PKCE code challenge method.
func CodeChallengeMethod() Func[*AuthenticationRequest] {
	return Requested(ParamCodeChallengeMethod)
}

// CodeChallenge looks up the requested PKCE code challenge.
func CodeChallenge() Func[*AuthenticationRequest] {
	return Requested(ParamCodeChallenge)
}

// Nonce looks up the requested nonce.
func Nonce() Func[*AuthenticationRequest] {
	return Requested(ParamNonce)
}

// RequestedCodeChallenge returns the PKCE code challenge of r. It returns
// ErrNotFound if r doesn't request one. A missing method is left empty, which
// the claims package treats as "plain".
func RequestedCodeChallenge(r *AuthenticationRequest) (claims.CodeChallenge, error) {
	const op = "lookup.RequestedCodeChallenge"
	value, err := CodeChallenge()(r)
	if err != nil {
		return claims.CodeChallenge{}, fmt.Errorf("%s: %w", op, err)
	}
	method, err := CodeChallengeMethod()(r)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return claims.CodeChallenge{}, fmt.Errorf("%s: %w", op, err)
	}
	return claims.CodeChallenge{Value: value, Method: claims.ChallengeMethod(method)}, nil
}
