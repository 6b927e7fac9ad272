// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import "fmt"

// ChallengeMethod is a PKCE code challenge method.
type ChallengeMethod string

const (
	ChallengePlain ChallengeMethod = "plain"
	ChallengeS256  ChallengeMethod = "S256"
)

// CodeChallenge is the PKCE (RFC 7636) challenge an authorization code is
// bound to. The verifier is checked by the token endpoint when the code is
// redeemed.
type CodeChallenge struct {
	Value  string
	Method ChallengeMethod
}

// normalize applies the RFC 7636 default of "plain" when no method was
// requested.
func (cc CodeChallenge) normalize() CodeChallenge {
	if cc.Method == "" {
		cc.Method = ChallengePlain
	}
	return cc
}

func (cc CodeChallenge) validate() error {
	if cc.Value == "" {
		return fmt.Errorf("code challenge is empty: %w", ErrMissingAttribute)
	}
	switch cc.Method {
	case ChallengePlain, ChallengeS256:
		return nil
	default:
		return fmt.Errorf("unsupported code challenge method %q: %w", cc.Method, ErrInvalidAttribute)
	}
}

func (r *reader) codeChallenge() *CodeChallenge {
	value := r.optionalString(KeyCodeChallenge)
	method := r.optionalString(KeyCodeChallengeMethod)
	if r.err != nil {
		return nil
	}
	if value == "" {
		// a method, or an empty cc, means a challenge was bound and lost
		if _, ok := r.doc[KeyCodeChallenge]; ok || method != "" {
			r.fail(KeyCodeChallenge, ErrMissingField)
		}
		return nil
	}
	cc := CodeChallenge{Value: value, Method: ChallengeMethod(method)}.normalize()
	if err := cc.validate(); err != nil {
		r.fail(KeyCodeChallengeMethod, fmt.Errorf("%w: %w", ErrMalformedField, err))
		return nil
	}
	return &cc
}
