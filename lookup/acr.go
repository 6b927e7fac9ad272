// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package lookup

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// UnspecifiedACR is the class reference used when nothing more specific is
// known about how the user authenticated.
const UnspecifiedACR = "urn:oasis:names:tc:SAML:2.0:ac:classes:unspecified"

// PrincipalKind classifies a Principal.
type PrincipalKind string

const (
	// AuthenticationMethod principals name the method a relying party
	// requested, like an "acr_values" entry.
	AuthenticationMethod PrincipalKind = "authn-method"

	// ClassRef principals name the class of the authentication flow that was
	// performed.
	ClassRef PrincipalKind = "authn-class-ref"
)

// Principal is a named fact about an authentication.
type Principal struct {
	Kind PrincipalKind
	Name string
}

// AuthenticationResult describes a completed authentication.
type AuthenticationResult struct {
	// MatchingPrincipal is the requested principal the completed flow
	// satisfied, if any.
	MatchingPrincipal *Principal

	// Principals are the principals the completed flow produced, in order.
	Principals []Principal
}

// RequestedMethodACR uses the requested principal the authentication satisfied
// when it is an authentication method.
func RequestedMethodACR() Func[*AuthenticationResult] {
	return func(r *AuthenticationResult) (string, error) {
		const op = "lookup.RequestedMethodACR"
		if r == nil {
			return "", fmt.Errorf("%s: authentication result is nil: %w", op, ErrNilParameter)
		}
		p := r.MatchingPrincipal
		if p == nil || p.Kind != AuthenticationMethod || p.Name == "" {
			return "", fmt.Errorf("%s: no requested authentication method was matched: %w", op, ErrNotFound)
		}
		return p.Name, nil
	}
}

// PerformedClassRefACR uses the first class reference principal the completed
// flow produced.
func PerformedClassRefACR() Func[*AuthenticationResult] {
	return func(r *AuthenticationResult) (string, error) {
		const op = "lookup.PerformedClassRefACR"
		if r == nil {
			return "", fmt.Errorf("%s: authentication result is nil: %w", op, ErrNilParameter)
		}
		for _, p := range r.Principals {
			if p.Kind == ClassRef && p.Name != "" {
				return p.Name, nil
			}
		}
		return "", fmt.Errorf("%s: flow produced no class reference: %w", op, ErrNotFound)
	}
}

// DefaultACR always yields acr, or UnspecifiedACR when acr is empty.
func DefaultACR(acr string) Func[*AuthenticationResult] {
	if acr == "" {
		acr = UnspecifiedACR
	}
	return Static[*AuthenticationResult](acr)
}

// ACR returns the lookup for the acr of a claims set: the requested
// authentication method if one was satisfied, else the class reference of
// the performed flow, else UnspecifiedACR. The source used is logged at debug
// level. It never returns ErrNotFound.
func ACR(logger hclog.Logger) Func[*AuthenticationResult] {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	sources := []struct {
		name string
		fn   Func[*AuthenticationResult]
	}{
		{"requested", RequestedMethodACR()},
		{"performed flow", PerformedClassRefACR()},
		{"default", DefaultACR(UnspecifiedACR)},
	}
	fns := make([]Func[*AuthenticationResult], 0, len(sources))
	for _, src := range sources {
		src := src
		fns = append(fns, func(r *AuthenticationResult) (string, error) {
			acr, err := src.fn(r)
			if err == nil {
				logger.Debug("setting acr", "source", src.name, "acr", acr)
			}
			return acr, err
		})
	}
	return Chain(fns...)
}
