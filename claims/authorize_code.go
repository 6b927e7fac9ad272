// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/cap-tokenclaims/id"
)

// AuthorizeCode is the claims set of an authorization code. Besides the
// common attributes it carries the claims for the ID token the code will be
// exchanged for, and optionally a PKCE code challenge.
type AuthorizeCode struct {
	Common

	idTokenDeliveryClaims map[string]interface{}
	codeChallenge         *CodeChallenge
}

// ensure that AuthorizeCode implements the ClaimsSet interface
var _ ClaimsSet = (*AuthorizeCode)(nil)

// NewAuthorizeCode creates an authorization code claims set. The id is
// obtained from ids.
//
// Supported options:
//   - WithNonce
//   - WithScope
//   - WithSessionID
//   - WithRequestedClaims
//   - WithDeliveryClaims
//   - WithIDTokenDeliveryClaims
//   - WithUserInfoDeliveryClaims
//   - WithConsentableClaims
//   - WithConsentedClaims
//   - WithCodeChallenge
func NewAuthorizeCode(ids id.Strategy, p Params, opt ...Option) (*AuthorizeCode, error) {
	const op = "claims.NewAuthorizeCode"
	opts := getClaimsOpts(opt...)
	jti, err := nextID(ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var errs *multierror.Error
	c, err := newCommon(TypeAuthorizeCode, jti, p, opts)
	errs = multierror.Append(errs, err)
	ac := &AuthorizeCode{Common: c}
	if ac.idTokenDeliveryClaims, err = normalizeClaims(KeyDeliveryClaimsIDToken, opts.withIDTokenDeliveryClaims); err != nil {
		errs = multierror.Append(errs, err)
	}
	if opts.withCodeChallenge != nil {
		cc := opts.withCodeChallenge.normalize()
		if err := cc.validate(); err != nil {
			errs = multierror.Append(errs, err)
		}
		ac.codeChallenge = &cc
	}
	errs = multierror.Append(errs, ac.validate())
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ac, nil
}

// DeliveryClaimsForIDToken returns a copy of the claims for the ID token.
func (ac *AuthorizeCode) DeliveryClaimsForIDToken() map[string]interface{} {
	return copyClaims(ac.idTokenDeliveryClaims)
}

// CodeChallenge returns the PKCE code challenge, if the code is bound to one.
func (ac *AuthorizeCode) CodeChallenge() (CodeChallenge, bool) {
	if ac.codeChallenge == nil {
		return CodeChallenge{}, false
	}
	return *ac.codeChallenge, true
}

// Document returns the raw document of the authorization code.
func (ac *AuthorizeCode) Document() jwt.MapClaims {
	doc := ac.Common.document()
	putClaims(doc, KeyDeliveryClaimsIDToken, ac.idTokenDeliveryClaims)
	if ac.codeChallenge != nil {
		doc[KeyCodeChallenge] = ac.codeChallenge.Value
		doc[KeyCodeChallengeMethod] = string(ac.codeChallenge.Method)
	}
	return doc
}

// Serialize returns the JSON encoding of the raw document.
func (ac *AuthorizeCode) Serialize() (string, error) {
	const op = "claims.(AuthorizeCode).Serialize"
	raw, err := serialize(ac.Document())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// Seal returns the raw encoding sealed by s.
func (ac *AuthorizeCode) Seal(s Sealer) (string, error) {
	const op = "claims.(AuthorizeCode).Seal"
	token, err := sealSet(ac, s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseAuthorizeCode parses the output of Serialize.
func ParseAuthorizeCode(raw string) (*AuthorizeCode, error) {
	const op = "claims.ParseAuthorizeCode"
	doc, err := unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ac, err := AuthorizeCodeFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ac, nil
}

// ParseSealedAuthorizeCode unseals token with s and parses the result.
func ParseSealedAuthorizeCode(token string, s Sealer) (*AuthorizeCode, error) {
	const op = "claims.ParseSealedAuthorizeCode"
	raw, err := unsealSet(token, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ParseAuthorizeCode(raw)
}

// AuthorizeCodeFromDocument reads an authorization code from a raw
// document. The document's type must be TypeAuthorizeCode.
func AuthorizeCodeFromDocument(doc jwt.MapClaims) (*AuthorizeCode, error) {
	const op = "claims.AuthorizeCodeFromDocument"
	if doc == nil {
		return nil, fmt.Errorf("%s: document is nil: %w", op, ErrNilParameter)
	}
	if err := checkType(doc, TypeAuthorizeCode); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r := &reader{doc: doc}
	ac := &AuthorizeCode{
		Common:                r.common(TypeAuthorizeCode),
		idTokenDeliveryClaims: r.claims(KeyDeliveryClaimsIDToken),
		codeChallenge:         r.codeChallenge(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("%s: %w", op, r.err)
	}
	return ac, nil
}
