// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/cap-tokenclaims/id"
)

// AccessToken is the claims set of an access token.
type AccessToken struct {
	Common
}

// ensure that AccessToken implements the ClaimsSet interface
var _ ClaimsSet = (*AccessToken)(nil)

// NewAccessToken creates an access token claims set. The id is obtained from
// ids.
//
// Supported options:
//   - WithNonce
//   - WithScope
//   - WithSessionID
//   - WithRequestedClaims
//   - WithDeliveryClaims
//   - WithUserInfoDeliveryClaims
//   - WithConsentableClaims
//   - WithConsentedClaims
func NewAccessToken(ids id.Strategy, p Params, opt ...Option) (*AccessToken, error) {
	const op = "claims.NewAccessToken"
	opts := getClaimsOpts(opt...)
	jti, err := nextID(ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var errs *multierror.Error
	c, err := newCommon(TypeAccessToken, jti, p, opts)
	errs = multierror.Append(errs, err)
	at := &AccessToken{Common: c}
	errs = multierror.Append(errs, at.validate())
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return at, nil
}

// NewAccessTokenFromCode creates an access token claims set from the
// authorization code it was exchanged for. Every common attribute, including
// the id, is carried over from code except the scope, the general and user
// info delivery claims, and the lifetime, which are replaced by the
// parameters. The ID token delivery claims and the code challenge are not
// carried over.
func NewAccessTokenFromCode(code *AuthorizeCode, scope []string, deliveryClaims, userInfoDeliveryClaims map[string]interface{}, issuedAt, expiration time.Time) (*AccessToken, error) {
	const op = "claims.NewAccessTokenFromCode"
	if code == nil {
		return nil, fmt.Errorf("%s: authorization code is nil: %w: %w", op, ErrMissingAttribute, ErrNilParameter)
	}
	var (
		errs *multierror.Error
		err  error
	)
	c := code.Common
	c.typ = TypeAccessToken
	c.issuedAt = normalizeTime(issuedAt)
	c.expiration = normalizeTime(expiration)
	if c.scope, err = normalizeScope(scope); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.deliveryClaims, err = normalizeClaims(KeyDeliveryClaims, deliveryClaims); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.userInfoDeliveryClaims, err = normalizeClaims(KeyDeliveryClaimsUserInfo, userInfoDeliveryClaims); err != nil {
		errs = multierror.Append(errs, err)
	}
	at := &AccessToken{Common: c}
	errs = multierror.Append(errs, at.validate())
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return at, nil
}

// Document returns the raw document of the access token.
func (at *AccessToken) Document() jwt.MapClaims {
	return at.Common.document()
}

// Serialize returns the JSON encoding of the raw document.
func (at *AccessToken) Serialize() (string, error) {
	const op = "claims.(AccessToken).Serialize"
	raw, err := serialize(at.Document())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// Seal returns the raw encoding sealed by s.
func (at *AccessToken) Seal(s Sealer) (string, error) {
	const op = "claims.(AccessToken).Seal"
	token, err := sealSet(at, s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseAccessToken parses the output of Serialize.
func ParseAccessToken(raw string) (*AccessToken, error) {
	const op = "claims.ParseAccessToken"
	doc, err := unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	at, err := AccessTokenFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return at, nil
}

// ParseSealedAccessToken unseals token with s and parses the result.
func ParseSealedAccessToken(token string, s Sealer) (*AccessToken, error) {
	const op = "claims.ParseSealedAccessToken"
	raw, err := unsealSet(token, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ParseAccessToken(raw)
}

// AccessTokenFromDocument reads an access token from a raw document. The
// document's type must be TypeAccessToken.
func AccessTokenFromDocument(doc jwt.MapClaims) (*AccessToken, error) {
	const op = "claims.AccessTokenFromDocument"
	if doc == nil {
		return nil, fmt.Errorf("%s: document is nil: %w", op, ErrNilParameter)
	}
	if err := checkType(doc, TypeAccessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r := &reader{doc: doc}
	at := &AccessToken{Common: r.common(TypeAccessToken)}
	if r.err != nil {
		return nil, fmt.Errorf("%s: %w", op, r.err)
	}
	return at, nil
}
