// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/cap-tokenclaims/id"
	"github.com/hashicorp/cap-tokenclaims/internal/strutils"
)

// Type discriminates the concrete kind of a claims set.
type Type string

const (
	TypeAuthorizeCode Type = "ac"
	TypeAccessToken   Type = "at"
)

// Document keys.
const (
	KeyType                   = "type"
	KeyID                     = "jti"
	KeyClientID               = "clid"
	KeyIssuer                 = "iss"
	KeyUserPrincipal          = "usr"
	KeySubject                = "sub"
	KeyACR                    = "acr"
	KeyIssuedAt               = "iat"
	KeyExpiration             = "exp"
	KeyNonce                  = "nonce"
	KeyAuthTime               = "auth_time"
	KeyRedirectURI            = "redirect_uri"
	KeyScope                  = "scope"
	KeySessionID              = "sid"
	KeyRequestedClaims        = "claims"
	KeyDeliveryClaims         = "dl_claims"
	KeyDeliveryClaimsIDToken  = "dl_claims_id"
	KeyDeliveryClaimsUserInfo = "dl_claims_ui"
	KeyConsentableClaims      = "cnsntbl_claims"
	KeyConsentedClaims        = "cnsntd_claims"
	KeyCodeChallenge          = "cc"
	KeyCodeChallengeMethod    = "ccm"
)

// Params are the attributes every claims set requires.
type Params struct {
	// ClientID identifies the relying party.
	ClientID string

	// Issuer identifies the issuing authority.
	Issuer string

	// UserPrincipal is the authenticated local principal, which may differ
	// from the Subject released to the relying party.
	UserPrincipal string

	// Subject is the subject identifier released to the relying party.
	Subject string

	// ACR is the authentication context class reference.
	ACR string

	// AuthenticationTime is when the user authenticated.
	AuthenticationTime time.Time

	// RedirectURI is the validated redirect uri the artifact is bound to.
	RedirectURI string

	// IssuedAt and Expiration bound the lifetime of the artifact.
	// Expiration must be after IssuedAt.
	IssuedAt   time.Time
	Expiration time.Time
}

// Common holds the attributes shared by every kind of claims set. It's not
// constructed directly; see NewAuthorizeCode and NewAccessToken.
type Common struct {
	typ Type

	id            string
	clientID      string
	issuer        string
	userPrincipal string
	subject       string
	acr           string
	issuedAt      time.Time
	expiration    time.Time
	nonce         string
	authTime      time.Time
	redirectURI   string
	scope         []string
	sessionID     string

	requestedClaims        map[string]interface{}
	deliveryClaims         map[string]interface{}
	userInfoDeliveryClaims map[string]interface{}
	consentableClaims      []string
	consentedClaims        []string
}

func (c *Common) Type() Type                    { return c.typ }
func (c *Common) ID() string                    { return c.id }
func (c *Common) ClientID() string              { return c.clientID }
func (c *Common) Issuer() string                { return c.issuer }
func (c *Common) UserPrincipal() string         { return c.userPrincipal }
func (c *Common) Subject() string               { return c.subject }
func (c *Common) ACR() string                   { return c.acr }
func (c *Common) IssuedAt() time.Time           { return c.issuedAt }
func (c *Common) Expiration() time.Time         { return c.expiration }
func (c *Common) Nonce() string                 { return c.nonce }
func (c *Common) AuthenticationTime() time.Time { return c.authTime }
func (c *Common) RedirectURI() string           { return c.redirectURI }
func (c *Common) SessionID() string             { return c.sessionID }

// Scope returns a copy of the granted scope, in the order it was granted.
func (c *Common) Scope() []string { return strutils.Clone(c.scope) }

// HasScope reports whether s was granted.
func (c *Common) HasScope(s string) bool { return strutils.StrListContains(c.scope, s) }

// RequestedClaims returns a copy of the "claims" request parameter.
func (c *Common) RequestedClaims() map[string]interface{} { return copyClaims(c.requestedClaims) }

// DeliveryClaims returns a copy of the claims for general delivery.
func (c *Common) DeliveryClaims() map[string]interface{} { return copyClaims(c.deliveryClaims) }

// DeliveryClaimsForUserInfo returns a copy of the claims for the user info
// response.
func (c *Common) DeliveryClaimsForUserInfo() map[string]interface{} {
	return copyClaims(c.userInfoDeliveryClaims)
}

// ConsentableClaims returns a copy of the claim names consent was asked for.
func (c *Common) ConsentableClaims() []string { return strutils.Clone(c.consentableClaims) }

// ConsentedClaims returns a copy of the claim names consent was given for.
func (c *Common) ConsentedClaims() []string { return strutils.Clone(c.consentedClaims) }

// IsExpired returns true if the claims set has expired. Supports the
// WithExpirySkew and WithNow options.
func (c *Common) IsExpired(opt ...Option) bool {
	opts := getExpiryOpts(opt...)
	return !opts.withNow().Before(c.expiration.Add(opts.withExpirySkew))
}

// nextID obtains the id of a new claims set.
func nextID(ids id.Strategy) (string, error) {
	if ids == nil {
		return "", fmt.Errorf("id strategy is nil: %w: %w", ErrMissingAttribute, ErrNilParameter)
	}
	jti, err := ids.NextID()
	if err != nil {
		return "", fmt.Errorf("unable to generate id: %w", err)
	}
	return jti, nil
}

// newCommon builds and normalizes the shared attributes. The result still
// needs validate().
func newCommon(typ Type, jti string, p Params, opts claimsOptions) (Common, error) {
	var (
		errs *multierror.Error
		err  error
	)
	c := Common{
		typ:           typ,
		id:            jti,
		clientID:      p.ClientID,
		issuer:        p.Issuer,
		userPrincipal: p.UserPrincipal,
		subject:       p.Subject,
		acr:           p.ACR,
		issuedAt:      normalizeTime(p.IssuedAt),
		expiration:    normalizeTime(p.Expiration),
		nonce:         opts.withNonce,
		authTime:      normalizeTime(p.AuthenticationTime),
		redirectURI:   p.RedirectURI,
		sessionID:     opts.withSessionID,

		consentableClaims: normalizeNames(opts.withConsentableClaims),
		consentedClaims:   normalizeNames(opts.withConsentedClaims),
	}
	if c.scope, err = normalizeScope(opts.withScope); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.requestedClaims, err = normalizeClaims(KeyRequestedClaims, opts.withRequestedClaims); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.deliveryClaims, err = normalizeClaims(KeyDeliveryClaims, opts.withDeliveryClaims); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.userInfoDeliveryClaims, err = normalizeClaims(KeyDeliveryClaimsUserInfo, opts.withUserInfoDeliveryClaims); err != nil {
		errs = multierror.Append(errs, err)
	}
	return c, errs.ErrorOrNil()
}

// validate checks the invariants every claims set must hold, collecting all
// violations.
func (c *Common) validate() error {
	var errs *multierror.Error
	missing := func(name string) {
		errs = multierror.Append(errs, fmt.Errorf("%s is empty: %w", name, ErrMissingAttribute))
	}
	if c.id == "" {
		missing("id")
	}
	if c.clientID == "" {
		missing("client id")
	}
	if c.issuer == "" {
		missing("issuer")
	}
	if c.userPrincipal == "" {
		missing("user principal")
	}
	if c.subject == "" {
		missing("subject")
	}
	if c.acr == "" {
		missing("acr")
	}
	if c.redirectURI == "" {
		missing("redirect uri")
	}
	if c.authTime.IsZero() {
		missing("authentication time")
	}
	if c.issuedAt.IsZero() {
		missing("issued at")
	}
	if c.expiration.IsZero() {
		missing("expiration")
	}
	// json.Marshal replaces invalid UTF-8, so those values wouldn't survive
	// an encoding.
	for _, attr := range []struct{ name, v string }{
		{"id", c.id},
		{"client id", c.clientID},
		{"issuer", c.issuer},
		{"user principal", c.userPrincipal},
		{"subject", c.subject},
		{"acr", c.acr},
		{"redirect uri", c.redirectURI},
		{"nonce", c.nonce},
		{"session id", c.sessionID},
	} {
		if !utf8.ValidString(attr.v) {
			errs = multierror.Append(errs, fmt.Errorf("%s %q is not valid UTF-8: %w", attr.name, attr.v, ErrInvalidAttribute))
		}
	}
	for _, names := range [][]string{c.consentableClaims, c.consentedClaims} {
		for _, n := range names {
			if !utf8.ValidString(n) {
				errs = multierror.Append(errs, fmt.Errorf("claim name %q is not valid UTF-8: %w", n, ErrInvalidAttribute))
			}
		}
	}
	if !c.issuedAt.IsZero() && !c.expiration.IsZero() && !c.expiration.After(c.issuedAt) {
		errs = multierror.Append(errs, fmt.Errorf("expiration %s not after issued at %s: %w",
			c.expiration.Format(time.RFC3339), c.issuedAt.Format(time.RFC3339), ErrInvalidLifetime))
	}
	return errs.ErrorOrNil()
}

// document writes the shared attributes. Values are JSON native so the
// document parses the same whether or not it went through an encoding.
func (c *Common) document() map[string]interface{} {
	doc := map[string]interface{}{
		KeyType:          string(c.typ),
		KeyID:            c.id,
		KeyClientID:      c.clientID,
		KeyIssuer:        c.issuer,
		KeyUserPrincipal: c.userPrincipal,
		KeySubject:       c.subject,
		KeyACR:           c.acr,
		KeyIssuedAt:      numericDate(c.issuedAt),
		KeyExpiration:    numericDate(c.expiration),
		KeyAuthTime:      numericDate(c.authTime),
		KeyRedirectURI:   c.redirectURI,
	}
	if c.nonce != "" {
		doc[KeyNonce] = c.nonce
	}
	if c.sessionID != "" {
		doc[KeySessionID] = c.sessionID
	}
	if len(c.scope) > 0 {
		doc[KeyScope] = strings.Join(c.scope, " ")
	}
	putClaims(doc, KeyRequestedClaims, c.requestedClaims)
	putClaims(doc, KeyDeliveryClaims, c.deliveryClaims)
	putClaims(doc, KeyDeliveryClaimsUserInfo, c.userInfoDeliveryClaims)
	putNames(doc, KeyConsentableClaims, c.consentableClaims)
	putNames(doc, KeyConsentedClaims, c.consentedClaims)
	return doc
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Unix(t.Unix(), 0).UTC()
}

func normalizeScope(scope []string) ([]string, error) {
	scope = strutils.RemoveDuplicatesStable(scope, false)
	var errs *multierror.Error
	for _, s := range scope {
		if !isScopeToken(s) {
			errs = multierror.Append(errs, fmt.Errorf("scope value %q is not a scope token: %w", s, ErrInvalidAttribute))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return strutils.Clone(scope), nil
}

// isScopeToken reports whether s is a scope-token as defined by RFC 6749
// section 3.3: one or more of %x21 / %x23-5B / %x5D-7E.
func isScopeToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == 0x21, c >= 0x23 && c <= 0x5B, c >= 0x5D && c <= 0x7E:
		default:
			return false
		}
	}
	return true
}

func normalizeNames(names []string) []string {
	return strutils.Clone(strutils.RemoveDuplicatesStable(names, false))
}

// normalizeClaims passes c through JSON so that what's stored is exactly what
// a parse of the encoded document yields.
func normalizeClaims(name string, c map[string]interface{}) (map[string]interface{}, error) {
	if len(c) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%s are not JSON encodable: %w: %w", name, ErrInvalidAttribute, err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%s are not JSON decodable: %w: %w", name, ErrInvalidAttribute, err)
	}
	return out, nil
}

func numericDate(t time.Time) json.Number {
	return json.Number(strconv.FormatInt(t.Unix(), 10))
}

func putClaims(doc map[string]interface{}, key string, c map[string]interface{}) {
	if len(c) > 0 {
		doc[key] = copyClaims(c)
	}
}

func putNames(doc map[string]interface{}, key string, names []string) {
	if len(names) == 0 {
		return
	}
	v := make([]interface{}, 0, len(names))
	for _, n := range names {
		v = append(v, n)
	}
	doc[key] = v
}

func copyClaims(c map[string]interface{}) map[string]interface{} {
	if c == nil {
		return nil
	}
	return deepCopy(c).(map[string]interface{})
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		cp := make(map[string]interface{}, len(t))
		for k, e := range t {
			cp[k] = deepCopy(e)
		}
		return cp
	case []interface{}:
		cp := make([]interface{}, len(t))
		for i, e := range t {
			cp[i] = deepCopy(e)
		}
		return cp
	default:
		return v
	}
}
