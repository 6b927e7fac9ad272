// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsSet is implemented by every concrete claims set.
type ClaimsSet interface {
	Type() Type
	ID() string
	ClientID() string
	Subject() string
	Expiration() time.Time

	// Document returns the raw, unsealed document.
	Document() jwt.MapClaims

	// Serialize returns the JSON encoding of Document.
	Serialize() (string, error)

	// Seal returns the opaque token for the claims set.
	Seal(s Sealer) (string, error)
}

// Parse reads the discriminator of a raw document and parses it as whichever
// claims set it names. Use ParseAuthorizeCode or ParseAccessToken when the
// expected type is known.
func Parse(raw string) (ClaimsSet, error) {
	const op = "claims.Parse"
	doc, err := unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	typ, err := discriminator(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch typ {
	case TypeAuthorizeCode:
		return AuthorizeCodeFromDocument(doc)
	case TypeAccessToken:
		return AccessTokenFromDocument(doc)
	default:
		return nil, fmt.Errorf("%s: unknown type %q: %w", op, typ, ErrTypeMismatch)
	}
}

func serialize(doc jwt.MapClaims) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshal(raw string) (jwt.MapClaims, error) {
	var doc jwt.MapClaims
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w: %w", ErrMalformedField, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after document: %w", ErrMalformedField)
	}
	if doc == nil {
		return nil, fmt.Errorf("document is null: %w", ErrMalformedField)
	}
	return doc, nil
}

func discriminator(doc jwt.MapClaims) (Type, error) {
	v, ok := doc[KeyType]
	if !ok {
		return "", fmt.Errorf("%q is absent: %w", KeyType, ErrTypeMismatch)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q is %T, not a string: %w", KeyType, v, ErrMalformedField)
	}
	return Type(s), nil
}

// checkType is the type guard. It runs before any other field is read.
func checkType(doc jwt.MapClaims, want Type) error {
	got, err := discriminator(doc)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("document is %q, not %q: %w", got, want, ErrTypeMismatch)
	}
	return nil
}

// reader reads typed fields from a document, keeping the first failure.
type reader struct {
	doc jwt.MapClaims
	err error
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%q: %w", key, err)
	}
}

func (r *reader) malformed(key string, v interface{}, want string) {
	r.fail(key, fmt.Errorf("is %T, not %s: %w", v, want, ErrMalformedField))
}

func (r *reader) optionalString(key string) string {
	v, ok := r.doc[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.malformed(key, v, "a string")
		return ""
	}
	return s
}

func (r *reader) requiredString(key string) string {
	v, ok := r.doc[key]
	if !ok {
		r.fail(key, ErrMissingField)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.malformed(key, v, "a string")
		return ""
	}
	if s == "" {
		r.fail(key, ErrMissingField)
	}
	return s
}

// registered reads iss and sub through the jwt.MapClaims accessors.
func (r *reader) registered(key string, get func() (string, error)) string {
	s, err := get()
	if err != nil {
		r.fail(key, fmt.Errorf("%w: %w", ErrMalformedField, err))
		return ""
	}
	if s == "" {
		r.fail(key, ErrMissingField)
	}
	return s
}

func (r *reader) registeredTime(key string, get func() (*jwt.NumericDate, error)) time.Time {
	d, err := get()
	if err != nil {
		r.fail(key, fmt.Errorf("%w: %w", ErrMalformedField, err))
		return time.Time{}
	}
	if d == nil {
		r.fail(key, ErrMissingField)
		return time.Time{}
	}
	return normalizeTime(d.Time)
}

func (r *reader) requiredTime(key string) time.Time {
	v, ok := r.doc[key]
	if !ok {
		r.fail(key, ErrMissingField)
		return time.Time{}
	}
	var secs float64
	switch n := v.(type) {
	case float64:
		secs = n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			r.fail(key, fmt.Errorf("%w: %w", ErrMalformedField, err))
			return time.Time{}
		}
		secs = f
	default:
		r.malformed(key, v, "a number")
		return time.Time{}
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		r.malformed(key, v, "a finite number")
		return time.Time{}
	}
	return normalizeTime(time.Unix(int64(secs), 0))
}

// scope splits on the space delimiter only. Any other byte outside the
// scope-token charset is malformed rather than a separator.
func (r *reader) scope(key string) []string {
	var scope []string
	for _, s := range strings.Split(r.optionalString(key), " ") {
		if s == "" {
			continue
		}
		if !isScopeToken(s) {
			r.fail(key, fmt.Errorf("value %q is not a scope token: %w", s, ErrMalformedField))
			return nil
		}
		scope = append(scope, s)
	}
	return normalizeNames(scope)
}

func (r *reader) names(key string) []string {
	v, ok := r.doc[key]
	if !ok {
		return nil
	}
	var names []string
	switch t := v.(type) {
	case []interface{}:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				r.malformed(key, e, "a string")
				return nil
			}
			names = append(names, s)
		}
	case []string:
		names = t
	default:
		r.malformed(key, v, "an array of strings")
		return nil
	}
	return normalizeNames(names)
}

func (r *reader) claims(key string) map[string]interface{} {
	v, ok := r.doc[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		r.malformed(key, v, "an object")
		return nil
	}
	c, err := normalizeClaims(key, m)
	if err != nil {
		r.fail(key, fmt.Errorf("%w: %w", ErrMalformedField, err))
		return nil
	}
	return c
}

// common reads the shared attributes. The caller has already run checkType.
func (r *reader) common(typ Type) Common {
	c := Common{
		typ:           typ,
		id:            r.requiredString(KeyID),
		clientID:      r.requiredString(KeyClientID),
		issuer:        r.registered(KeyIssuer, r.doc.GetIssuer),
		userPrincipal: r.requiredString(KeyUserPrincipal),
		subject:       r.registered(KeySubject, r.doc.GetSubject),
		acr:           r.requiredString(KeyACR),
		issuedAt:      r.registeredTime(KeyIssuedAt, r.doc.GetIssuedAt),
		expiration:    r.registeredTime(KeyExpiration, r.doc.GetExpirationTime),
		nonce:         r.optionalString(KeyNonce),
		authTime:      r.requiredTime(KeyAuthTime),
		redirectURI:   r.requiredString(KeyRedirectURI),
		scope:         r.scope(KeyScope),
		sessionID:     r.optionalString(KeySessionID),

		requestedClaims:        r.claims(KeyRequestedClaims),
		deliveryClaims:         r.claims(KeyDeliveryClaims),
		userInfoDeliveryClaims: r.claims(KeyDeliveryClaimsUserInfo),
		consentableClaims:      r.names(KeyConsentableClaims),
		consentedClaims:        r.names(KeyConsentedClaims),
	}
	if r.err != nil {
		return c
	}
	if err := c.validate(); err != nil {
		// every field is present and typed. What's left is a broken
		// invariant, like an expiration before issued at.
		r.err = fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	return c
}
