// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package token issues authorization codes, redeems them for access tokens,
// and validates access tokens. Every artifact is a claims set sealed by a
// claims.Sealer, so the issuer keeps no per-token state.
package token

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/hashicorp/cap-tokenclaims/claims"
	"github.com/hashicorp/cap-tokenclaims/id"
	"github.com/hashicorp/cap-tokenclaims/internal/strutils"
)

// Grant is what the authorization endpoint decided for an authenticated
// user. IssueCode turns it into an authorization code.
type Grant struct {
	ClientID           string
	RedirectURI        string
	UserPrincipal      string
	Subject            string
	ACR                string
	AuthenticationTime time.Time

	Nonce     string
	Scope     []string
	SessionID string

	RequestedClaims        map[string]interface{}
	DeliveryClaims         map[string]interface{}
	IDTokenDeliveryClaims  map[string]interface{}
	UserInfoDeliveryClaims map[string]interface{}
	ConsentableClaims      []string
	ConsentedClaims        []string

	// CodeChallenge binds the code to a PKCE verifier.
	CodeChallenge *claims.CodeChallenge
}

// Response is the result of redeeming an authorization code.
type Response struct {
	// AccessToken is the sealed access token.
	AccessToken AccessToken

	// Claims are the claims sealed in AccessToken.
	Claims *claims.AccessToken

	// Token is the token endpoint response. Its AccessToken is the sealed
	// access token and its "scope" extra is the granted scope.
	Token *oauth2.Token
}

// Issuer issues and validates sealed authorization codes and access tokens.
// It's safe for concurrent use when its sealer and id strategy are.
type Issuer struct {
	cfg    *Config
	sealer claims.Sealer
	ids    id.Strategy
}

// NewIssuer creates an Issuer. ids assigns the id of every authorization code
// and every access token issued directly; an access token redeemed from a code
// keeps the code's id.
func NewIssuer(cfg *Config, sealer claims.Sealer, ids id.Strategy) (*Issuer, error) {
	const op = "token.NewIssuer"
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sealer == nil {
		return nil, fmt.Errorf("%s: sealer is nil: %w", op, ErrNilParameter)
	}
	if ids == nil {
		return nil, fmt.Errorf("%s: id strategy is nil: %w", op, ErrNilParameter)
	}
	return &Issuer{cfg: cfg, sealer: sealer, ids: ids}, nil
}

// IssueCode builds the authorization code for g and seals it.
func (i *Issuer) IssueCode(g *Grant) (AuthorizationCode, *claims.AuthorizeCode, error) {
	const op = "token.(Issuer).IssueCode"
	if g == nil {
		return "", nil, fmt.Errorf("%s: grant is nil: %w", op, ErrNilParameter)
	}
	now := i.cfg.Now()
	opts := []claims.Option{
		claims.WithNonce(g.Nonce),
		claims.WithScope(g.Scope...),
		claims.WithSessionID(g.SessionID),
		claims.WithRequestedClaims(g.RequestedClaims),
		claims.WithDeliveryClaims(g.DeliveryClaims),
		claims.WithIDTokenDeliveryClaims(g.IDTokenDeliveryClaims),
		claims.WithUserInfoDeliveryClaims(g.UserInfoDeliveryClaims),
		claims.WithConsentableClaims(g.ConsentableClaims...),
		claims.WithConsentedClaims(g.ConsentedClaims...),
	}
	if g.CodeChallenge != nil {
		opts = append(opts, claims.WithCodeChallenge(*g.CodeChallenge))
	}
	ac, err := claims.NewAuthorizeCode(i.ids, i.params(g, now, now.Add(i.cfg.CodeLifetime)), opts...)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidParameter, err)
	}
	sealed, err := ac.Seal(i.sealer)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	i.cfg.Logger.Debug("issued authorization code", "op", op, "jti", ac.ID(), "client_id", ac.ClientID(), "exp", ac.Expiration())
	return AuthorizationCode(sealed), ac, nil
}

// IssueAccessToken builds an access token for g directly, without an
// authorization code, and seals it. The grant's ID token delivery claims and
// code challenge are ignored.
func (i *Issuer) IssueAccessToken(g *Grant) (*Response, error) {
	const op = "token.(Issuer).IssueAccessToken"
	if g == nil {
		return nil, fmt.Errorf("%s: grant is nil: %w", op, ErrNilParameter)
	}
	now := i.cfg.Now()
	at, err := claims.NewAccessToken(i.ids, i.params(g, now, now.Add(i.cfg.AccessTokenLifetime)),
		claims.WithNonce(g.Nonce),
		claims.WithScope(g.Scope...),
		claims.WithSessionID(g.SessionID),
		claims.WithRequestedClaims(g.RequestedClaims),
		claims.WithDeliveryClaims(g.DeliveryClaims),
		claims.WithUserInfoDeliveryClaims(g.UserInfoDeliveryClaims),
		claims.WithConsentableClaims(g.ConsentableClaims...),
		claims.WithConsentedClaims(g.ConsentedClaims...),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidParameter, err)
	}
	resp, err := i.respond(at)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

// RedeemCode exchanges a sealed authorization code for an access token. The
// code must have been issued to clientID for redirectURI. If the code is
// bound to a PKCE challenge, verifier must satisfy it.
//
// Supported options:
//   - WithScope
//   - WithDeliveryClaims
//   - WithUserInfoDeliveryClaims
func (i *Issuer) RedeemCode(code AuthorizationCode, clientID, redirectURI, verifier string, opt ...Option) (*Response, error) {
	const op = "token.(Issuer).RedeemCode"
	reject := func(reason string, err error) error {
		i.cfg.Logger.Debug("rejecting authorization code", "op", op, "client_id", clientID, "reason", reason)
		if err != nil {
			return fmt.Errorf("%s: %s: %w: %w", op, reason, ErrInvalidGrant, err)
		}
		return fmt.Errorf("%s: %s: %w", op, reason, ErrInvalidGrant)
	}
	if code == "" {
		return nil, reject("code is empty", nil)
	}
	ac, err := claims.ParseSealedAuthorizeCode(string(code), i.sealer)
	if err != nil {
		return nil, reject("code is invalid", err)
	}
	if ac.IsExpired(claims.WithNow(i.cfg.Now)) {
		return nil, reject("code is expired", nil)
	}
	if ac.Issuer() != i.cfg.Issuer {
		return nil, reject("code was issued by "+ac.Issuer(), nil)
	}
	if ac.ClientID() != clientID {
		return nil, reject("code was issued to another client", nil)
	}
	if ac.RedirectURI() != redirectURI {
		return nil, reject("redirect uri does not match", nil)
	}
	if err := verifyCodeChallenge(ac, verifier); err != nil {
		return nil, reject("code verifier does not match", err)
	}

	opts := getRedeemOpts(opt...)
	scope := ac.Scope()
	if opts.withScope != nil {
		for _, s := range opts.withScope {
			if !ac.HasScope(s) {
				return nil, fmt.Errorf("%s: scope %q was not granted: %w", op, s, ErrInvalidParameter)
			}
		}
		scope = strutils.RemoveDuplicatesStable(opts.withScope, false)
	}
	dl := ac.DeliveryClaims()
	if opts.withDeliveryClaims != nil {
		dl = opts.withDeliveryClaims
	}
	ui := ac.DeliveryClaimsForUserInfo()
	if opts.withUserInfoDeliveryClaims != nil {
		ui = opts.withUserInfoDeliveryClaims
	}

	now := i.cfg.Now()
	at, err := claims.NewAccessTokenFromCode(ac, scope, dl, ui, now, now.Add(i.cfg.AccessTokenLifetime))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := i.respond(at)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

// ValidateAccessToken unseals and checks an access token issued by i.
func (i *Issuer) ValidateAccessToken(token AccessToken) (*claims.AccessToken, error) {
	const op = "token.(Issuer).ValidateAccessToken"
	reject := func(reason string, err error) error {
		i.cfg.Logger.Debug("rejecting access token", "op", op, "reason", reason)
		if err != nil {
			return fmt.Errorf("%s: %s: %w: %w", op, reason, ErrInvalidToken, err)
		}
		return fmt.Errorf("%s: %s: %w", op, reason, ErrInvalidToken)
	}
	if token == "" {
		return nil, reject("token is empty", nil)
	}
	at, err := claims.ParseSealedAccessToken(string(token), i.sealer)
	if err != nil {
		return nil, reject("token is invalid", err)
	}
	if at.IsExpired(claims.WithNow(i.cfg.Now)) {
		return nil, reject("token is expired", nil)
	}
	if at.Issuer() != i.cfg.Issuer {
		return nil, reject("token was issued by "+at.Issuer(), nil)
	}
	return at, nil
}

func (i *Issuer) params(g *Grant, iat, exp time.Time) claims.Params {
	return claims.Params{
		ClientID:           g.ClientID,
		Issuer:             i.cfg.Issuer,
		UserPrincipal:      g.UserPrincipal,
		Subject:            g.Subject,
		ACR:                g.ACR,
		AuthenticationTime: g.AuthenticationTime,
		RedirectURI:        g.RedirectURI,
		IssuedAt:           iat,
		Expiration:         exp,
	}
}

func (i *Issuer) respond(at *claims.AccessToken) (*Response, error) {
	sealed, err := at.Seal(i.sealer)
	if err != nil {
		return nil, err
	}
	tk := &oauth2.Token{
		AccessToken: sealed,
		TokenType:   "Bearer",
		Expiry:      at.Expiration(),
		ExpiresIn:   int64(at.Expiration().Sub(i.cfg.Now()).Seconds()),
	}
	if scope := at.Scope(); len(scope) > 0 {
		tk = tk.WithExtra(map[string]interface{}{"scope": strings.Join(scope, " ")})
	}
	i.cfg.Logger.Debug("issued access token", "jti", at.ID(), "client_id", at.ClientID(), "exp", at.Expiration())
	return &Response{AccessToken: AccessToken(sealed), Claims: at, Token: tk}, nil
}

// verifyCodeChallenge checks verifier against the PKCE challenge of ac, per
// RFC 7636 section 4.6.
func verifyCodeChallenge(ac *claims.AuthorizeCode, verifier string) error {
	cc, ok := ac.CodeChallenge()
	if !ok {
		if verifier != "" {
			return errors.New("code is not bound to a code challenge")
		}
		return nil
	}
	if verifier == "" {
		return errors.New("code verifier is missing")
	}
	var computed string
	switch cc.Method {
	case claims.ChallengeS256:
		computed = oauth2.S256ChallengeFromVerifier(verifier)
	case claims.ChallengePlain:
		computed = verifier
	default:
		return fmt.Errorf("unsupported code challenge method %q", cc.Method)
	}
	if subtle.ConstantTimeCompare([]byte(computed), []byte(cc.Value)) != 1 {
		return errors.New("code challenge mismatch")
	}
	return nil
}
