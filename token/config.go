// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/cap-tokenclaims/internal/strutils"
)

// Config is the configuration of an Issuer.
type Config struct {
	// Issuer is the issuer identifier written to every claims set. It's a
	// case-sensitive URL using the https scheme (http is allowed for
	// development) with no query or fragment components.
	Issuer string

	// CodeLifetime is how long an authorization code can be redeemed.
	CodeLifetime time.Duration

	// AccessTokenLifetime is how long an access token is valid.
	AccessTokenLifetime time.Duration

	// Logger receives debug logs for issued artifacts and rejected
	// redemptions or validations.
	Logger hclog.Logger

	// Now is the issuer's clock.
	Now func() time.Time
}

// NewConfig composes a new config for an issuer.
//
// Supported options:
//   - WithCodeLifetime
//   - WithAccessTokenLifetime
//   - WithLogger
//   - WithNow
func NewConfig(issuer string, opt ...Option) (*Config, error) {
	const op = "token.NewConfig"
	opts := getConfigOpts(opt...)
	c := &Config{
		Issuer:              issuer,
		CodeLifetime:        opts.withCodeLifetime,
		AccessTokenLifetime: opts.withAccessTokenLifetime,
		Logger:              opts.withLogger,
		Now:                 opts.withNow,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	return c, nil
}

// Validate the issuer configuration.
func (c *Config) Validate() error {
	const op = "token.(Config).Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if c.Issuer == "" {
		return fmt.Errorf("%s: issuer is empty: %w", op, ErrInvalidParameter)
	}
	u, err := url.Parse(c.Issuer)
	if err != nil {
		return fmt.Errorf("%s: issuer %s is invalid: %w: %w", op, c.Issuer, ErrInvalidParameter, err)
	}
	if !strutils.StrListContains([]string{"https", "http"}, u.Scheme) {
		return fmt.Errorf("%s: issuer %s schema is not http or https: %w", op, c.Issuer, ErrInvalidParameter)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%s: issuer %s has a query or fragment: %w", op, c.Issuer, ErrInvalidParameter)
	}
	if c.CodeLifetime <= 0 {
		return fmt.Errorf("%s: code lifetime must be positive: %w", op, ErrInvalidParameter)
	}
	if c.AccessTokenLifetime <= 0 {
		return fmt.Errorf("%s: access token lifetime must be positive: %w", op, ErrInvalidParameter)
	}
	if c.Logger == nil {
		return fmt.Errorf("%s: logger is nil: %w", op, ErrNilParameter)
	}
	if c.Now == nil {
		return fmt.Errorf("%s: clock is nil: %w", op, ErrNilParameter)
	}
	return nil
}
