// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")

	// ErrInvalidGrant is returned when an authorization code can't be
	// redeemed. It maps to the "invalid_grant" error of RFC 6749.
	ErrInvalidGrant = errors.New("invalid grant")

	// ErrInvalidToken is returned when an access token isn't valid. It maps
	// to the "invalid_token" error of RFC 6750.
	ErrInvalidToken = errors.New("invalid token")
)
