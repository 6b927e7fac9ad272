// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package seal

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNilParameter     = errors.New("nil parameter")

	// ErrExpired means the token authenticated but its expiration has
	// passed.
	ErrExpired = errors.New("sealed token is expired")

	// ErrCorrupted means the token is malformed or failed authentication.
	ErrCorrupted = errors.New("sealed token is corrupted")

	// ErrUnrecognized means the token was sealed with a key this Sealer
	// doesn't know about.
	ErrUnrecognized = errors.New("sealed token is unrecognized")
)
