// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is matched by every error caused by building a claims
	// set from invalid attributes. Retrying with the same attributes will
	// fail again.
	ErrConstruction     = errors.New("invalid claims set")
	ErrMissingAttribute = fmt.Errorf("%w: missing attribute", ErrConstruction)
	ErrInvalidAttribute = fmt.Errorf("%w: invalid attribute", ErrConstruction)
	ErrInvalidLifetime  = fmt.Errorf("%w: expiration is not after issued at", ErrConstruction)

	// ErrParse is matched by every error caused by a document which doesn't
	// yield a valid claims set of the requested type.
	ErrParse          = errors.New("unable to parse claims set")
	ErrMissingField   = fmt.Errorf("%w: missing field", ErrParse)
	ErrMalformedField = fmt.Errorf("%w: malformed field", ErrParse)
	ErrTypeMismatch   = fmt.Errorf("%w: type mismatch", ErrParse)

	// ErrSeal is matched when the sealing service rejected a token. The
	// sealing service's own error is wrapped as well.
	ErrSeal = errors.New("unable to unseal claims set")

	ErrNilParameter = errors.New("nil parameter")
)
