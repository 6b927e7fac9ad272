// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
Package claims contains the immutable claims sets an OpenID Provider issues as
authorization codes and access tokens, and the codec which turns them into
strings and back.

A claims set is built once by the issuance path, either from scratch with
NewAuthorizeCode / NewAccessToken, or for an access token by projecting an
existing authorization code with NewAccessTokenFromCode. It is never modified
after that; a refresh is a brand new claims set.

# Raw codec

Document returns the claims set as a jwt.MapClaims carrying a "type"
discriminator ("ac" or "at"); Serialize returns its JSON encoding.
ParseAuthorizeCode and ParseAccessToken reverse it. The discriminator is
checked before anything else is read, so an authorization code can never be
parsed as an access token:

	raw, _ := code.Serialize()
	_, err := claims.ParseAccessToken(raw)
	errors.Is(err, claims.ErrTypeMismatch) // true

# Sealed codec

The raw form must not leave the provider. Seal hands the raw encoding to a
Sealer and returns the opaque token; ParseSealedAuthorizeCode and
ParseSealedAccessToken unseal and then parse. Unseal failures match ErrSeal,
parse failures match ErrParse, so callers can tell a tampered or expired token
from a structurally invalid one.
*/
package claims
