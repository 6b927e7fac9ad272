// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// tokenclaims provides a collection of related packages which issue and
// revalidate the short-lived artifacts of an OpenID Connect provider:
// authorization codes and access tokens.
//
// claims: the claims sets of authorization codes and access tokens, their
// raw JSON document codec and their sealed codec.
//
// seal: the sealing service which turns a raw document into an opaque,
// tamper-evident and expiring token.
//
// id: strategies for the unique "jti" of every claims set.
//
// lookup: request-side and response-side lookups of the values attached to a
// claims set, like the acr or the PKCE code challenge.
//
// token: an issuer which ties the rest together: it issues codes, redeems
// them for access tokens and validates access tokens.
package tokenclaims
