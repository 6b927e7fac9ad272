// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import "encoding/json"

// AuthorizationCode is a sealed authorization code.
type AuthorizationCode string

// RedactedAuthorizationCode is the redacted string or json for an
// authorization code
const RedactedAuthorizationCode = "[REDACTED: authorization code]"

// String will redact the code
func (c AuthorizationCode) String() string {
	return RedactedAuthorizationCode
}

// MarshalJSON will redact the code
func (c AuthorizationCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedAuthorizationCode)
}

// AccessToken is a sealed access token.
type AccessToken string

// RedactedAccessToken is the redacted string or json for an access token
const RedactedAccessToken = "[REDACTED: access token]"

// String will redact the token
func (t AccessToken) String() string {
	return RedactedAccessToken
}

// MarshalJSON will redact the token
func (t AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedAccessToken)
}
