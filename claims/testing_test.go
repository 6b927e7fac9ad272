// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package claims

import (
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/cap-tokenclaims/id"
)

var (
	testIssuedAt = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	testAuthTime = testIssuedAt.Add(-2 * time.Minute)
)

// testIDs returns a strategy yielding "jti-1", "jti-2", ...
func testIDs() id.Strategy {
	var n int64
	return id.StrategyFunc(func() (string, error) {
		return "jti-" + strconv.FormatInt(atomic.AddInt64(&n, 1), 10), nil
	})
}

func testParams() Params {
	return Params{
		ClientID:           "rp1",
		Issuer:             "https://op.example.org",
		UserPrincipal:      "alice@example.org",
		Subject:            "alice",
		ACR:                "urn:oasis:names:tc:SAML:2.0:ac:classes:PasswordProtectedTransport",
		AuthenticationTime: testAuthTime,
		RedirectURI:        "https://rp1.example.org/cb",
		IssuedAt:           testIssuedAt,
		Expiration:         testIssuedAt.Add(5 * time.Minute),
	}
}

func testAllOptions() []Option {
	return []Option{
		WithNonce("n-0S6_WzA2Mj"),
		WithScope("openid", "profile", "email"),
		WithSessionID("idp-session-1"),
		WithRequestedClaims(map[string]interface{}{
			"userinfo": map[string]interface{}{"email": nil},
		}),
		WithDeliveryClaims(map[string]interface{}{"name": "Alice", "age": 42}),
		WithUserInfoDeliveryClaims(map[string]interface{}{"email": "alice@example.org"}),
		WithConsentableClaims("name", "email", "age"),
		WithConsentedClaims("name", "email"),
	}
}

// testLiveParams are testParams with a lifetime around the current time, for
// tests that go through a Sealer.
func testLiveParams() Params {
	p := testParams()
	p.IssuedAt = time.Now()
	p.Expiration = p.IssuedAt.Add(5 * time.Minute)
	return p
}

func testAuthorizeCode(t *testing.T, opt ...Option) *AuthorizeCode {
	t.Helper()
	ac, err := NewAuthorizeCode(testIDs(), testParams(), opt...)
	require.NoError(t, err)
	return ac
}

// cmpOpts lets cmp compare the unexported attributes of claims sets.
var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(Common{}, AuthorizeCode{}, AccessToken{}),
}
