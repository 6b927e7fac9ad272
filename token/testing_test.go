// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package token

import (
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/cap-tokenclaims/claims"
	"github.com/hashicorp/cap-tokenclaims/id"
	"github.com/hashicorp/cap-tokenclaims/seal"
)

const (
	testIssuer   = "https://op.example.org"
	testClientID = "rp1"
	testRedirect = "https://rp1.example.org/cb"
	// testChallenge is the S256 challenge of testVerifier
	testVerifier  = "dBjftJeZ4CVP-mJ92K9EeFmWm-Qg4-gZcEOK9Me3Eyg"
	testChallenge = "1-XA1vJ59wLFLP8EQQBcDnn3rQ_8KCkeb0t3ihFqut8"
)

// testClock is a clock tests can move forward.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testIssuerWithClock(t *testing.T, clock *testClock, opt ...Option) *Issuer {
	t.Helper()
	require := require.New(t)
	k, err := seal.GenerateKey("k1")
	require.NoError(err)
	s, err := seal.NewSealer(k, seal.WithNow(clock.Now))
	require.NoError(err)
	cfg, err := NewConfig(testIssuer, append([]Option{WithNow(clock.Now), WithLogger(hclog.NewNullLogger())}, opt...)...)
	require.NoError(err)
	ids, err := id.NewRandom(id.WithPrefix("tok"))
	require.NoError(err)
	i, err := NewIssuer(cfg, s, ids)
	require.NoError(err)
	return i
}

func testGrant(clock *testClock) *Grant {
	return &Grant{
		ClientID:           testClientID,
		RedirectURI:        testRedirect,
		UserPrincipal:      "alice@example.org",
		Subject:            "alice",
		ACR:                "urn:oasis:names:tc:SAML:2.0:ac:classes:PasswordProtectedTransport",
		AuthenticationTime: clock.Now().Add(-time.Minute),
		Nonce:              "n-0S6_WzA2Mj",
		Scope:              []string{"openid", "profile", "email"},
		DeliveryClaims:     map[string]interface{}{"name": "Alice"},
		IDTokenDeliveryClaims: map[string]interface{}{
			"email_verified": true,
		},
		UserInfoDeliveryClaims: map[string]interface{}{"email": "alice@example.org"},
		ConsentedClaims:        []string{"name", "email"},
		CodeChallenge:          &claims.CodeChallenge{Value: testChallenge, Method: claims.ChallengeS256},
	}
}
