// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package lookup

import (
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/require"
)

// testRequestObject signs c as a request object.
func testRequestObject(t *testing.T, c map[string]interface{}) string {
	t.Helper()
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte("request-object-test-secret-32byt")},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)
	ro, err := jwt.Signed(signer).Claims(c).Serialize()
	require.NoError(t, err)
	return ro
}
