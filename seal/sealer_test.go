// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package seal

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T, id string) Key {
	t.Helper()
	k, err := GenerateKey(id)
	require.NoError(t, err)
	return k
}

func TestNewSealer(t *testing.T) {
	t.Parallel()
	k1 := testKey(t, "k1")
	tests := []struct {
		name      string
		active    Key
		opt       []Option
		wantIsErr error
	}{
		{
			name:   "valid",
			active: k1,
		},
		{
			name:      "missing-key-id",
			active:    Key{Secret: k1.Secret},
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "short-secret",
			active:    Key{ID: "short", Secret: []byte("too short")},
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "duplicate-retired",
			active:    k1,
			opt:       []Option{WithRetiredKeys(Key{ID: "k1", Secret: k1.Secret})},
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "invalid-retired",
			active:    k1,
			opt:       []Option{WithRetiredKeys(Key{ID: "k0"})},
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "negative-skew",
			active:    k1,
			opt:       []Option{WithExpirySkew(-time.Second)},
			wantIsErr: ErrInvalidParameter,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			s, err := NewSealer(tt.active, tt.opt...)
			if tt.wantIsErr != nil {
				require.Error(err)
				assert.Nil(s)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted \"%s\" but got \"%s\"", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			assert.Equal(tt.active.ID, s.ActiveKeyID())
		})
	}
}

func TestSealer_RoundTrip(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	s, err := NewSealer(testKey(t, "k1"))
	require.NoError(err)

	payload := []byte(`{"type":"at","sub":"alice"}`)
	token, err := s.Seal(payload, time.Now().Add(time.Minute))
	require.NoError(err)
	assert.NotContains(token, "alice")
	assert.Len(strings.Split(token, "."), 5)

	got, err := s.Unseal(token)
	require.NoError(err)
	assert.Equal(payload, got)

	_, err = s.Seal(payload, time.Time{})
	assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
}

func TestSealer_Expired(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s, err := NewSealer(testKey(t, "k1"), WithNow(clock), WithExpirySkew(5*time.Second))
	require.NoError(err)

	token, err := s.Seal([]byte("payload"), now.Add(-3*time.Second))
	require.NoError(err)
	_, err = s.Unseal(token)
	require.NoError(err, "within skew")

	token, err = s.Seal([]byte("payload"), now.Add(-time.Minute))
	require.NoError(err)
	_, err = s.Unseal(token)
	require.Error(err)
	assert.Truef(errors.Is(err, ErrExpired), "wanted \"%s\" but got \"%s\"", ErrExpired, err)
}

func TestSealer_Rotation(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	old, current := testKey(t, "2026-01"), testKey(t, "2026-02")

	before, err := NewSealer(old)
	require.NoError(err)
	token, err := before.Seal([]byte("payload"), time.Now().Add(time.Minute))
	require.NoError(err)

	after, err := NewSealer(current, WithRetiredKeys(old))
	require.NoError(err)
	got, err := after.Unseal(token)
	require.NoError(err)
	assert.Equal([]byte("payload"), got)

	foreign, err := NewSealer(current)
	require.NoError(err)
	_, err = foreign.Unseal(token)
	require.Error(err)
	assert.Truef(errors.Is(err, ErrUnrecognized), "wanted \"%s\" but got \"%s\"", ErrUnrecognized, err)
}

func TestSealer_WrongSecretSameID(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	a, err := NewSealer(testKey(t, "shared"))
	require.NoError(err)
	b, err := NewSealer(testKey(t, "shared"))
	require.NoError(err)
	token, err := a.Seal([]byte("payload"), time.Now().Add(time.Minute))
	require.NoError(err)
	_, err = b.Unseal(token)
	require.Error(err)
	assert.Truef(errors.Is(err, ErrCorrupted), "wanted \"%s\" but got \"%s\"", ErrCorrupted, err)
}

func TestSealer_Tampered(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, err := NewSealer(testKey(t, "k1"))
	require.NoError(err)
	token, err := s.Seal([]byte(`{"type":"ac"}`), time.Now().Add(time.Minute))
	require.NoError(err)

	for i := 0; i < len(token); i++ {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := s.Unseal(string(b))
		require.Errorf(err, "flipped byte %d of %q", i, token)
		isSealErr := errors.Is(err, ErrCorrupted) || errors.Is(err, ErrUnrecognized) || errors.Is(err, ErrExpired)
		require.Truef(isSealErr, "flipped byte %d: unexpected error %s", i, err)
	}

	for _, malformed := range []string{"", "abc", "a.b.c.d.e", token + "."} {
		_, err := s.Unseal(malformed)
		require.Error(err)
		require.Truef(errors.Is(err, ErrCorrupted), "%q: wanted \"%s\" but got \"%s\"", malformed, ErrCorrupted, err)
	}
}

func TestSealer_Concurrent(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	s, err := NewSealer(testKey(t, "k1"))
	require.NoError(err)
	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := []byte{byte(i)}
			token, err := s.Seal(payload, time.Now().Add(time.Minute))
			if err != nil {
				errs <- err
				return
			}
			got, err := s.Unseal(token)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(payload, got) {
				errs <- errors.New("payload mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(err)
	}
}

func TestSealer_Logger(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
	s, err := NewSealer(testKey(t, "k1"), WithLogger(logger))
	require.NoError(err)
	_, err = s.Unseal("not a token")
	require.Error(err)
	assert.Contains(buf.String(), "rejecting malformed sealed token")
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	k1, err := DeriveKey("k1", []byte("correct horse battery staple"), []byte("salt"))
	require.NoError(err)
	require.NoError(k1.Validate())

	again, err := DeriveKey("k1", []byte("correct horse battery staple"), []byte("salt"))
	require.NoError(err)
	assert.Equal(k1.Secret, again.Secret)

	k2, err := DeriveKey("k2", []byte("correct horse battery staple"), []byte("salt"))
	require.NoError(err)
	assert.NotEqual(k1.Secret, k2.Secret)

	_, err = DeriveKey("", []byte("secret"), nil)
	assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
	_, err = DeriveKey("k3", nil, nil)
	assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
}

func TestKey_String(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	k := Key{ID: "k1", Secret: []byte("super secret key material......")}
	assert.Equal("k1 ("+RedactedSecret+")", k.String())
	assert.NotContains(k.String(), "super secret")
}
