// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package id

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		prefix  string
		wantLen int
	}{
		{
			name:    "valid",
			prefix:  "id",
			wantLen: DefaultIDLength + len("id_"),
		},
		{
			name:    "no-prefix",
			prefix:  "",
			wantLen: DefaultIDLength,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			got, err := New(tt.prefix)
			require.NoError(err)
			if tt.prefix != "" {
				assert.Truef(strings.HasPrefix(got, tt.prefix+"_"), "New() = %v, wanted it to start with %v", got, tt.prefix)
			}
			assert.Equalf(tt.wantLen, len(got), "New() = %v, with len of %d and wanted len of %v", got, len(got), tt.wantLen)
		})
	}
}

func TestNewRandom(t *testing.T) {
	t.Parallel()
	t.Run("invalid-length", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRandom(WithLength(0))
		require.Error(err)
		assert.Nil(r)
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
	})
	t.Run("with-length", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRandom(WithLength(32), WithPrefix("at"))
		require.NoError(err)
		got, err := r.NextID()
		require.NoError(err)
		assert.Len(got, 32+len("at_"))
	})
	t.Run("failing-reader", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		r, err := NewRandom(WithReader(failingReader{}))
		require.NoError(err)
		_, err = r.NextID()
		require.Error(err)
		assert.Truef(errors.Is(err, ErrIDGeneratorFailed), "wanted \"%s\" but got \"%s\"", ErrIDGeneratorFailed, err)
	})
}

func TestNewUUID(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	u := NewUUID(WithPrefix("ac"))
	got, err := u.NextID()
	require.NoError(err)
	assert.True(strings.HasPrefix(got, "ac_"))
	assert.Len(got, len("ac_")+36)
}

func TestNewULID(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := NewULID(WithNow(func() time.Time { return fixed }))
	first, err := u.NextID()
	require.NoError(err)
	second, err := u.NextID()
	require.NoError(err)
	assert.NotEqual(first, second)
	// monotonic within the same millisecond
	assert.Less(first, second)
}

func TestNewRedisCounter(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	t.Run("missing-params", func(t *testing.T) {
		assert := assert.New(t)
		_, err := NewRedisCounter(nil, "k", "n")
		assert.Truef(errors.Is(err, ErrNilParameter), "wanted \"%s\" but got \"%s\"", ErrNilParameter, err)
		_, err = NewRedisCounter(client, "", "n")
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
		_, err = NewRedisCounter(client, "k", "")
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
		_, err = NewRedisCounter(client, "k", "n", WithTimeout(0))
		assert.Truef(errors.Is(err, ErrInvalidParameter), "wanted \"%s\" but got \"%s\"", ErrInvalidParameter, err)
	})
	t.Run("counts", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewRedisCounter(client, "jti-counter", "node1", WithPrefix("at"))
		require.NoError(err)
		got, err := c.NextID()
		require.NoError(err)
		assert.Equal("at_node1-1", got)
		got, err = c.NextID()
		require.NoError(err)
		assert.Equal("at_node1-2", got)
	})
	t.Run("redis-down", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		down := miniredis.RunT(t)
		dc := redis.NewClient(&redis.Options{Addr: down.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = dc.Close() })
		c, err := NewRedisCounter(dc, "k", "n", WithTimeout(time.Second))
		require.NoError(err)
		down.Close()
		_, err = c.NextID()
		require.Error(err)
		assert.Truef(errors.Is(err, ErrIDGeneratorFailed), "wanted \"%s\" but got \"%s\"", ErrIDGeneratorFailed, err)
	})
}

func TestStrategy_Concurrent(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	random, err := NewRandom()
	require.NoError(t, err)
	counter, err := NewRedisCounter(client, "concurrent", "node1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		strategy Strategy
	}{
		{name: "random", strategy: random},
		{name: "uuid", strategy: NewUUID()},
		{name: "ulid", strategy: NewULID()},
		{name: "redis-counter", strategy: counter},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			const n = 200
			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				seen = make(map[string]struct{}, n)
				errs []error
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					got, err := tt.strategy.NextID()
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						errs = append(errs, err)
						return
					}
					seen[got] = struct{}{}
				}()
			}
			wg.Wait()
			require.Empty(errs)
			assert.Len(seen, n)
		})
	}
}

func TestStrategyFunc(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	var s Strategy = StrategyFunc(func() (string, error) { return "fixed", nil })
	got, err := s.NextID()
	require.NoError(err)
	assert.Equal("fixed", got)
}

func Test_WithPrefix(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	opts := getIDOpts(WithPrefix("alice"), WithLength(5), WithTimeout(time.Minute))
	testOpts := idDefaults()
	testOpts.withPrefix = "alice"
	testOpts.withLength = 5
	testOpts.withTimeout = time.Minute
	assert.Equal(testOpts.withPrefix, opts.withPrefix)
	assert.Equal(testOpts.withLength, opts.withLength)
	assert.Equal(testOpts.withTimeout, opts.withTimeout)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }
