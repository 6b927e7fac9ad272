// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package id

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter generates "<node>-<n>" identifiers where n comes from an
// atomic INCR on a shared Redis key. Issuers sharing the key never collide,
// and the node component keeps IDs distinct if the key is ever reset on one
// node's Redis but not another's.
type RedisCounter struct {
	client  redis.UniversalClient
	key     string
	node    string
	prefix  string
	timeout time.Duration
}

var _ Strategy = (*RedisCounter)(nil)

// NewRedisCounter creates a counter+node Strategy backed by Redis.
// Supported options: WithPrefix, WithTimeout
func NewRedisCounter(client redis.UniversalClient, key, node string, opt ...Option) (*RedisCounter, error) {
	const op = "id.NewRedisCounter"
	if client == nil {
		return nil, fmt.Errorf("%s: redis client is nil: %w", op, ErrNilParameter)
	}
	if key == "" {
		return nil, fmt.Errorf("%s: counter key is empty: %w", op, ErrInvalidParameter)
	}
	if node == "" {
		return nil, fmt.Errorf("%s: node id is empty: %w", op, ErrInvalidParameter)
	}
	opts := getIDOpts(opt...)
	if opts.withTimeout <= 0 {
		return nil, fmt.Errorf("%s: timeout must be greater than zero: %w", op, ErrInvalidParameter)
	}
	return &RedisCounter{
		client:  client,
		key:     key,
		node:    node,
		prefix:  opts.withPrefix,
		timeout: opts.withTimeout,
	}, nil
}

// NextID implements Strategy. Each call is bounded by the configured timeout.
func (r *RedisCounter) NextID() (string, error) {
	const op = "id.(RedisCounter).NextID"
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	n, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return "", fmt.Errorf("%s: unable to increment %q: %w: %w", op, r.key, ErrIDGeneratorFailed, err)
	}
	return withPrefix(r.prefix, r.node+"-"+strconv.FormatInt(n, 10)), nil
}
