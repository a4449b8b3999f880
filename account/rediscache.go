// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// CachedStore wraps a canonical Store with a read-through cache, the same
// shape as the chat app's redisService.Get/Set pair in front of its
// session state: GetPublicKey is on the PublicKeyAnnouncement validation
// hot path (every transaction to a recipient with no announced key yet
// still asks), so a cache miss should cost one round trip, not a repeated
// one per retry.
type CachedStore struct {
	backend Store
	redis   *redis.Client
	ttl     time.Duration
	log     *logger.L
}

// NewCachedStore wraps backend with a redis-backed read-through cache.
// A zero ttl means cache entries never expire.
func NewCachedStore(backend Store, redisClient *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{backend: backend, redis: redisClient, ttl: ttl, log: logger.New("account")}
}

func cacheKey(id ID) string {
	return fmt.Sprintf("spa:account:pubkey:%d", int64(id))
}

func (c *CachedStore) GetPublicKey(ctx context.Context, id ID) (PublicKey, bool, error) {
	var key PublicKey

	cached, err := c.redis.Get(ctx, cacheKey(id)).Result()
	if nil == err {
		raw, decodeErr := hex.DecodeString(cached)
		if nil == decodeErr && len(raw) == PublicKeyLength {
			copy(key[:], raw)
			return key, true, nil
		}
	} else if err != redis.Nil {
		c.log.Warnf("redis get failed for account: %d  error: %s", int64(id), err)
		return key, false, errors.Wrap(err, "account: redis get failed")
	}

	key, ok, err := c.backend.GetPublicKey(ctx, id)
	if nil != err || !ok {
		return key, ok, err
	}

	if setErr := c.redis.Set(ctx, cacheKey(id), hex.EncodeToString(key[:]), c.ttl).Err(); nil != setErr {
		c.log.Warnf("redis set failed for account: %d  error: %s", int64(id), setErr)
		return key, ok, errors.Wrap(setErr, "account: redis set failed")
	}
	return key, ok, nil
}

func (c *CachedStore) SetOrVerify(ctx context.Context, id ID, key PublicKey) (bool, error) {
	fresh, err := c.backend.SetOrVerify(ctx, id, key)
	if nil != err {
		return fresh, err
	}
	if fresh {
		if setErr := c.redis.Set(ctx, cacheKey(id), hex.EncodeToString(key[:]), c.ttl).Err(); nil != setErr {
			c.log.Warnf("redis set failed for account: %d  error: %s", int64(id), setErr)
			return fresh, errors.Wrap(setErr, "account: redis set failed")
		}
	}
	return fresh, nil
}
