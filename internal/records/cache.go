// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package records

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mohansharma/civicledger/internal/platform/constants"
)

// Cache is an optional Redis read-through cache for registration-number
// lookups. It is an accelerator only: misses and Redis failures fall back
// to the document store, and the write path never consults it.
//
// A nil *Cache is valid and disables caching entirely.
type Cache struct {
	client *redis.Client
}

// NewCache creates a record lookup cache on the given client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

/*
GetBirth retrieves a cached birth record by registration number.

Returns:
  - *BirthRecord: The cached record, or nil on miss/disabled/error
*/
func (cache *Cache) GetBirth(ctx context.Context, regno string) *BirthRecord {
	if cache == nil {
		return nil
	}

	payload, err := cache.client.Get(ctx, constants.RedisPrefixBirth+regno).Bytes()
	if err != nil {
		// redis.Nil (miss) and connectivity failures are both treated as
		// a miss; the store remains the source of truth.
		return nil
	}

	record := &BirthRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil
	}
	return record
}

// SetBirth stores a birth record with the standard TTL. Failures are ignored.
func (cache *Cache) SetBirth(ctx context.Context, record *BirthRecord) {
	if cache == nil || record == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	_ = cache.client.Set(ctx, constants.RedisPrefixBirth+record.RegistrationNo, payload, constants.RecordCacheTTL).Err()
}

// GetDeath retrieves a cached death record by registration number.
func (cache *Cache) GetDeath(ctx context.Context, regno string) *DeathRecord {
	if cache == nil {
		return nil
	}

	payload, err := cache.client.Get(ctx, constants.RedisPrefixDeath+regno).Bytes()
	if err != nil {
		return nil
	}

	record := &DeathRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil
	}
	return record
}

// SetDeath stores a death record with the standard TTL. Failures are ignored.
func (cache *Cache) SetDeath(ctx context.Context, record *DeathRecord) {
	if cache == nil || record == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	_ = cache.client.Set(ctx, constants.RedisPrefixDeath+record.RegistrationNo, payload, constants.RecordCacheTTL).Err()
}

/*
InvalidateBirth drops the cached copy after an update or delete.

Description: Invalidation failures are returned so the caller can log them,
but a stale entry only lives until the TTL expires, so correctness never
depends on this call succeeding.
*/
func (cache *Cache) InvalidateBirth(ctx context.Context, regno string) error {
	if cache == nil {
		return nil
	}

	err := cache.client.Del(ctx, constants.RedisPrefixBirth+regno).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// InvalidateDeath drops the cached copy after an update or delete.
func (cache *Cache) InvalidateDeath(ctx context.Context, regno string) error {
	if cache == nil {
		return nil
	}

	err := cache.client.Del(ctx, constants.RedisPrefixDeath+regno).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
