// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a snapshot stays valid.
const DefaultCacheTTL = time.Hour

// Clock abstracts time so TTL behavior is testable without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FetchFunc produces a fresh catalog snapshot. The cache invokes it on a
// miss or a forced refresh; retry policy lives inside the function, not
// in the cache.
type FetchFunc func(ctx context.Context) (FetchOutcome, error)

// CacheConfig configures an AliasCache.
type CacheConfig struct {
	// Fetch is required.
	Fetch FetchFunc

	// TTL defaults to DefaultCacheTTL.
	TTL time.Duration

	// Clock defaults to the system clock. Tests inject a fake.
	Clock Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// AliasCache holds the most recent successful fetch result with its
// timestamp. The snapshot is replaced wholesale on each successful
// refresh and never merged; it lives for the process lifetime.
//
// Reads return copies, so callers can never observe a refresh mid-write.
// Concurrent refreshes are collapsed into one in-flight fetch whose
// outcome every caller shares.
type AliasCache struct {
	fetch  FetchFunc
	ttl    time.Duration
	clock  Clock
	logger *slog.Logger

	group singleflight.Group

	mu        sync.RWMutex
	aliases   []PolicyAlias
	fetchedAt time.Time
}

// NewAliasCache builds an empty cache from cfg.
func NewAliasCache(cfg CacheConfig) *AliasCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AliasCache{
		fetch:  cfg.Fetch,
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// Valid reports whether the cache holds data younger than the TTL.
func (c *AliasCache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validLocked()
}

func (c *AliasCache) validLocked() bool {
	if len(c.aliases) == 0 || c.fetchedAt.IsZero() {
		return false
	}
	return c.clock.Now().Sub(c.fetchedAt) < c.ttl
}

// Age returns the snapshot age and whether a fetch ever succeeded.
func (c *AliasCache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return 0, false
	}
	return c.clock.Now().Sub(c.fetchedAt), true
}

// GetAliases returns the alias snapshot.
//
// Without forceRefresh a valid cache is returned as-is with no network
// activity. Otherwise the fetch function runs (concurrent callers share
// a single in-flight fetch); on success the snapshot is replaced
// wholesale and the timestamp advances. On failure, stale data is
// returned with a warning when any prior snapshot exists; with nothing
// to fall back to the error propagates.
func (c *AliasCache) GetAliases(ctx context.Context, forceRefresh bool) ([]PolicyAlias, error) {
	if !forceRefresh && c.Valid() {
		snap := c.snapshot()
		cacheHitsTotal.Inc()
		c.logger.Info("returning cached policy aliases", slog.Int("count", len(snap)))
		return snap, nil
	}

	cacheMissesTotal.Inc()
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		// Re-check under the flight: a caller that queued behind a
		// completed refresh should not trigger another one.
		if !forceRefresh && c.Valid() {
			return nil, nil
		}
		outcome, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.replace(outcome.Aliases)
		return nil, nil
	})
	if err != nil {
		if stale, ok := c.staleSnapshot(); ok {
			staleFallbacksTotal.Inc()
			c.logger.Warn("refresh failed, returning stale cache",
				slog.Int("count", len(stale)),
				slog.String("error", err.Error()),
			)
			return stale, nil
		}
		fetchFailuresTotal.Inc()
		return nil, err
	}
	return c.snapshot(), nil
}

// replace swaps in a new snapshot and stamps it.
func (c *AliasCache) replace(aliases []PolicyAlias) {
	c.mu.Lock()
	c.aliases = aliases
	c.fetchedAt = c.clock.Now()
	c.mu.Unlock()
	aliasesCached.Set(float64(len(aliases)))
}

// snapshot returns a copy of the cached sequence.
func (c *AliasCache) snapshot() []PolicyAlias {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PolicyAlias, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// staleSnapshot returns prior data regardless of TTL, and whether any
// exists to fall back to.
func (c *AliasCache) staleSnapshot() ([]PolicyAlias, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.aliases) == 0 {
		return nil, false
	}
	out := make([]PolicyAlias, len(c.aliases))
	copy(out, c.aliases)
	return out, true
}
