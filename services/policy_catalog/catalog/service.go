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
	"sort"
	"time"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Client is required.
	Client RemoteCatalogClient

	// Workers bounds the fan-out. Default: DefaultFetchWorkers.
	Workers int

	// TTL is the cache lifetime. Default: DefaultCacheTTL.
	TTL time.Duration

	// Retry governs the outer fetch retry. Zero value means defaults.
	Retry RetryConfig

	// Clock is injected by tests. Default: system clock.
	Clock Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Service is the public surface of the catalog engine: cached alias
// retrieval plus the aggregation operations layered on top of it.
// All read-only operations go through the cache without forcing a
// refresh.
type Service struct {
	fetcher *Fetcher
	cache   *AliasCache
	retry   RetryConfig
	logger  *slog.Logger
}

// NewService wires retry, fetcher, and cache together.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retry := cfg.Retry
	if retry.MaxRetries == 0 && retry.BaseDelay == 0 {
		retry = DefaultRetryConfig()
	}

	s := &Service{
		fetcher: NewFetcher(cfg.Client, cfg.Workers, logger),
		retry:   retry,
		logger:  logger,
	}
	s.cache = NewAliasCache(CacheConfig{
		Fetch:  s.fetchWithRetry,
		TTL:    cfg.TTL,
		Clock:  cfg.Clock,
		Logger: logger,
	})
	return s
}

// fetchWithRetry is the unit the cache runs on a miss or forced refresh.
// The whole fan-out is what gets retried; per-namespace failures inside
// it never trigger the outer retry.
func (s *Service) fetchWithRetry(ctx context.Context) (FetchOutcome, error) {
	s.logger.Info("fetching policy aliases from management API")
	var outcome FetchOutcome
	err := Retry(ctx, s.retry, s.logger, func(ctx context.Context) error {
		var ferr error
		outcome, ferr = s.fetcher.FetchAll(ctx)
		return ferr
	})
	if err != nil {
		return FetchOutcome{}, err
	}
	return outcome, nil
}

// GetPolicyAliases returns the cached alias snapshot, fetching per the
// cache's TTL and fallback rules.
func (s *Service) GetPolicyAliases(ctx context.Context, forceRefresh bool) ([]PolicyAlias, error) {
	return s.cache.GetAliases(ctx, forceRefresh)
}

// CacheValid reports cache health without touching the network.
func (s *Service) CacheValid() bool {
	return s.cache.Valid()
}

// GetStatistics computes counts and cache health over the snapshot.
func (s *Service) GetStatistics(ctx context.Context) (Statistics, error) {
	aliases, err := s.cache.GetAliases(ctx, false)
	if err != nil {
		return Statistics{}, err
	}

	var agePtr *int64
	if age, fetched := s.cache.Age(); fetched {
		secs := int64(age.Seconds())
		agePtr = &secs
	}
	return buildStatistics(aliases, agePtr, s.cache.Valid()), nil
}

// SearchAliases filters the snapshot with AND-term search and an
// optional exact namespace filter.
func (s *Service) SearchAliases(ctx context.Context, query, namespaceFilter string) ([]PolicyAlias, error) {
	aliases, err := s.cache.GetAliases(ctx, false)
	if err != nil {
		return nil, err
	}
	return searchAliases(aliases, query, namespaceFilter), nil
}

// GetNamespacesWithCounts groups the snapshot by namespace.
func (s *Service) GetNamespacesWithCounts(ctx context.Context) ([]NamespaceCount, error) {
	aliases, err := s.cache.GetAliases(ctx, false)
	if err != nil {
		return nil, err
	}
	return namespacesWithCounts(aliases), nil
}

// Namespaces returns the sorted distinct namespaces in the snapshot.
func (s *Service) Namespaces(ctx context.Context) ([]string, error) {
	counts, err := s.GetNamespacesWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Namespace)
	}
	sort.Strings(names)
	return names, nil
}
