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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultFetchWorkers bounds the fan-out. The management API
	// enforces roughly 200 reads/min per subscription and a listing
	// runs to ~300+ namespaces, so an unbounded fan-out would blow the
	// budget.
	DefaultFetchWorkers = 25

	// progressLogInterval is how many completed units pass between
	// progress log lines.
	progressLogInterval = 100
)

// Fetcher fans per-namespace detail fetches out across a bounded worker
// pool and merges the flattened alias records as units complete.
type Fetcher struct {
	client        RemoteCatalogClient
	workers       int
	logger        *slog.Logger
	progressEvery int
}

// NewFetcher builds a fetcher over client. A non-positive workers value
// falls back to DefaultFetchWorkers.
func NewFetcher(client RemoteCatalogClient, workers int, logger *slog.Logger) *Fetcher {
	if workers <= 0 {
		workers = DefaultFetchWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:        client,
		workers:       workers,
		logger:        logger,
		progressEvery: progressLogInterval,
	}
}

// unitResult is what one worker produces for one namespace.
type unitResult struct {
	namespace string
	aliases   []PolicyAlias
	err       error
}

// FetchAll lists all namespaces and fetches each one's alias metadata
// through the worker pool.
//
// A listing failure is fatal to the attempt and propagates (classified
// transient unless it is an auth failure). A failure inside a single
// unit of work is caught, logged, and recorded in FailedNamespaces; it
// never aborts the fan-out. Partial data is an overall success.
//
// Merge order follows unit completion order and is unspecified. All
// merging happens on a single consumer goroutine fed by a results
// channel, so no accumulator lock is needed.
func (f *Fetcher) FetchAll(ctx context.Context) (FetchOutcome, error) {
	ctx, span := tracer.Start(ctx, "catalog.FetchAll")
	defer span.End()

	start := time.Now()

	listing, err := f.client.ListNamespaces(ctx)
	if err != nil {
		if KindOf(err) == KindUnknown {
			// Being unable to enumerate namespaces at all is worth
			// retrying unless auth already ruled that out.
			err = Transient("list namespaces", err)
		}
		span.RecordError(err)
		return FetchOutcome{}, err
	}

	names := make([]string, 0, len(listing))
	for _, s := range listing {
		if s.Namespace == "" {
			continue
		}
		names = append(names, s.Namespace)
	}

	f.logger.Info("fetched namespace listing",
		slog.Int("namespaces", len(listing)),
		slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)

	jobs := make(chan string)
	results := make(chan unitResult)

	workers := f.workers
	if workers > len(names) {
		workers = len(names)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ns := range jobs {
				results <- f.fetchNamespace(ctx, ns)
			}
		}()
	}

	go func() {
		for _, ns := range names {
			jobs <- ns
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	outcome := FetchOutcome{NamespacesScanned: len(listing)}
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			f.logger.Warn("failed to fetch aliases for namespace",
				slog.String("namespace", res.namespace),
				slog.String("error", res.err.Error()),
			)
			outcome.FailedNamespaces = append(outcome.FailedNamespaces, res.namespace)
		} else {
			outcome.Aliases = append(outcome.Aliases, res.aliases...)
		}
		if f.progressEvery > 0 && completed%f.progressEvery == 0 {
			f.logger.Info("fetch progress",
				slog.Int("completed", completed),
				slog.Int("total", len(names)),
				slog.Int("aliases", len(outcome.Aliases)),
				slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
			)
		}
	}

	elapsed := time.Since(start)
	fetchDuration.Observe(elapsed.Seconds())
	failedNamespacesLast.Set(float64(len(outcome.FailedNamespaces)))
	span.SetAttributes(
		attribute.Int("namespaces_scanned", outcome.NamespacesScanned),
		attribute.Int("aliases", len(outcome.Aliases)),
		attribute.Int("failed_namespaces", len(outcome.FailedNamespaces)),
	)

	if len(outcome.FailedNamespaces) > 0 {
		f.logger.Warn("some namespaces failed",
			slog.Int("failed", len(outcome.FailedNamespaces)),
			slog.Any("first", firstN(outcome.FailedNamespaces, 5)),
		)
	}
	f.logger.Info("fetch complete",
		slog.Int("aliases", len(outcome.Aliases)),
		slog.Int("namespaces", outcome.NamespacesScanned),
		slog.Duration("elapsed", elapsed.Round(time.Millisecond)),
	)
	return outcome, nil
}

// fetchNamespace is one unit of work: fetch a provider's detail and
// flatten resourceTypes[].aliases[] into PolicyAlias records.
func (f *Fetcher) fetchNamespace(ctx context.Context, namespace string) unitResult {
	ctx, span := tracer.Start(ctx, "catalog.fetchNamespace",
		trace.WithAttributes(attribute.String("namespace", namespace)),
	)
	defer span.End()

	detail, err := f.client.GetNamespaceDetail(ctx, namespace)
	if err != nil {
		span.RecordError(err)
		return unitResult{namespace: namespace, err: err}
	}

	var aliases []PolicyAlias
	for _, rt := range detail.ResourceTypes {
		for _, a := range rt.Aliases {
			aliases = append(aliases, PolicyAlias{
				Namespace:      namespace,
				ResourceType:   rt.ResourceType,
				AliasName:      a.Name,
				DefaultPath:    a.DefaultPath,
				DefaultPattern: normalizePattern(a.DefaultPattern),
				Type:           a.Type,
			})
		}
	}
	return unitResult{namespace: namespace, aliases: aliases}
}

// normalizePattern copies the optional pattern field by field so cached
// records never share pointers with decoder-owned structures.
func normalizePattern(p *AliasPattern) *AliasPattern {
	if p == nil {
		return nil
	}
	return &AliasPattern{
		Phrase:   p.Phrase,
		Variable: p.Variable,
		Type:     p.Type,
	}
}

// firstN returns up to n leading elements of s, for log lines.
func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
