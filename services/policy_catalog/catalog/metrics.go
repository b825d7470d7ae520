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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

// Tracer for catalog operations.
var tracer = otel.Tracer("aleutian.catalog")

// Prometheus metrics for the fetch and cache paths.
var (
	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of full namespace fan-out fetches",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	fetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_fetch_failures_total",
		Help: "Fetch attempts that failed after retry exhaustion",
	})

	failedNamespacesLast = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_fetch_failed_namespaces",
		Help: "Namespaces that failed during the most recent fetch",
	})

	aliasesCached = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_aliases_cached",
		Help: "Aliases held in the current cache snapshot",
	})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Alias reads served from a valid cache",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Alias reads that required a live fetch",
	})

	staleFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_stale_fallbacks_total",
		Help: "Failed refreshes served from stale cache data",
	})
)
