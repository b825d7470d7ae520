// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the request and response shapes of the policy
// catalog HTTP API.
package datatypes

import "github.com/AleutianAI/policy-catalog/services/policy_catalog/catalog"

// AliasQuery binds the query parameters of GET /v1/aliases.
type AliasQuery struct {
	// Query is a whitespace-separated list of search terms; every term
	// must match for an alias to be returned.
	Query string `form:"query"`

	// Namespace restricts results to one provider namespace, matched
	// exactly.
	Namespace string `form:"namespace"`

	// ForceRefresh bypasses the cache and refetches from the
	// management API.
	ForceRefresh bool `form:"force_refresh"`
}

// AliasesResponse is the payload of GET /v1/aliases.
type AliasesResponse struct {
	Aliases     []catalog.PolicyAlias `json:"aliases"`
	Count       int                   `json:"count"`
	QueryTimeMs int64                 `json:"query_time_ms"`
}

// NamespacesResponse is the payload of GET /v1/namespaces. Exactly one
// of Namespaces or Counts is populated, depending on with_counts.
type NamespacesResponse struct {
	Namespaces []string                 `json:"namespaces,omitempty"`
	Counts     []catalog.NamespaceCount `json:"counts,omitempty"`
}

// RefreshResponse is the payload of POST /v1/refresh.
type RefreshResponse struct {
	Status     string             `json:"status"`
	Statistics catalog.Statistics `json:"statistics"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	CacheValid bool   `json:"cache_valid"`
}
