// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog implements the policy alias fetch-cache-aggregate engine.
//
// The engine pulls alias metadata from a remote provider catalog (one
// network call per provider namespace), merges the results into a single
// in-memory snapshot, and serves search, statistics, and per-namespace
// counts over that snapshot.
//
// Control flow:
//
//	caller ──► AliasCache ──(miss/forced)──► Retry ──► Fetcher ──► RemoteCatalogClient
//	              │                                        │
//	              └──◄── snapshot ◄── wholesale replace ◄──┘
//
// Per-namespace failures degrade the snapshot instead of failing it; only
// a failure to list namespaces at all aborts a fetch attempt. A failed
// refresh falls back to stale cached data when any exists.
package catalog

// NamespaceSummary is a lightweight listing entry from the remote catalog,
// one per provider namespace. Entries with an empty namespace are skipped.
type NamespaceSummary struct {
	Namespace string `json:"namespace"`
}

// AliasPattern is the optional pattern attached to an alias default.
// All fields may be absent.
type AliasPattern struct {
	Phrase   *string `json:"phrase,omitempty"`
	Variable *string `json:"variable,omitempty"`
	Type     *string `json:"type,omitempty"`
}

// AliasEntry is the remote wire shape of one alias under a resource type.
type AliasEntry struct {
	Name           string        `json:"name"`
	DefaultPath    *string       `json:"defaultPath,omitempty"`
	DefaultPattern *AliasPattern `json:"defaultPattern,omitempty"`
	Type           *string       `json:"type,omitempty"`
}

// ResourceTypeEntry groups the aliases declared for one resource type.
type ResourceTypeEntry struct {
	ResourceType string       `json:"resourceType"`
	Aliases      []AliasEntry `json:"aliases,omitempty"`
}

// NamespaceDetail is the full per-namespace metadata fetched on demand.
type NamespaceDetail struct {
	Namespace     string              `json:"namespace"`
	ResourceTypes []ResourceTypeEntry `json:"resourceTypes,omitempty"`
}

// PolicyAlias is the unit of the catalog: one alias flattened out of a
// namespace's resource types. Namespace, ResourceType, and AliasName are
// always present; the remaining fields may be absent.
//
// No uniqueness is enforced: if the remote source returns the same
// (namespace, resourceType, aliasName) tuple twice, the catalog keeps
// both. The cache stores a flat ordered sequence, not a set.
type PolicyAlias struct {
	Namespace      string        `json:"namespace"`
	ResourceType   string        `json:"resource_type"`
	AliasName      string        `json:"alias_name"`
	DefaultPath    *string       `json:"default_path,omitempty"`
	DefaultPattern *AliasPattern `json:"default_pattern,omitempty"`
	Type           *string       `json:"type,omitempty"`
}

// FetchOutcome is the result of one full fan-out over the namespace
// listing. It is produced once per fetch attempt and consumed to update
// the cache and for logging.
type FetchOutcome struct {
	// Aliases is the merged flat sequence. Merge order follows unit
	// completion order and is intentionally unspecified.
	Aliases []PolicyAlias

	// FailedNamespaces lists namespaces whose detail fetch failed.
	// A non-empty list still counts as an overall success; the data is
	// just smaller.
	FailedNamespaces []string

	// NamespacesScanned is the length of the namespace listing,
	// including entries that were skipped or failed.
	NamespacesScanned int
}

// NamespaceCount pairs a namespace with its alias count.
type NamespaceCount struct {
	Namespace string `json:"namespace"`
	Count     int    `json:"count"`
}

// Statistics summarizes the cached catalog.
type Statistics struct {
	TotalAliases       int `json:"total_aliases"`
	TotalNamespaces    int `json:"total_namespaces"`
	TotalResourceTypes int `json:"total_resource_types"`

	// CacheAgeSeconds is nil until the first successful fetch.
	CacheAgeSeconds *int64 `json:"cache_age_seconds"`
	CacheValid      bool   `json:"cache_valid"`

	// TopNamespaces holds at most ten namespaces ordered by descending
	// alias count; ties keep the insertion order of first occurrence.
	TopNamespaces []NamespaceCount `json:"top_namespaces"`
}
