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
	"sort"
	"strings"
)

// topNamespacesLimit caps the statistics leaderboard.
const topNamespacesLimit = 10

// buildStatistics computes catalog-wide counts over a snapshot.
// cacheAgeSeconds is nil when no fetch ever completed.
func buildStatistics(aliases []PolicyAlias, cacheAgeSeconds *int64, cacheValid bool) Statistics {
	namespaces := make(map[string]struct{})
	resourceTypes := make(map[string]struct{})
	countsByNamespace := make(map[string]int)
	var namespaceOrder []string

	for _, a := range aliases {
		if _, seen := namespaces[a.Namespace]; !seen {
			namespaces[a.Namespace] = struct{}{}
			namespaceOrder = append(namespaceOrder, a.Namespace)
		}
		resourceTypes[a.Namespace+"/"+a.ResourceType] = struct{}{}
		countsByNamespace[a.Namespace]++
	}

	top := make([]NamespaceCount, 0, len(namespaceOrder))
	for _, ns := range namespaceOrder {
		top = append(top, NamespaceCount{Namespace: ns, Count: countsByNamespace[ns]})
	}
	// Stable keeps first-occurrence order on equal counts.
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topNamespacesLimit {
		top = top[:topNamespacesLimit]
	}

	return Statistics{
		TotalAliases:       len(aliases),
		TotalNamespaces:    len(namespaces),
		TotalResourceTypes: len(resourceTypes),
		CacheAgeSeconds:    cacheAgeSeconds,
		CacheValid:         cacheValid,
		TopNamespaces:      top,
	}
}

// searchAliases filters a snapshot.
//
// With both query and namespaceFilter empty the snapshot is returned
// unfiltered. The query splits on whitespace into lowercase terms that
// must ALL be substrings of the alias's searchable text (namespace,
// resource type, alias name, and default path). Result order matches
// the snapshot order.
func searchAliases(aliases []PolicyAlias, query, namespaceFilter string) []PolicyAlias {
	if query == "" && namespaceFilter == "" {
		return aliases
	}

	terms := strings.Fields(strings.ToLower(query))

	filtered := make([]PolicyAlias, 0, len(aliases))
	for _, a := range aliases {
		if namespaceFilter != "" && a.Namespace != namespaceFilter {
			continue
		}
		if len(terms) > 0 && !matchesAll(a, terms) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}

// matchesAll reports whether every term is a substring of the alias's
// searchable text.
func matchesAll(a PolicyAlias, terms []string) bool {
	var sb strings.Builder
	sb.WriteString(a.Namespace)
	sb.WriteByte(' ')
	sb.WriteString(a.ResourceType)
	sb.WriteByte(' ')
	sb.WriteString(a.AliasName)
	if a.DefaultPath != nil {
		sb.WriteByte(' ')
		sb.WriteString(*a.DefaultPath)
	}
	searchable := strings.ToLower(sb.String())

	for _, term := range terms {
		if !strings.Contains(searchable, term) {
			return false
		}
	}
	return true
}

// namespacesWithCounts groups a snapshot by namespace. Output is sorted
// by descending count, then ascending namespace name.
func namespacesWithCounts(aliases []PolicyAlias) []NamespaceCount {
	counts := make(map[string]int)
	for _, a := range aliases {
		counts[a.Namespace]++
	}

	out := make([]NamespaceCount, 0, len(counts))
	for ns, n := range counts {
		out = append(out, NamespaceCount{Namespace: ns, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Namespace < out[j].Namespace
	})
	return out
}
