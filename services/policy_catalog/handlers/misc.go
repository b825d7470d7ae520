// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/policy-catalog/services/policy_catalog/catalog"
	"github.com/AleutianAI/policy-catalog/services/policy_catalog/datatypes"
)

// HealthCheck serves GET /health. It never touches the network: cache
// validity is reported as-is so probes stay cheap.
func HealthCheck(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, datatypes.HealthResponse{
			Status:     "ok",
			CacheValid: svc.CacheValid(),
		})
	}
}

// GetStatistics serves GET /v1/statistics.
func GetStatistics(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetStatistics(c.Request.Context())
		if err != nil {
			slog.Error("failed to compute statistics", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GetNamespaces serves GET /v1/namespaces. With ?with_counts=true the
// response carries per-namespace alias counts instead of bare names.
func GetNamespaces(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("with_counts") == "true" {
			counts, err := svc.GetNamespacesWithCounts(c.Request.Context())
			if err != nil {
				slog.Error("failed to list namespaces", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list namespaces"})
				return
			}
			c.JSON(http.StatusOK, datatypes.NamespacesResponse{Counts: counts})
			return
		}

		names, err := svc.Namespaces(c.Request.Context())
		if err != nil {
			slog.Error("failed to list namespaces", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list namespaces"})
			return
		}
		c.JSON(http.StatusOK, datatypes.NamespacesResponse{Namespaces: names})
	}
}
