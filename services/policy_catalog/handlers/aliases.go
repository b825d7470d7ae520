// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers of the policy catalog API.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/policy-catalog/pkg/validation"
	"github.com/AleutianAI/policy-catalog/services/policy_catalog/catalog"
	"github.com/AleutianAI/policy-catalog/services/policy_catalog/datatypes"
)

// GetAliases serves GET /v1/aliases: the full cached snapshot, or a
// filtered view when query/namespace parameters are present.
func GetAliases(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q datatypes.AliasQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
			return
		}
		if err := validation.ValidateQuery(q.Query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if q.Namespace != "" {
			ns, err := validation.SanitizeNamespace(q.Namespace)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q.Namespace = ns
		}

		start := time.Now()

		var (
			aliases []catalog.PolicyAlias
			err     error
		)
		if q.Query == "" && q.Namespace == "" {
			aliases, err = svc.GetPolicyAliases(c.Request.Context(), q.ForceRefresh)
		} else {
			// A forced refresh still applies before the filter runs.
			if q.ForceRefresh {
				if _, err := svc.GetPolicyAliases(c.Request.Context(), true); err != nil {
					slog.Error("forced refresh failed", "error", err)
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh policy aliases"})
					return
				}
			}
			aliases, err = svc.SearchAliases(c.Request.Context(), q.Query, q.Namespace)
		}
		if err != nil {
			slog.Error("failed to get policy aliases", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get policy aliases"})
			return
		}

		c.JSON(http.StatusOK, datatypes.AliasesResponse{
			Aliases:     aliases,
			Count:       len(aliases),
			QueryTimeMs: time.Since(start).Milliseconds(),
		})
	}
}

// RefreshAliases serves POST /v1/refresh: force a refetch and report the
// resulting statistics.
func RefreshAliases(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("Received request to force-refresh the alias catalog")
		if _, err := svc.GetPolicyAliases(c.Request.Context(), true); err != nil {
			slog.Error("forced refresh failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh policy aliases"})
			return
		}

		stats, err := svc.GetStatistics(c.Request.Context())
		if err != nil {
			slog.Error("failed to compute statistics after refresh", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
			return
		}
		c.JSON(http.StatusOK, datatypes.RefreshResponse{
			Status:     "success",
			Statistics: stats,
		})
	}
}
