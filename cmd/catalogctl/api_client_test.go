// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/policy-catalog/services/policy_catalog/datatypes"
)

func TestAPIClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(datatypes.HealthResponse{Status: "ok", CacheValid: true})
	}))
	defer srv.Close()

	resp, err := newAPIClient(srv.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.CacheValid)
}

func TestAPIClient_SearchBuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/aliases", r.URL.Path)
		assert.Equal(t, "virtual machine", r.URL.Query().Get("query"))
		assert.Equal(t, "Microsoft.Compute", r.URL.Query().Get("namespace"))
		json.NewEncoder(w).Encode(datatypes.AliasesResponse{Count: 0})
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL).Search(context.Background(), "virtual machine", "Microsoft.Compute")
	require.NoError(t, err)
}

func TestAPIClient_NamespacesWithCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/namespaces", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("with_counts"))
		json.NewEncoder(w).Encode(datatypes.NamespacesResponse{})
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL).Namespaces(context.Background(), true)
	require.NoError(t, err)
}

func TestAPIClient_RefreshPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/refresh", r.URL.Path)
		json.NewEncoder(w).Encode(datatypes.RefreshResponse{Status: "success"})
	}))
	defer srv.Close()

	resp, err := newAPIClient(srv.URL).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
}

func TestAPIClient_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"failed to get policy aliases"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL).Search(context.Background(), "x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get policy aliases")
}

func TestAPIClient_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(datatypes.HealthResponse{Status: "ok"})
	}))
	defer srv.Close()

	_, err := newAPIClient(srv.URL + "/").Health(context.Background())
	require.NoError(t, err)
}
