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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AleutianAI/policy-catalog/services/policy_catalog/datatypes"
)

// apiClient is a thin wrapper over the catalog HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Refreshes fan out to the management API and can take a
		// while; reads are fast.
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) post(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog service returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *apiClient) Health(ctx context.Context) (*datatypes.HealthResponse, error) {
	var out datatypes.HealthResponse
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Statistics(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.get(ctx, "/v1/statistics", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) Search(ctx context.Context, query, namespace string) (*datatypes.AliasesResponse, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if namespace != "" {
		q.Set("namespace", namespace)
	}
	var out datatypes.AliasesResponse
	if err := c.get(ctx, "/v1/aliases", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Namespaces(ctx context.Context, withCounts bool) (*datatypes.NamespacesResponse, error) {
	q := url.Values{}
	if withCounts {
		q.Set("with_counts", "true")
	}
	var out datatypes.NamespacesResponse
	if err := c.get(ctx, "/v1/namespaces", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Refresh(ctx context.Context) (*datatypes.RefreshResponse, error) {
	var out datatypes.RefreshResponse
	if err := c.post(ctx, "/v1/refresh", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
