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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// RemoteCatalogClient lists provider namespaces and fetches per-namespace
// alias metadata. Implementations must be safe for concurrent use: the
// fetcher calls GetNamespaceDetail from many workers at once.
type RemoteCatalogClient interface {
	ListNamespaces(ctx context.Context) ([]NamespaceSummary, error)
	GetNamespaceDetail(ctx context.Context, namespace string) (*NamespaceDetail, error)
}

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider supplies bearer tokens for management API calls.
// Credential chains and refresh are deliberately outside this package;
// callers plug in whatever acquisition strategy they run with.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed token, typically read from the
// environment at startup.
type StaticTokenProvider string

func (p StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p == "" {
		return "", AuthFailure("token", ErrTokenMissing)
	}
	return string(p), nil
}

const (
	// DefaultManagementURL is the public ARM endpoint.
	DefaultManagementURL = "https://management.azure.com"

	// providersAPIVersion is the resource-provider API version used for
	// both the listing and the per-namespace detail call.
	providersAPIVersion = "2021-04-01"

	// aliasExpand asks ARM to inline alias definitions into the
	// provider payload.
	aliasExpand = "resourceTypes/aliases"

	// DefaultRequestsPerMinute keeps the client inside the ARM read
	// budget (12,000 reads/hour per subscription, i.e. 200/min).
	DefaultRequestsPerMinute = 200
)

// ARMClientConfig configures an ARMClient.
type ARMClientConfig struct {
	// SubscriptionID is required.
	SubscriptionID string

	// BaseURL overrides the management endpoint, mainly for tests.
	// Default: DefaultManagementURL
	BaseURL string

	// HTTPClient overrides the transport. Default: http.Client with a
	// 30s timeout.
	HTTPClient HTTPClient

	// Tokens supplies bearer tokens. Required.
	Tokens TokenProvider

	// RequestsPerMinute bounds the client-side request rate.
	// Default: DefaultRequestsPerMinute. Negative disables limiting.
	RequestsPerMinute int
}

// ARMClient is a RemoteCatalogClient backed by the Azure Resource
// Manager REST API. It follows nextLink paging on the listing call and
// applies a client-side rate limit shared by all workers.
type ARMClient struct {
	subscriptionID string
	baseURL        string
	http           HTTPClient
	tokens         TokenProvider
	limiter        *rate.Limiter
}

// NewARMClient builds a client from cfg, applying defaults.
func NewARMClient(cfg ARMClientConfig) *ARMClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultManagementURL
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute >= 0 {
		perMin := cfg.RequestsPerMinute
		if perMin == 0 {
			perMin = DefaultRequestsPerMinute
		}
		limiter = rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin/10+1)
	}
	return &ARMClient{
		subscriptionID: cfg.SubscriptionID,
		baseURL:        baseURL,
		http:           httpClient,
		tokens:         cfg.Tokens,
		limiter:        limiter,
	}
}

// providerPage is one page of the providers listing.
type providerPage struct {
	Value    []providerPayload `json:"value"`
	NextLink string            `json:"nextLink"`
}

// providerPayload is the ARM provider resource, decoded only as far as
// this engine needs.
type providerPayload struct {
	Namespace     string              `json:"namespace"`
	ResourceTypes []ResourceTypeEntry `json:"resourceTypes"`
}

// ListNamespaces returns every provider namespace registered for the
// subscription, following nextLink pages.
func (c *ARMClient) ListNamespaces(ctx context.Context) ([]NamespaceSummary, error) {
	next := fmt.Sprintf("%s/subscriptions/%s/providers?api-version=%s",
		c.baseURL, url.PathEscape(c.subscriptionID), providersAPIVersion)

	var summaries []NamespaceSummary
	for next != "" {
		var page providerPage
		if err := c.getJSON(ctx, "list namespaces", next, &page); err != nil {
			return nil, err
		}
		for _, p := range page.Value {
			summaries = append(summaries, NamespaceSummary{Namespace: p.Namespace})
		}
		next = page.NextLink
	}
	return summaries, nil
}

// GetNamespaceDetail fetches one provider with its resource types and
// alias definitions expanded inline.
func (c *ARMClient) GetNamespaceDetail(ctx context.Context, namespace string) (*NamespaceDetail, error) {
	u := fmt.Sprintf("%s/subscriptions/%s/providers/%s?$expand=%s&api-version=%s",
		c.baseURL,
		url.PathEscape(c.subscriptionID),
		url.PathEscape(namespace),
		url.QueryEscape(aliasExpand),
		providersAPIVersion)

	var payload providerPayload
	if err := c.getJSON(ctx, "get namespace "+namespace, u, &payload); err != nil {
		return nil, err
	}
	return &NamespaceDetail{
		Namespace:     payload.Namespace,
		ResourceTypes: payload.ResourceTypes,
	}, nil
}

// getJSON performs one authenticated GET and decodes the body into out.
// Failures are classified: transport errors and 408/429/5xx are
// transient, 401/403 are auth, anything else stays unclassified.
func (c *ARMClient) getJSON(ctx context.Context, op, rawURL string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Transient(op, err)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &CatalogError{Kind: KindUnknown, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Transient(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("management API returned %s: %s", resp.Status, string(body))
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return AuthFailure(op, err)
		case resp.StatusCode == http.StatusRequestTimeout ||
			resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= 500:
			return Transient(op, err)
		default:
			return &CatalogError{Kind: KindUnknown, Op: op, Err: err}
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Transient(op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
