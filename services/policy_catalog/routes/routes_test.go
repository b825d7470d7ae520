// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/policy-catalog/services/policy_catalog/catalog"
)

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

// emptyClient is the smallest possible RemoteCatalogClient.
type emptyClient struct{}

func (emptyClient) ListNamespaces(ctx context.Context) ([]catalog.NamespaceSummary, error) {
	return nil, nil
}

func (emptyClient) GetNamespaceDetail(ctx context.Context, namespace string) (*catalog.NamespaceDetail, error) {
	return &catalog.NamespaceDetail{Namespace: namespace}, nil
}

func newTestRouter() *gin.Engine {
	svc := catalog.NewService(catalog.ServiceConfig{
		Client:  emptyClient{},
		Workers: 1,
		TTL:     time.Hour,
		Retry:   catalog.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	router := gin.New()
	SetupRoutes(router, svc)
	return router
}

func TestSetupRoutes_RegistersEndpoints(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/v1/aliases"},
		{"GET", "/v1/statistics"},
		{"GET", "/v1/namespaces"},
		{"POST", "/v1/refresh"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			router.ServeHTTP(w, req)
			if w.Code == http.StatusNotFound {
				t.Errorf("%s %s is not registered", tt.method, tt.path)
			}
		})
	}
}

func TestSetupRoutes_UnknownRouteIs404(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/unknown", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown route, got %d", w.Code)
	}
}

func TestSetupRoutes_MetricsServesPrometheusText(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("metrics endpoint returned %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("metrics body is empty")
	}
}
