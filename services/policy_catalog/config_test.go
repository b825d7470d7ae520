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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}

func baseEnv(t *testing.T) {
	t.Helper()
	setEnv(t, "AZURE_SUBSCRIPTION_ID", "sub-123")
	setEnv(t, "AZURE_MANAGEMENT_TOKEN", "token-abc")
	setEnv(t, "AZURE_MANAGEMENT_URL", "")
	setEnv(t, "CATALOG_PORT", "")
	setEnv(t, "CATALOG_CACHE_TTL", "")
	setEnv(t, "CATALOG_FETCH_WORKERS", "")
	setEnv(t, "CATALOG_REQUESTS_PER_MINUTE", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sub-123", cfg.SubscriptionID)
	assert.Equal(t, "token-abc", cfg.ManagementToken)
	assert.Equal(t, "12310", cfg.Port)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.FetchWorkers)
}

func TestLoadConfig_MissingSubscription(t *testing.T) {
	baseEnv(t)
	setEnv(t, "AZURE_SUBSCRIPTION_ID", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_SUBSCRIPTION_ID")
}

func TestLoadConfig_MissingToken(t *testing.T) {
	baseEnv(t)
	setEnv(t, "AZURE_MANAGEMENT_TOKEN", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_MANAGEMENT_TOKEN")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	baseEnv(t)
	setEnv(t, "CATALOG_PORT", "9999")
	setEnv(t, "CATALOG_CACHE_TTL", "30m")
	setEnv(t, "CATALOG_FETCH_WORKERS", "5")
	setEnv(t, "CATALOG_REQUESTS_PER_MINUTE", "60")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.FetchWorkers)
	assert.Equal(t, 60, cfg.RequestsPerMinute)
}

func TestLoadConfig_InvalidTTL(t *testing.T) {
	baseEnv(t)
	setEnv(t, "CATALOG_CACHE_TTL", "not-a-duration")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_CACHE_TTL")
}

func TestLoadConfig_YAMLFileWithEnvPrecedence(t *testing.T) {
	baseEnv(t)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := []byte("subscription_id: from-file\nport: \"7777\"\nfetch_workers: 10\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	// Environment wins over the file for subscription ID.
	assert.Equal(t, "sub-123", cfg.SubscriptionID)
	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, 10, cfg.FetchWorkers)
}

func TestLoadConfig_FileMissing(t *testing.T) {
	baseEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidWorkers(t *testing.T) {
	baseEnv(t)
	setEnv(t, "CATALOG_FETCH_WORKERS", "0")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch_workers")
}
