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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, loaded from an optional YAML
// file and then overlaid with environment variables. Environment wins.
type Config struct {
	// SubscriptionID is the subscription whose providers get scanned.
	// Required.
	SubscriptionID string `yaml:"subscription_id"`

	// ManagementToken is the bearer token for the management API.
	// Required. Only read from the environment, never from the file.
	ManagementToken string `yaml:"-"`

	// ManagementURL overrides the management endpoint.
	ManagementURL string `yaml:"management_url"`

	// Port the HTTP server listens on.
	Port string `yaml:"port"`

	// CacheTTL is how long a fetched snapshot stays valid.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// FetchWorkers bounds the per-namespace fan-out.
	FetchWorkers int `yaml:"fetch_workers"`

	// RequestsPerMinute bounds outbound management API calls.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// LoadConfig reads the YAML file at path when it is non-empty, applies
// environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Port:         "12310",
		CacheTTL:     time.Hour,
		FetchWorkers: 25,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("AZURE_SUBSCRIPTION_ID")); v != "" {
		cfg.SubscriptionID = v
	}
	cfg.ManagementToken = strings.TrimSpace(os.Getenv("AZURE_MANAGEMENT_TOKEN"))
	if v := strings.TrimSpace(os.Getenv("AZURE_MANAGEMENT_URL")); v != "" {
		cfg.ManagementURL = v
	}
	if v := os.Getenv("CATALOG_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("CATALOG_FETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CATALOG_FETCH_WORKERS %q: %w", v, err)
		}
		cfg.FetchWorkers = n
	}
	if v := os.Getenv("CATALOG_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CATALOG_REQUESTS_PER_MINUTE %q: %w", v, err)
		}
		cfg.RequestsPerMinute = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields a running service cannot do without.
func (c *Config) Validate() error {
	if c.SubscriptionID == "" {
		return fmt.Errorf("subscription ID is required (set AZURE_SUBSCRIPTION_ID)")
	}
	if c.ManagementToken == "" {
		return fmt.Errorf("management token is required (set AZURE_MANAGEMENT_TOKEN)")
	}
	if c.FetchWorkers < 1 {
		return fmt.Errorf("fetch_workers must be at least 1, got %d", c.FetchWorkers)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}
