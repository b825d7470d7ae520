// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for user-supplied
// request parameters.
//
// Namespace filters and search queries arrive straight from HTTP query
// strings and end up in upstream request URLs and log lines; validating
// them here keeps malformed or oversized input out of both.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// namespacePattern matches resource provider namespaces.
// Allows: letters, digits, dots as segment separators (Microsoft.Compute,
// Microsoft.Web.Sites), hyphens inside segments.
// Max length: 128 characters.
var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]{0,127}$`)

// MaxQueryLength caps search query strings taken from the URL.
const MaxQueryLength = 256

// ValidateNamespace validates a provider namespace filter.
//
// Valid namespaces:
//   - 1-128 characters
//   - Letters and digits
//   - Dots (.) separating segments like Microsoft.Compute
//   - Hyphens (-) inside segments
//
// Returns an error if the namespace is invalid.
//
// Example:
//
//	if err := validation.ValidateNamespace(ns); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}

	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("invalid namespace format: %q (must be 1-128 alphanumeric chars, dots, or hyphens)", namespace)
	}

	return nil
}

// SanitizeNamespace trims and validates a namespace filter. Namespaces
// are matched case-sensitively upstream, so no case folding happens
// here.
func SanitizeNamespace(namespace string) (string, error) {
	trimmed := strings.TrimSpace(namespace)
	if err := ValidateNamespace(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidateQuery bounds a free-text search query. The query is split and
// matched downstream; here only the size is policed.
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("query too long: %d characters (max %d)", len(query), MaxQueryLength)
	}
	return nil
}
