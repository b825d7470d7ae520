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
	"errors"
	"fmt"
)

// ErrorKind classifies failures from the remote catalog so the retry and
// cache layers can check them explicitly instead of matching error types.
type ErrorKind int

const (
	// KindUnknown is any failure that is neither an auth failure nor a
	// known-transient one. Never retried.
	KindUnknown ErrorKind = iota

	// KindTransient is a network- or service-level failure worth
	// retrying with backoff.
	KindTransient

	// KindAuth is an authentication or authorization failure.
	// Retrying cannot help; always propagated immediately.
	KindAuth
)

// String returns the human-readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// CatalogError tags an underlying error with a kind and the operation
// that produced it.
type CatalogError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *CatalogError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// Transient wraps err as a retryable failure of op.
func Transient(op string, err error) error {
	return &CatalogError{Kind: KindTransient, Op: op, Err: err}
}

// AuthFailure wraps err as a non-retryable authentication failure of op.
func AuthFailure(op string, err error) error {
	return &CatalogError{Kind: KindAuth, Op: op, Err: err}
}

// KindOf returns the kind carried by err, or KindUnknown if err carries
// no classification.
func KindOf(err error) ErrorKind {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the retry loop may attempt err again.
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient
}

// Sentinel errors.
var (
	// ErrNoAttempts is returned when the retry budget allowed no
	// attempt to run at all (degenerate configuration).
	ErrNoAttempts = errors.New("retry budget allowed no attempts")

	// ErrInvalidRetryConfig indicates a non-positive backoff base delay.
	ErrInvalidRetryConfig = errors.New("retry base delay must be positive")

	// ErrTokenMissing indicates no management API token was configured.
	ErrTokenMissing = errors.New("management API token not configured")
)
