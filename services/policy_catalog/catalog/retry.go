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
	"log/slog"
	"time"
)

// RetryConfig configures the exponential-backoff retry around a full
// catalog fetch.
type RetryConfig struct {
	// MaxRetries is the total number of attempts, including the first.
	// Default: 3
	MaxRetries int

	// BaseDelay is the wait before the first retry. Attempt n waits
	// BaseDelay * 2^n. Default: 1s
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts. Zero means no cap.
	// Default: 30s
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the defaults used by the service.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Validate checks the configuration for usable values.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 1 {
		return ErrNoAttempts
	}
	if c.BaseDelay <= 0 {
		return ErrInvalidRetryConfig
	}
	return nil
}

// Retry runs fn up to cfg.MaxRetries times.
//
// Only errors classified transient (see IsRetryable) trigger another
// attempt; auth failures and unclassified errors propagate immediately.
// Between transient attempts Retry suspends on the context rather than
// blocking, and logs a warning with the attempt number and delay. When
// the budget is exhausted the last transient error is returned. A budget
// that allows no attempt at all returns ErrNoAttempts.
func Retry(ctx context.Context, cfg RetryConfig, logger *slog.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			if KindOf(err) == KindAuth {
				logger.Error("authentication failure, not retrying", "error", err)
			}
			return err
		}
		lastErr = err

		if attempt == cfg.MaxRetries-1 {
			logger.Error("all fetch attempts failed",
				slog.Int("attempts", cfg.MaxRetries),
				slog.String("error", err.Error()),
			)
			break
		}

		delay := backoffDelay(cfg, attempt)
		logger.Warn("fetch attempt failed, backing off",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr == nil {
		return ErrNoAttempts
	}
	return lastErr
}

// backoffDelay computes BaseDelay * 2^attempt, capped at MaxDelay.
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	d := cfg.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if cfg.MaxDelay > 0 && d >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	if cfg.MaxDelay > 0 && d > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return d
}
