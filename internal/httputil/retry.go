// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the lookup and
// search paths.
package httputil

import (
	"context"
	"errors"
	"math"
	"net"
	"strings"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 3

// ErrParse marks a response that could not be interpreted as expected.
// Parse failures are never retried: retrying cannot fix a structurally
// unexpected response.
var ErrParse = errors.New("malformed response")

// transientSubstrings classifies transport-level failures by message
// text. Anything matching is considered transient and retryable.
var transientSubstrings = []string{
	"connection reset",
	"connection refused",
	"network is unreachable",
	"no such host",
	"i/o timeout",
	"TLS handshake timeout",
	"unexpected EOF",
}

// IsNetworkError reports whether err is a transient transport-level
// failure worth retrying.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrParse) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	for _, s := range transientSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// WithRetry runs fn up to maxRetries times, backing off exponentially
// between attempts: 1× RetryBaseDelay after the first failure, then 2×,
// 4×, and so on. Only errors classified by IsNetworkError are retried;
// any other error is returned immediately. After the final attempt the
// last error is returned. When maxRetries is 0 the default (3) is used.
//
// notify, if non-nil, is called before each backoff wait so the caller
// can surface retry progress. If the context is cancelled during a wait
// the function returns ctx.Err().
func WithRetry(ctx context.Context, maxRetries int, notify func(attempt int, wait time.Duration, err error), fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsNetworkError(lastErr) {
			return lastErr
		}
		if attempt == maxRetries {
			break
		}

		wait := time.Duration(math.Pow(2, float64(attempt-1))) * RetryBaseDelay
		if notify != nil {
			notify(attempt, wait, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}
