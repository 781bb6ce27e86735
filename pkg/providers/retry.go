package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/metrics"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

var permanentMarkers = []string{
	"invalid key",
	"invalid api key",
	"api key not valid",
	"incorrect api key",
	"unauthorized",
	"permission denied",
}

// IsPermanent reports whether err means the key itself is unusable:
// an HTTP 401/403 from the provider or a message saying so.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode == http.StatusUnauthorized || appErr.StatusCode == http.StatusForbidden {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ExecuteWithRetry calls fn with successive keys of provider until it
// succeeds or the attempts are used up. Each attempt takes the next key in
// round-robin order. A key failing permanently is deactivated; when none
// is left the loop stops with ErrNoActiveKeys. A VALIDATION error stops the
// loop at once and is not counted against the key.
func ExecuteWithRetry[T any](ctx context.Context, m *KeyManager, provider model.Provider, fn func(ctx context.Context, key Key) (T, error)) (T, error) {
	var result T

	attempts, delay := m.retryPolicy()
	if attempts <= 0 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			key, err := m.NextKey(provider)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			res, err := fn(ctx, key)
			if err == nil {
				m.markSuccess(ctx, key)
				metrics.RecordProviderCall(string(provider), "success")
				result = res
				return nil
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return retry.Unrecoverable(ctxErr)
			}
			// a misconfigured client fails the same way with every key
			if apperror.TypeOf(err) == apperror.Validation {
				metrics.RecordProviderCall(string(provider), "misconfigured")
				return retry.Unrecoverable(err)
			}

			if IsPermanent(err) {
				if remaining := m.Deactivate(ctx, key, err); remaining == 0 {
					return retry.Unrecoverable(fmt.Errorf("%w for %s: %w", ErrNoActiveKeys, provider, err))
				}
				return err
			}

			m.recordFailure(ctx, key, err)
			metrics.RecordProviderCall(string(provider), "retry")
			m.lggr.Debugw("Provider call failed", "provider", provider, "key", key.Fingerprint(), "err", err)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(delay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			// the next key is already a different one, no need to wait
			if IsPermanent(err) {
				return 0
			}
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		metrics.RecordProviderCall(string(provider), "exhausted")
		var zero T
		return zero, err
	}
	return result, nil
}
