package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/baselog-dev/baselog/internal/notice"
)

const bearerPrefix = "Bearer "

// SessionExpiredNotice is shown once per rejected response.
const SessionExpiredNotice = "Session expired, please sign in again."

// Middleware wraps a RoundTripper with cross-cutting behavior.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Chain wraps base with mws so that mws[0] sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// TokenSupplier exposes the in-memory token ("" when not populated yet).
type TokenSupplier interface {
	Token() string
}

// TokenLoader reads the durably persisted token.
type TokenLoader interface {
	LoadToken() (string, error)
}

// BearerToken attaches the current token to requests that carry no
// Authorization header yet. The in-memory token wins; durable storage is
// consulted when memory is still empty (requests racing initialization).
func BearerToken(supplier TokenSupplier, fallback TokenLoader) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}

			token := ""
			if supplier != nil {
				token = supplier.Token()
			}
			if token == "" && fallback != nil {
				// a load failure just means no credential
				token, _ = fallback.LoadToken()
			}
			if token == "" {
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set("Authorization", bearerPrefix+token)
			return next.RoundTrip(req)
		})
	}
}

// SignOutOnUnauthorized calls onExpired once, after a single notice, for
// every 401 answering a request that carried a bearer credential. The
// response itself always flows back to the caller.
func SignOutOnUnauthorized(onExpired func(ctx context.Context), notifier notice.Notifier) Middleware {
	if notifier == nil {
		notifier = notice.Discard
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}
			if !strings.HasPrefix(req.Header.Get("Authorization"), bearerPrefix) {
				return resp, err
			}

			notifier.Notify(notice.Error, SessionExpiredNotice)
			if onExpired != nil {
				onExpired(context.WithoutCancel(req.Context()))
			}
			return resp, err
		})
	}
}

// Logging emits one debug line per round trip. Headers are never logged.
func Logging(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			event := logger.Debug()
			if err != nil && !errors.Is(err, context.Canceled) {
				event = logger.Warn().Err(err)
			}
			if resp != nil {
				event = event.Int("status", resp.StatusCode)
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Bool("authenticated", req.Header.Get("Authorization") != "").
				Dur("duration", time.Since(start)).
				Msg("API request")

			return resp, err
		})
	}
}
