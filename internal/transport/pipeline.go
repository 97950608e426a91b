// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package transport is the client's request pipeline.

Every API call is issued as a relative URL under the API prefix (e.g.
"/api/expenses") and passes through an ordered chain of [http.RoundTripper]
decorators before reaching the network.

Stage order, outermost first:

 1. Logging: request_sent / response_received.
 2. RequestID: X-Request-ID (UUID v7).
 3. RateLimit: token bucket, disabled at zero RPS.
 4. Authorization: Bearer credential for API-prefixed URLs only.
 5. ProxyRewrite: API prefix replaced by the configured base URL.
 6. ErrorRecovery: network and 401 side effects.

The request phase runs top to bottom, the response phase bottom to top.
*/
package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/ctxutil"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/pkg/uuidv7"
)

// Middleware decorates a round tripper with one pipeline stage.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to [http.RoundTripper].
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements [http.RoundTripper].
func (fn RoundTripperFunc) RoundTrip(request *http.Request) (*http.Response, error) {
	return fn(request)
}

// Chain wraps base with stages; the first stage is the outermost.
func Chain(base http.RoundTripper, stages ...Middleware) http.RoundTripper {
	wrapped := base
	for i := len(stages) - 1; i >= 0; i-- {
		wrapped = stages[i](wrapped)
	}
	return wrapped
}

// # Collaborators

// TokenSource supplies the credential for the Authorization stage.
type TokenSource interface {
	Current() string
}

// TokenRemover tears the session down after a 401.
type TokenRemover interface {
	Remove(ctx context.Context) error
}

// # Prefix Matching

// isAPIRequest reports whether u is a relative URL under prefix.
// Matching is per path segment: "/api" matches "/api/x" but not "/apix".
func isAPIRequest(u *url.URL, prefix string) bool {
	if u == nil || u.Scheme != "" || u.Host != "" {
		return false
	}

	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return strings.HasPrefix(u.Path, "/")
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}

// # 1. Logging

// Logging logs every call and its outcome.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			startTime := time.Now()

			logger.DebugContext(request.Context(), "request_sent",
				slog.String("method", request.Method),
				slog.String("url", request.URL.String()),
			)

			response, err := next.RoundTrip(request)

			latency := slog.Int64("latency_ms", time.Since(startTime).Milliseconds())
			if err != nil {
				logger.WarnContext(request.Context(), "request_failed",
					slog.String("method", request.Method),
					slog.String("url", request.URL.String()),
					slog.Any("error", err),
					latency,
				)
				return response, err
			}

			attrs := []any{
				slog.String("method", request.Method),
				slog.String("url", request.URL.String()),
				slog.Int("status", response.StatusCode),
				latency,
			}
			if response.Request != nil {
				attrs = append(attrs, slog.String("request_id", response.Request.Header.Get(constants.HeaderXRequestID)))
			}
			logger.DebugContext(request.Context(), "response_received", attrs...)

			return response, nil
		})
	}
}

// # 2. Request ID

// RequestID tags each call with an X-Request-ID unless the caller set one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if request.Header.Get(constants.HeaderXRequestID) != "" {
				return next.RoundTrip(request)
			}

			requestID := uuidv7.New()
			cloned := request.Clone(ctxutil.WithRequestID(request.Context(), requestID))
			cloned.Header.Set(constants.HeaderXRequestID, requestID)
			return next.RoundTrip(cloned)
		})
	}
}

// # 3. Rate Limit

// RateLimit waits for a token before each call. rps <= 0 disables it.
func RateLimit(rps float64, burst int) Middleware {
	if rps <= 0 {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if err := limiter.Wait(request.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(request)
		})
	}
}

// # 4. Authorization

// Authorization attaches `Bearer <token>` to API-prefixed requests when a
// token is held. Any other request is passed through untouched.
func Authorization(prefix string, tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if !isAPIRequest(request.URL, prefix) {
				return next.RoundTrip(request)
			}

			token := tokens.Current()
			if token == "" {
				return next.RoundTrip(request)
			}

			cloned := request.Clone(request.Context())
			cloned.Header.Set(constants.HeaderAuthorization, constants.BearerScheme+" "+token)
			return next.RoundTrip(cloned)
		})
	}
}

// # 5. Proxy Rewrite

// ProxyRewrite substitutes prefix with baseURL, preserving the rest of the
// path and the query string.
func ProxyRewrite(prefix string, baseURL *url.URL) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if !isAPIRequest(request.URL, prefix) {
				return next.RoundTrip(request)
			}

			cloned := request.Clone(request.Context())
			cloned.URL = Rewrite(request.URL, prefix, baseURL)
			cloned.Host = ""
			return next.RoundTrip(cloned)
		})
	}
}

// Rewrite maps `<prefix>/x/y?q` onto `<base>/x/y?q`. Escaped segments such
// as `%2F` survive the rewrite.
func Rewrite(source *url.URL, prefix string, baseURL *url.URL) *url.URL {
	suffix := strings.TrimPrefix(source.EscapedPath(), strings.TrimSuffix(prefix, "/"))

	rawPath := strings.TrimSuffix(baseURL.EscapedPath(), "/") + suffix
	if rawPath == "" {
		rawPath = "/"
	}

	target := *baseURL
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		path = rawPath
	}
	target.Path = path
	target.RawPath = rawPath
	target.RawQuery = source.RawQuery
	target.Fragment = ""
	return &target
}

// # 6. Error Recovery

// ErrorRecovery applies the central failure side effects:
//
//   - no HTTP status (network failure): one "network error" notification;
//   - 401: one "unauthorized action" notification, session teardown, and a
//     navigation to the login screen.
//
// The login endpoint, and requests marked with [ctxutil.WithoutRecovery], are
// left alone. The original response or error is always returned unchanged.
func ErrorRecovery(tokens TokenRemover, notifier notify.Notifier, navigator notify.Navigator, logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			response, err := next.RoundTrip(request)

			if isLoginRequest(request) || ctxutil.SkipsRecovery(request.Context()) {
				return response, err
			}

			// ── 1. Network Failure ────────────────────────────────────────────
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					notify.Error(notifier, constants.MsgNetworkError)
				}
				return response, err
			}

			// ── 2. Unauthorized ───────────────────────────────────────────────
			if response.StatusCode == http.StatusUnauthorized {
				notify.Error(notifier, constants.MsgUnauthorizedAction)

				ctx := context.WithoutCancel(request.Context())
				if removeErr := tokens.Remove(ctx); removeErr != nil {
					logger.Error("session_teardown_failed", slog.Any("error", removeErr))
				}

				logger.Info("session_revoked_by_server", slog.String("path", request.URL.Path))
				navigator.ToLogin("unauthorized")
			}

			return response, nil
		})
	}
}

func isLoginRequest(request *http.Request) bool {
	return strings.HasSuffix(strings.TrimSuffix(request.URL.Path, "/"), constants.LoginPath)
}
