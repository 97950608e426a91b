// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/ctxutil"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/transport"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// tokenHolder is an in-memory TokenSource and TokenRemover.
type tokenHolder struct {
	mu      sync.Mutex
	token   string
	removed int
}

func (holder *tokenHolder) Current() string {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return holder.token
}

func (holder *tokenHolder) Remove(context.Context) error {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	holder.token = ""
	holder.removed++
	return nil
}

// capture records the last request and answers with status.
type capture struct {
	last   *http.Request
	status int
	err    error
}

func (c *capture) RoundTrip(request *http.Request) (*http.Response, error) {
	c.last = request
	if c.err != nil {
		return nil, c.err
	}
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader("{}")), Request: request}, nil
}

func mustRequest(t *testing.T, ctx context.Context, target string) *http.Request {
	t.Helper()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	require.NoError(t, err)
	return request
}

/*
TestAuthorization_HeaderGating attaches the credential only to API-prefixed URLs.
*/
func TestAuthorization_HeaderGating(t *testing.T) {
	tests := []struct {
		name   string
		target string
		token  string
		want   string
	}{
		{"prefixed_with_token", "/api/expenses?page=1", "abc.def.ghi", "Bearer abc.def.ghi"},
		{"prefix_itself", "/api", "abc.def.ghi", "Bearer abc.def.ghi"},
		{"prefixed_without_token", "/api/expenses", "", ""},
		{"lookalike_prefix", "/apix/expenses", "abc.def.ghi", ""},
		{"other_path", "/assets/logo.svg", "abc.def.ghi", ""},
		{"absolute_url", "https://cdn.example.com/api/expenses", "abc.def.ghi", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &capture{}
			pipeline := transport.Chain(base, transport.Authorization("/api", &tokenHolder{token: tt.token}))

			original := mustRequest(t, context.Background(), tt.target)
			_, err := pipeline.RoundTrip(original)
			require.NoError(t, err)

			assert.Equal(t, tt.want, base.last.Header.Get(constants.HeaderAuthorization))
			// The caller's request is never mutated
			assert.Empty(t, original.Header.Get(constants.HeaderAuthorization))
		})
	}
}

/*
TestRewrite substitutes the prefix and keeps path and query.
*/
func TestRewrite(t *testing.T) {
	base, err := url.Parse("https://api.example.com/api/v1")
	require.NoError(t, err)

	tests := []struct {
		source string
		want   string
	}{
		{"/api/x/y", "https://api.example.com/api/v1/x/y"},
		{"/api/expenses?page=2&limit=10", "https://api.example.com/api/v1/expenses?page=2&limit=10"},
		{"/api", "https://api.example.com/api/v1"},
		{"/api/expenses/a%2Fb/status?x=1", "https://api.example.com/api/v1/expenses/a%2Fb/status?x=1"},
		{"/api/users/jane%20doe", "https://api.example.com/api/v1/users/jane%20doe"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			source, err := url.Parse(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, transport.Rewrite(source, "/api", base).String())
		})
	}
}

/*
TestProxyRewrite leaves non-prefixed URLs untouched.
*/
func TestProxyRewrite(t *testing.T) {
	base, _ := url.Parse("http://localhost:8080/api/v1")
	capturing := &capture{}
	pipeline := transport.Chain(capturing, transport.ProxyRewrite("/api", base))

	_, err := pipeline.RoundTrip(mustRequest(t, context.Background(), "/api/advances/7?x=1"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1/advances/7?x=1", capturing.last.URL.String())

	_, err = pipeline.RoundTrip(mustRequest(t, context.Background(), "https://cdn.example.com/api/a"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/api/a", capturing.last.URL.String())
}

/*
TestErrorRecovery_Unauthorized notifies once, tears down and navigates once.
*/
func TestErrorRecovery_Unauthorized(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		ctx        context.Context
		wantEffect bool
	}{
		{"resource_endpoint", "http://h/api/v1/expenses", context.Background(), true},
		{"me_endpoint", "http://h/api/v1/auth/me", context.Background(), true},
		{"login_endpoint", "http://h/api/v1/auth/login", context.Background(), false},
		{"marked_request", "http://h/api/v1/expenses", ctxutil.WithoutRecovery(context.Background()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := notify.NewRecorder()
			tokens := &tokenHolder{token: "t"}
			base := &capture{status: http.StatusUnauthorized}
			pipeline := transport.Chain(base, transport.ErrorRecovery(tokens, recorder, recorder, discardLogger))

			response, err := pipeline.RoundTrip(mustRequest(t, tt.ctx, tt.target))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

			if tt.wantEffect {
				assert.Equal(t, []notify.Event{{Level: notify.LevelError, Message: constants.MsgUnauthorizedAction}}, recorder.Events())
				assert.Len(t, recorder.Navigations(), 1)
				assert.Equal(t, 1, tokens.removed)
			} else {
				assert.Empty(t, recorder.Events())
				assert.Empty(t, recorder.Navigations())
				assert.Zero(t, tokens.removed)
			}
		})
	}
}

/*
TestErrorRecovery_NetworkFailure notifies and propagates the original error.
*/
func TestErrorRecovery_NetworkFailure(t *testing.T) {
	dialError := errors.New("dial tcp 127.0.0.1:1: connect: connection refused")

	recorder := notify.NewRecorder()
	pipeline := transport.Chain(&capture{err: dialError}, transport.ErrorRecovery(&tokenHolder{}, recorder, recorder, discardLogger))

	_, err := pipeline.RoundTrip(mustRequest(t, context.Background(), "http://h/api/v1/expenses"))
	assert.Same(t, dialError, err)
	assert.Equal(t, []string{constants.MsgNetworkError}, recorder.Messages(notify.LevelError))
	assert.Empty(t, recorder.Navigations())
}

/*
TestErrorRecovery_PassThrough stays silent for cancellation and other statuses.
*/
func TestErrorRecovery_PassThrough(t *testing.T) {
	recorder := notify.NewRecorder()

	cancelled := transport.Chain(&capture{err: context.Canceled}, transport.ErrorRecovery(&tokenHolder{}, recorder, recorder, discardLogger))
	_, err := cancelled.RoundTrip(mustRequest(t, context.Background(), "http://h/api/v1/expenses"))
	assert.ErrorIs(t, err, context.Canceled)

	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		pipeline := transport.Chain(&capture{status: status}, transport.ErrorRecovery(&tokenHolder{}, recorder, recorder, discardLogger))
		response, err := pipeline.RoundTrip(mustRequest(t, context.Background(), "http://h/api/v1/expenses"))
		require.NoError(t, err)
		assert.Equal(t, status, response.StatusCode)
	}

	assert.Empty(t, recorder.Events())
	assert.Empty(t, recorder.Navigations())
}

/*
TestRequestID generates a UUID v7 unless the caller set one.
*/
func TestRequestID(t *testing.T) {
	base := &capture{}
	pipeline := transport.Chain(base, transport.RequestID())

	_, err := pipeline.RoundTrip(mustRequest(t, context.Background(), "/api/x"))
	require.NoError(t, err)

	generated := base.last.Header.Get(constants.HeaderXRequestID)
	parsed, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, generated, ctxutil.GetRequestID(base.last.Context()))

	request := mustRequest(t, context.Background(), "/api/x")
	request.Header.Set(constants.HeaderXRequestID, "caller-id")
	_, err = pipeline.RoundTrip(request)
	require.NoError(t, err)
	assert.Equal(t, "caller-id", base.last.Header.Get(constants.HeaderXRequestID))
}

/*
TestRateLimit_HonoursContext returns the wait error once the budget is spent.
*/
func TestRateLimit_HonoursContext(t *testing.T) {
	base := &capture{}
	pipeline := transport.Chain(base, transport.RateLimit(0.001, 1))

	_, err := pipeline.RoundTrip(mustRequest(t, context.Background(), "/api/x"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pipeline.RoundTrip(mustRequest(t, ctx, "/api/x"))
	assert.Error(t, err)

	disabled := transport.Chain(base, transport.RateLimit(0, 0))
	for i := 0; i < 5; i++ {
		_, err := disabled.RoundTrip(mustRequest(t, context.Background(), "/api/x"))
		require.NoError(t, err)
	}
}

/*
TestChain_Order runs the request phase outermost first and the response phase in reverse.
*/
func TestChain_Order(t *testing.T) {
	var trace []string
	stage := func(name string) transport.Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return transport.RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
				trace = append(trace, "->"+name)
				response, err := next.RoundTrip(request)
				trace = append(trace, "<-"+name)
				return response, err
			})
		}
	}

	pipeline := transport.Chain(&capture{}, stage("a"), stage("b"), stage("c"))
	_, err := pipeline.RoundTrip(mustRequest(t, context.Background(), "/api/x"))
	require.NoError(t, err)

	assert.Equal(t, []string{"->a", "->b", "->c", "<-c", "<-b", "<-a"}, trace)
}
