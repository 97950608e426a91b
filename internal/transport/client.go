// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/notify"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Options configures the pipeline.
type Options struct {
	// Prefix is the API path prefix every call is issued under.
	Prefix string
	// BaseURL is what Prefix is rewritten to.
	BaseURL string
	// Timeout bounds one call end to end. Zero means no limit.
	Timeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// Base is the innermost round tripper. Nil means a clone of [http.DefaultTransport].
	Base http.RoundTripper
}

// Dependencies are the collaborators the pipeline calls into.
type Dependencies struct {
	Tokens    TokenSource
	Remover   TokenRemover
	Notifier  notify.Notifier
	Navigator notify.Navigator
	Logger    *slog.Logger
}

// Client issues JSON calls through the pipeline and converts every failure
// into an [*apperr.AppError] at this boundary.
type Client struct {
	http   *http.Client
	prefix string
	logger *slog.Logger
}

// NewClient builds the full stage chain.
func NewClient(options Options, deps Dependencies) (*Client, error) {
	baseURL, err := url.Parse(options.BaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("transport: base URL must be absolute, got %q", options.BaseURL)
	}

	prefix := strings.TrimSuffix(options.Prefix, "/")
	if prefix == "" {
		prefix = constants.DefaultAPIPrefix
	}

	base := options.Base
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	logger := deps.Logger.With(slog.String("component", "transport"))

	pipeline := Chain(base,
		Logging(logger),
		RequestID(),
		RateLimit(options.RateLimitRPS, options.RateLimitBurst),
		Authorization(prefix, deps.Tokens),
		ProxyRewrite(prefix, baseURL),
		ErrorRecovery(deps.Remover, deps.Notifier, deps.Navigator, logger),
	)

	return &Client{
		http:   &http.Client{Transport: pipeline, Timeout: options.Timeout},
		prefix: prefix,
		logger: logger,
	}, nil
}

// Prefix returns the API prefix calls are issued under.
func (client *Client) Prefix() string {
	return client.prefix
}

// # Verbs

// Get issues GET <prefix><path>?query and decodes the result into out.
func (client *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return client.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues POST <prefix><path> with a JSON body.
func (client *Client) Post(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues PATCH <prefix><path> with a JSON body.
func (client *Client) Patch(ctx context.Context, path string, body, out any) error {
	return client.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Do issues one call.
//
// # Decoding
//
// A 2xx body of the shape `{"data": ...}` is unwrapped into out; any other
// JSON body is decoded into out as-is. An empty body leaves out untouched.
//
// # Errors
//
// Non-2xx responses become [apperr.FromResponse], transport failures become
// [apperr.Network]. Cancellation by the caller is returned as-is.
func (client *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {

	// ── 1. Build ──────────────────────────────────────────────────────────
	target := client.prefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("transport: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set(constants.HeaderContentType, "application/json")
	}

	// ── 2. Send ───────────────────────────────────────────────────────────
	response, err := client.http.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return apperr.Network(err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return apperr.Network(err)
	}

	// ── 3. Classify ───────────────────────────────────────────────────────
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return apperr.FromResponse(response.StatusCode, raw)
	}

	// ── 4. Decode ─────────────────────────────────────────────────────────
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	return decodeBody(raw, out)
}

func decodeBody(raw []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	payload := raw
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		payload = envelope.Data
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &apperr.AppError{
			Kind:    apperr.KindUnknown,
			Code:    "DECODE_ERROR",
			Message: "Unexpected response from server",
			Cause:   err,
		}
	}
	return nil
}
