// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values shared by the client,
the CLI and the development API.

Categories:

  - Wire Contract: API prefix, endpoint paths, header names.
  - Client Timing: HTTP timeouts.
  - Server Timing: development API timeouts and rate limits.
  - Messages: fixed user-facing texts used when the server sends none.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "expensa"
	AppVersion = "0.3.0"
)

// # Wire Contract

const (
	// DefaultAPIPrefix is the path prefix every API call is issued under.
	DefaultAPIPrefix = "/api"

	// DefaultAPIBaseURL is where the prefix is rewritten to.
	DefaultAPIBaseURL = "http://localhost:8080/api/v1"

	// LoginPath is the login endpoint relative to the API prefix.
	LoginPath = "/auth/login"

	// MePath is the current-user endpoint relative to the API prefix.
	MePath = "/auth/me"

	// DefaultTokenKey is the fixed storage key holding the raw credential.
	DefaultTokenKey = "auth_token"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderContentType   = "Content-Type"

	BearerScheme = "Bearer"
)

// # Pagination

const (
	// DefaultPage is the 1-based first page sent to list endpoints.
	DefaultPage = 1
	// DefaultLimit is the page size sent when the caller gives none.
	DefaultLimit = 10
	// FilterAll is the UI sentinel for "no filter". It never reaches the wire.
	FilterAll = "ALL"
)

// # Client Timing

const (
	// DefaultHTTPTimeout bounds a single API call end to end.
	DefaultHTTPTimeout = 15 * time.Second

	// StorageTimeout bounds a single credential storage operation.
	StorageTimeout = 3 * time.Second
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get during shutdown.
	ShutdownTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP on the development API.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of development API tokens.
	AuthIssuer = "expensa.dev"

	// DefaultTokenTTL is the lifetime of development API tokens.
	DefaultTokenTTL = 8 * time.Hour
)

// # Messages

const (
	MsgNetworkError       = "Network error. Please check your connection."
	MsgUnauthorizedAction = "Unauthorized action. Please log in again."
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgBadRequest         = "Bad request. Please fill in all required fields."
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginFailed        = "Login failed. Please try again later."
	MsgServerUnreachable  = "Unable to reach the server"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMessage = "message"
	FieldCode    = "code"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldStatus  = "status"
	FieldToken   = "token"
)

// # Redis Prefixes

const (
	RedisPrefixCredential = "expensa:"
)
