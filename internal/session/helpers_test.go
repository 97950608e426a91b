// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// signedToken issues an HS256 token with the given claims.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("session-test-secret"))
	require.NoError(t, err)
	return token
}

// userToken issues a token for a subject expiring after ttl (zero: no exp).
func userToken(t *testing.T, subject, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"name":  "Jane Doe",
		"email": "jane@expensa.dev",
		"role":  role,
		"iat":   time.Now().Unix(),
	}
	if ttl != 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return signedToken(t, claims)
}

// rawToken assembles a token from arbitrary header and payload JSON.
func rawToken(t *testing.T, header, payload any) string {
	t.Helper()
	encode := func(value any) string {
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	return encode(header) + "." + encode(payload) + ".c2lnbmF0dXJl"
}
