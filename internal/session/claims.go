// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/expensa/internal/platform/sec"
)

// # Claims Decoding

// Claims is the decoded payload of a credential token.
//
// A zero ExpiresAt means the token never expires.
type Claims struct {
	SubjectID string
	Name      string
	Email     string
	Role      sec.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ErrMalformedToken is returned by [Decode] for anything that is not a
// three-segment token with a JSON payload.
var ErrMalformedToken = errors.New("session: malformed token")

// parser decodes without verifying: the client holds no key.
var parser = jwt.NewParser()

// Decode parses the payload of token without checking its signature.
//
// It never panics. The signing algorithm named in the header is irrelevant
// here and is not required to be one the jwt library knows.
func Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}

	payload := &sec.AuthClaims{}
	parsed, _, err := parser.ParseUnverified(token, payload)
	if err != nil && (parsed == nil || !errors.Is(err, jwt.ErrTokenUnverifiable)) {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims := &Claims{
		SubjectID: payload.Subject,
		Name:      payload.Name,
		Email:     payload.Email,
		Role:      sec.Role(payload.Role),
	}

	if role, ok := sec.ParseRole(payload.Role); ok {
		claims.Role = role
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}

	return claims, nil
}

// ValidAt reports whether the claims carry a subject and are unexpired at now.
// Expiry is compared at millisecond precision.
func (claims *Claims) ValidAt(now time.Time) bool {
	if claims == nil || claims.SubjectID == "" {
		return false
	}
	return claims.ExpiresAt.IsZero() || claims.ExpiresAt.UnixMilli() > now.UnixMilli()
}

// IsValid reports whether token decodes to claims that are valid right now.
// It returns false, never an error, for empty or garbage input.
func IsValid(token string) bool {
	return IsValidAt(token, time.Now())
}

// IsValidAt is [IsValid] against an explicit clock.
func IsValidAt(token string, now time.Time) bool {
	claims, err := Decode(token)
	if err != nil {
		return false
	}
	return claims.ValidAt(now)
}
