// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the token claims shape shared by client and server,
// plus the signing, verification and hashing primitives of the development API.
//
// # Architecture
//
// The client never verifies signatures: it has no key. It only decodes the
// payload of [AuthClaims]. Signature trust is established server-side on every
// authorized request.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a credential token.
//
// Registered claims carry `sub`, `iat`, `exp`; `exp` is optional and a token
// without it never expires.
type AuthClaims struct {
	jwt.RegisteredClaims

	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenService signs and verifies development API tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService with a shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

// TokenSubject is the identity written into a token.
type TokenSubject struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

// GenerateAccessToken creates a signed token for a user.
// A zero timeToLive produces a token without `exp`.
func (service *TokenService) GenerateAccessToken(subject TokenSubject, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject.UserID,
			Issuer:   service.issuer,
			IssuedAt: jwt.NewNumericDate(currentTime),
		},
		Name:  subject.Name,
		Email: subject.Email,
		Role:  string(subject.Role),
	}

	if timeToLive > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(currentTime.Add(timeToLive))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a token string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
