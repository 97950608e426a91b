// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/expensa/internal/platform/reactive"
	"github.com/taibuivan/expensa/internal/platform/sec"
)

// User is the identity projected from valid claims.
type User struct {
	ID    string
	Name  string
	Email string
	Role  sec.Role
}

// decoded is the memoized outcome of decoding the held token.
type decoded struct {
	claims *Claims
	err    error
}

// Session derives identity and role from a [TokenStore].
//
// # Reactivity
//
// Decoding is a pure [reactive.Computed] over the store's signal. When the
// held token fails to decode, a separate [reactive.Effect] logs the cause and
// removes it; the derivation itself never writes to the store.
type Session struct {
	store   *TokenStore
	logger  *slog.Logger
	now     func() time.Time
	decoded *reactive.Computed[decoded]
	repair  *reactive.Effect
}

// Option customizes a [Session].
type Option func(*Session)

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(session *Session) { session.now = now }
}

// New wires a session to store. Corrective effects run on scheduler.
func New(store *TokenStore, scheduler *reactive.Scheduler, logger *slog.Logger, options ...Option) *Session {
	session := &Session{
		store:  store,
		logger: logger.With(slog.String("component", "session")),
		now:    time.Now,
	}

	for _, option := range options {
		option(session)
	}

	session.decoded = reactive.NewComputed(func() decoded {
		token := store.Current()
		if token == "" {
			return decoded{}
		}
		claims, err := Decode(token)
		return decoded{claims: claims, err: err}
	}, store.Signal())

	session.repair = reactive.NewEffect(scheduler, session.removeCorruptToken, store.Signal())

	return session
}

// removeCorruptToken is the effect forcing a logout on an undecodable token.
func (session *Session) removeCorruptToken() {
	result := session.decoded.Get()
	if result.err == nil {
		return
	}

	session.logger.Warn("session_token_corrupt", slog.Any("error", result.err))

	ctx := context.Background()
	if err := session.store.Remove(ctx); err != nil {
		session.logger.Error("session_token_corrupt_clear_failed", slog.Any("error", err))
	}
}

// CurrentUser returns the identity of the held token, or nil when the token is
// absent, undecodable, subject-less or expired.
func (session *Session) CurrentUser() *User {
	result := session.decoded.Get()
	if result.err != nil || !result.claims.ValidAt(session.now()) {
		return nil
	}

	claims := result.claims
	return &User{
		ID:    claims.SubjectID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
}

// IsAuthenticated reports whether [Session.CurrentUser] is non-nil.
func (session *Session) IsAuthenticated() bool {
	return session.CurrentUser() != nil
}

// HasRole reports whether the current user holds exactly role.
func (session *Session) HasRole(role sec.Role) bool {
	user := session.CurrentUser()
	return user != nil && user.Role == role
}

// Token passes the held token through for the request pipeline.
func (session *Session) Token() string {
	return session.store.Current()
}

// Close detaches the corrective effect.
func (session *Session) Close() {
	session.repair.Stop()
}
