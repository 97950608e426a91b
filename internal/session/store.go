// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the client's credential and everything derived from it.

Layers, leaf first:

  - [Decode] / [IsValid]: pure claims decoding, no signature check.
  - [TokenStore]: the single source of truth for the raw credential, mirrored
    to a durable [Storage] slot and observable through a reactive signal.
  - [Session]: identity and role derived from the store, recomputed whenever
    the held token changes.
  - [AuthService]: login, current-user and logout calls over the transport.

The store is the only shared mutable state on the client. Its writers are
login, logout and the transport's 401 handling.
*/
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/reactive"
)

// TokenStore holds the raw credential in memory and in durable storage.
//
// An empty string means "no token" throughout.
type TokenStore struct {
	storage Storage
	logger  *slog.Logger
	token   *reactive.Signal[string]
	once    sync.Once
	initErr error
}

// NewTokenStore creates a store over storage. Call [TokenStore.Initialize]
// once at process start before reading it.
func NewTokenStore(storage Storage, logger *slog.Logger) *TokenStore {
	return &TokenStore{
		storage: storage,
		logger:  logger.With(slog.String("component", "token_store")),
		token:   reactive.NewComparableSignal(""),
	}
}

// Initialize rehydrates the held token from durable storage.
//
// A stored token that fails [IsValid] is cleared from storage and not held.
// Only the first call does any work; later calls return its result.
func (store *TokenStore) Initialize(ctx context.Context) error {
	store.once.Do(func() {
		store.initErr = store.rehydrate(ctx)
	})
	return store.initErr
}

func (store *TokenStore) rehydrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageTimeout)
	defer cancel()

	// ── 1. Read the slot ──────────────────────────────────────────────
	stored, err := store.storage.Load(ctx)
	if err != nil {
		return err
	}

	if stored == "" {
		return nil
	}

	// ── 2. Drop what can no longer be used ───────────────────────────
	if !IsValid(stored) {
		store.logger.Info("stored_token_discarded")
		return store.storage.Clear(ctx)
	}

	// ── 3. Hold it ───────────────────────────────────────────────────
	store.token.Set(stored)
	store.logger.Debug("stored_token_restored")
	return nil
}

// Save writes token to durable storage, then holds it.
//
// No validation is done: the caller just received it from the login endpoint.
func (store *TokenStore) Save(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageTimeout)
	defer cancel()

	if err := store.storage.Save(ctx, token); err != nil {
		return err
	}

	store.token.Set(token)
	store.logger.Debug("token_saved")
	return nil
}

// Remove clears durable storage and the held value. Calling it again is harmless.
//
// The held value is cleared even when storage fails, so the process stops
// presenting the credential either way.
func (store *TokenStore) Remove(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageTimeout)
	defer cancel()

	err := store.storage.Clear(ctx)
	store.token.Set("")

	if err != nil {
		store.logger.Warn("token_clear_failed", slog.Any("error", err))
		return err
	}

	store.logger.Debug("token_removed")
	return nil
}

// Current returns the held token, "" when absent.
func (store *TokenStore) Current() string {
	return store.token.Get()
}

// Signal exposes the held token for derivations and effects.
func (store *TokenStore) Signal() reactive.Source {
	return store.token
}
