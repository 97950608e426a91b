// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between driver errors raised by the
// credential backends and the errors the session layer reports.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// ErrStorage marks every wrapped backend failure.
var ErrStorage = errors.New("credential storage failure")

// Missing reports whether err only says the slot holds nothing.
// An empty slot is not a failure.
func Missing(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, redis.Nil)
}

// StorageError is a classified backend failure.
type StorageError struct {
	Backend string
	Action  string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("session: %s %s slot: %v", e.Action, e.Backend, e.Err)
}

// Unwrap exposes both the driver error and [ErrStorage].
func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Wrap classifies err for the given backend and action. It returns nil for
// nil errors and for [Missing] errors.
//
// Example:
//
//	dberr.Wrap(err, "redis", "load") // "session: load redis slot: <cause>"
func Wrap(err error, backend, action string) error {
	if err == nil || Missing(err) {
		return nil
	}
	return &StorageError{Backend: backend, Action: action, Err: err}
}
