// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// The development API uses them as record IDs, so listing by ID also lists
// by creation time.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string, falling back to a random v4 if the
// clock-based generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
