// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/expensa/internal/platform/dberr"
)

/*
TestMissing recognizes the empty-slot signal of every driver.
*/
func TestMissing(t *testing.T) {
	assert.True(t, dberr.Missing(pgx.ErrNoRows))
	assert.True(t, dberr.Missing(sql.ErrNoRows))
	assert.True(t, dberr.Missing(redis.Nil))
	assert.True(t, dberr.Missing(fmt.Errorf("scan: %w", sql.ErrNoRows)))
	assert.False(t, dberr.Missing(errors.New("connection reset")))
	assert.False(t, dberr.Missing(nil))
}

/*
TestWrap keeps the cause and the storage marker reachable.
*/
func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := dberr.Wrap(cause, "postgres", "save")

	assert.EqualError(t, err, "session: save postgres slot: connection reset")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, dberr.ErrStorage)

	assert.NoError(t, dberr.Wrap(nil, "redis", "load"))
	assert.NoError(t, dberr.Wrap(redis.Nil, "redis", "load"))
}
