// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/expensa/internal/platform/dberr"
	"github.com/taibuivan/expensa/internal/session"
)

// exerciseStorage runs the slot contract shared by every backend.
func exerciseStorage(t *testing.T, storage session.Storage) {
	t.Helper()
	ctx := context.Background()

	// 1. Empty slot reads as ""
	token, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// 2. Clearing an empty slot is fine
	require.NoError(t, storage.Clear(ctx))

	// 3. Save then load
	require.NoError(t, storage.Save(ctx, "first"))
	require.NoError(t, storage.Save(ctx, "second"))
	token, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	// 4. Clear twice
	require.NoError(t, storage.Clear(ctx))
	require.NoError(t, storage.Clear(ctx))
	token, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

/*
TestMemoryStorage satisfies the slot contract.
*/
func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, session.NewMemoryStorage(""))
}

/*
TestFileStorage satisfies the slot contract and keeps the file private.
*/
func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	exerciseStorage(t, session.NewFileStorage(path, "auth_token"))

	storage := session.NewFileStorage(path, "auth_token")
	require.NoError(t, storage.Save(context.Background(), "persisted"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh instance sees the same slot
	token, err := session.NewFileStorage(path, "auth_token").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

/*
TestFileStorage_KeysAreIndependent only touches its own key.
*/
func TestFileStorage_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")

	primary := session.NewFileStorage(path, "auth_token")
	other := session.NewFileStorage(path, "other")

	require.NoError(t, primary.Save(ctx, "a"))
	require.NoError(t, other.Save(ctx, "b"))
	require.NoError(t, primary.Clear(ctx))

	token, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", token)
}

/*
TestFileStorage_CorruptFile reads as empty and is overwritten on save.
*/
func TestFileStorage_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	storage := session.NewFileStorage(path, "auth_token")
	token, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, storage.Save(ctx, "fresh"))
	token, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

/*
TestSQLiteStorage satisfies the slot contract against a real database file.
*/
func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.db")

	storage, err := session.OpenSQLiteStorage(ctx, path, "auth_token")
	require.NoError(t, err)
	exerciseStorage(t, storage)

	require.NoError(t, storage.Save(ctx, "kept"))
	require.NoError(t, storage.Close())

	reopened, err := session.OpenSQLiteStorage(ctx, path, "auth_token")
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", token)
}

// # Postgres fake

type fakeRow struct {
	value string
	err   error
}

func (row fakeRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	*(dest[0].(*string)) = row.value
	return nil
}

// fakePG emulates client_credentials with a map keyed by the first argument.
type fakePG struct {
	rows    map[string]string
	failure error
}

func (db *fakePG) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if db.failure != nil {
		return pgconn.CommandTag{}, db.failure
	}
	key := args[0].(string)
	if len(args) == 2 {
		db.rows[key] = args[1].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	delete(db.rows, key)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (db *fakePG) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if db.failure != nil {
		return fakeRow{err: db.failure}
	}
	value, found := db.rows[args[0].(string)]
	if !found {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: value}
}

/*
TestPostgresStorage maps pgx.ErrNoRows onto the empty slot.
*/
func TestPostgresStorage(t *testing.T) {
	exerciseStorage(t, session.NewPostgresStorage(&fakePG{rows: map[string]string{}}, "auth_token"))
}

/*
TestPostgresStorage_Failure wraps driver errors.
*/
func TestPostgresStorage_Failure(t *testing.T) {
	boom := errors.New("connection reset")
	storage := session.NewPostgresStorage(&fakePG{failure: boom}, "auth_token")

	_, err := storage.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, dberr.ErrStorage)
	assert.ErrorIs(t, storage.Save(context.Background(), "x"), boom)
}

// fakeRedis serves GET, SET and DEL from a map. Any other command panics
// through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	values  map[string]string
	failure error
}

func (db *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if db.failure != nil {
		return redis.NewStringResult("", db.failure)
	}
	value, found := db.values[key]
	if !found {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (db *fakeRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if db.failure != nil {
		return redis.NewStatusResult("", db.failure)
	}
	db.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (db *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if db.failure != nil {
		return redis.NewIntResult(0, db.failure)
	}
	var removed int64
	for _, key := range keys {
		if _, found := db.values[key]; found {
			delete(db.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

/*
TestRedisStorage maps redis.Nil onto the empty slot and namespaces the key.
*/
func TestRedisStorage(t *testing.T) {
	db := &fakeRedis{values: map[string]string{}}
	storage := session.NewRedisStorage(db, "auth_token")
	exerciseStorage(t, storage)

	require.NoError(t, storage.Save(context.Background(), "shared"))
	assert.Equal(t, map[string]string{"expensa:auth_token": "shared"}, db.values)
}

/*
TestRedisStorage_Failure wraps driver errors.
*/
func TestRedisStorage_Failure(t *testing.T) {
	boom := errors.New("connection refused")
	storage := session.NewRedisStorage(&fakeRedis{failure: boom}, "auth_token")

	_, err := storage.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, dberr.ErrStorage)
	assert.ErrorIs(t, storage.Save(context.Background(), "x"), boom)
	assert.ErrorIs(t, storage.Clear(context.Background()), boom)
}
