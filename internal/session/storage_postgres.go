// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/expensa/internal/platform/dberr"
)

// PGExecutor is the subset of [pgxpool.Pool] the Postgres slot needs.
type PGExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage keeps the slot in the `client_credentials` table.
// The table is created by the migration package.
type PostgresStorage struct {
	db  PGExecutor
	key string
}

// NewPostgresStorage creates a Postgres-backed slot.
func NewPostgresStorage(db PGExecutor, key string) *PostgresStorage {
	return &PostgresStorage{db: db, key: key}
}

func (storage *PostgresStorage) Load(ctx context.Context) (string, error) {
	const query = `SELECT token FROM client_credentials WHERE key = $1`

	var token string
	if err := storage.db.QueryRow(ctx, query, storage.key).Scan(&token); err != nil {
		return "", dberr.Wrap(err, "postgres", "load")
	}
	return token, nil
}

func (storage *PostgresStorage) Save(ctx context.Context, token string) error {
	const query = `
		INSERT INTO client_credentials (key, token, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`

	_, err := storage.db.Exec(ctx, query, storage.key, token)
	return dberr.Wrap(err, "postgres", "save")
}

func (storage *PostgresStorage) Clear(ctx context.Context) error {
	const query = `DELETE FROM client_credentials WHERE key = $1`

	_, err := storage.db.Exec(ctx, query, storage.key)
	return dberr.Wrap(err, "postgres", "clear")
}
