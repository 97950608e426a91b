// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import sqlite driver
	_ "modernc.org/sqlite"

	"github.com/taibuivan/expensa/internal/platform/dberr"
)

// SQLiteStorage keeps the slot in a local SQLite database (`kv` table).
type SQLiteStorage struct {
	conn *sql.DB
	key  string
}

// OpenSQLiteStorage opens (and creates when missing) the database at path.
func OpenSQLiteStorage(ctx context.Context, path, key string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("session: create sqlite dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open sqlite: %w", err)
	}

	// One connection keeps ":memory:" databases coherent.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: ping sqlite: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: migrate sqlite: %w", err)
	}

	return &SQLiteStorage{conn: conn, key: key}, nil
}

func (storage *SQLiteStorage) Load(ctx context.Context) (string, error) {
	var token string
	err := storage.conn.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", storage.key).Scan(&token)
	if err != nil {
		return "", dberr.Wrap(err, "sqlite", "load")
	}
	return token, nil
}

func (storage *SQLiteStorage) Save(ctx context.Context, token string) error {
	_, err := storage.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		storage.key, token,
	)
	return dberr.Wrap(err, "sqlite", "save")
}

func (storage *SQLiteStorage) Clear(ctx context.Context) error {
	_, err := storage.conn.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", storage.key)
	return dberr.Wrap(err, "sqlite", "clear")
}

// Close closes the database connection.
func (storage *SQLiteStorage) Close() error {
	return storage.conn.Close()
}
