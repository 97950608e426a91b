// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// # Durable Slot

// Storage is the single durable key-value slot holding the raw credential.
//
// Load returns "" for an empty slot. Clear on an empty slot is not an error.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// # Memory

// MemoryStorage keeps the slot in process memory. Nothing survives a restart.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStorage creates a slot pre-filled with token ("" for empty).
func NewMemoryStorage(token string) *MemoryStorage {
	return &MemoryStorage{token: token}
}

func (storage *MemoryStorage) Load(_ context.Context) (string, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return storage.token, nil
}

func (storage *MemoryStorage) Save(_ context.Context, token string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.token = token
	return nil
}

func (storage *MemoryStorage) Clear(_ context.Context) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.token = ""
	return nil
}

// # File

// FileStorage keeps a JSON object of slots in one 0600 file; only key is touched.
type FileStorage struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewFileStorage creates a file-backed slot. The file is created on first save.
func NewFileStorage(path, key string) *FileStorage {
	return &FileStorage{path: path, key: key}
}

func (storage *FileStorage) Load(_ context.Context) (string, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	slots, err := storage.read()
	if err != nil {
		return "", err
	}
	return slots[storage.key], nil
}

func (storage *FileStorage) Save(_ context.Context, token string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	slots, err := storage.read()
	if err != nil {
		return err
	}
	slots[storage.key] = token
	return storage.write(slots)
}

func (storage *FileStorage) Clear(_ context.Context) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	slots, err := storage.read()
	if err != nil {
		return err
	}
	if _, found := slots[storage.key]; !found {
		return nil
	}
	delete(slots, storage.key)
	return storage.write(slots)
}

func (storage *FileStorage) read() (map[string]string, error) {
	slots := map[string]string{}

	raw, err := os.ReadFile(storage.path)
	if errors.Is(err, fs.ErrNotExist) {
		return slots, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", storage.path, err)
	}

	if strings.TrimSpace(string(raw)) == "" {
		return slots, nil
	}

	// An unreadable file is treated as an empty slot and overwritten on save.
	if err := json.Unmarshal(raw, &slots); err != nil {
		return map[string]string{}, nil
	}
	return slots, nil
}

// write replaces the file atomically via rename.
func (storage *FileStorage) write(slots map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(storage.path), 0o700); err != nil {
		return fmt.Errorf("session: create slot dir: %w", err)
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("session: encode slot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(storage.path), ".token-*")
	if err != nil {
		return fmt.Errorf("session: create temp slot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: chmod slot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close slot: %w", err)
	}

	if err := os.Rename(tmp.Name(), storage.path); err != nil {
		return fmt.Errorf("session: replace slot: %w", err)
	}
	return nil
}
