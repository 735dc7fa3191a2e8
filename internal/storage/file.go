// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftlabs/driftchat/internal/util"
)

// FileStore persists each key as a JSON file under a base directory.
// Writes are atomic (temp file + fsync + rename) so a crash mid-save leaves
// the previous document intact.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the base directory when missing.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New("empty base directory")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// GetItem implements Store.
func (s *FileStore) GetItem(_ context.Context, key string, dest any) (bool, error) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// SetItem implements Store.
func (s *FileStore) SetItem(_ context.Context, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := util.AtomicWriteFile(s.filePath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// RemoveItem implements Store.
func (s *FileStore) RemoveItem(_ context.Context, key string) error {
	if err := os.Remove(s.filePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

// filePath maps a key to a file name, replacing separators so a key can
// never escape the base directory.
func (s *FileStore) filePath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.baseDir, safe+".json")
}
