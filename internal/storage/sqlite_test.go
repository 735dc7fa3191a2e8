// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "app.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetItem(context.Background(), "k", "v"))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

func TestSQLite_CorruptValueSurfacesError(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	// Write a raw non-JSON value straight into the table.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES ('bad', '{not json', 0)`)
	require.NoError(t, err)

	var out map[string]any
	_, err = s.GetItem(ctx, "bad", &out)
	assert.Error(t, err, "undecodable stored value must not be silently dropped")
}

func TestSQLite_ConcurrentWriters(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	// The single-connection pool serializes these; none may fail with a
	// busy error.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.SetItem(ctx, "shared", n))
		}(i)
	}
	wg.Wait()

	var got int
	ok, err := s.GetItem(ctx, "shared", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.GreaterOrEqual(t, got, 0)
	assert.Less(t, got, 20)
}
