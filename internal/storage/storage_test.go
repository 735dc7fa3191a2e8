// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"
)

type payload struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

// storeFactories builds each backend fresh inside a temp dir so one test
// suite covers all three implementations.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileStore failed: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("OpenSQLite failed: %v", err)
			}
			return s
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			in := payload{Name: "conversations", Count: 3, Tags: []string{"a", "b"}}
			if err := s.SetItem(ctx, "k", in); err != nil {
				t.Fatalf("SetItem failed: %v", err)
			}

			var out payload
			ok, err := s.GetItem(ctx, "k", &out)
			if err != nil {
				t.Fatalf("GetItem failed: %v", err)
			}
			if !ok {
				t.Fatal("GetItem reported missing key after SetItem")
			}
			if out.Name != in.Name || out.Count != in.Count || len(out.Tags) != 2 {
				t.Errorf("round trip mismatch: %+v", out)
			}
		})
	}
}

func TestStore_MissingKey(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			var out payload
			ok, err := s.GetItem(context.Background(), "missing", &out)
			if err != nil {
				t.Fatalf("GetItem failed: %v", err)
			}
			if ok {
				t.Error("GetItem reported a missing key as present")
			}
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			if err := s.SetItem(ctx, "k", payload{Name: "first"}); err != nil {
				t.Fatalf("SetItem failed: %v", err)
			}
			if err := s.SetItem(ctx, "k", payload{Name: "second"}); err != nil {
				t.Fatalf("SetItem overwrite failed: %v", err)
			}

			var out payload
			if _, err := s.GetItem(ctx, "k", &out); err != nil {
				t.Fatalf("GetItem failed: %v", err)
			}
			if out.Name != "second" {
				t.Errorf("Name = %q, want %q", out.Name, "second")
			}
		})
	}
}

func TestStore_Remove(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			if err := s.SetItem(ctx, "k", payload{Name: "x"}); err != nil {
				t.Fatalf("SetItem failed: %v", err)
			}
			if err := s.RemoveItem(ctx, "k"); err != nil {
				t.Fatalf("RemoveItem failed: %v", err)
			}

			var out payload
			ok, _ := s.GetItem(ctx, "k", &out)
			if ok {
				t.Error("key still present after RemoveItem")
			}

			// Removing again is a no-op, not an error.
			if err := s.RemoveItem(ctx, "k"); err != nil {
				t.Errorf("second RemoveItem should be a no-op, got %v", err)
			}
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := s.SetItem(ctx, "k", payload{Name: "durable"}); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	var out payload
	ok, err := s2.GetItem(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("GetItem after reopen: ok=%v err=%v", ok, err)
	}
	if out.Name != "durable" {
		t.Errorf("Name = %q, want %q", out.Name, "durable")
	}
}
