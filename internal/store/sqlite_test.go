package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteKV(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create kv: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t)

	got, err := s.Get(ctx, "chat1", "blocks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent key, got %q", got)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t)

	if err := s.Set(ctx, "chat1", "blocks", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "chat1", "blocks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("expected stored value, got %q", got)
	}

	// Unconditional overwrite, last writer wins.
	if err := s.Set(ctx, "chat1", "blocks", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "chat1", "blocks")
	if string(got) != `{"a":2}` {
		t.Errorf("expected overwritten value, got %q", got)
	}
}

func TestScopeIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t)

	s.Set(ctx, "chat1", "blocks", []byte("one"))
	s.Set(ctx, "chat2", "blocks", []byte("two"))

	got, _ := s.Get(ctx, "chat1", "blocks")
	if string(got) != "one" {
		t.Errorf("chat1: expected 'one', got %q", got)
	}
	got, _ = s.Get(ctx, "chat2", "blocks")
	if string(got) != "two" {
		t.Errorf("chat2: expected 'two', got %q", got)
	}
}
