package audit

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l, err := NewLog(db)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	return l
}

func TestAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	l := newTestLog(t)

	events := []Event{
		{ChatKey: "chat1", UserID: "onebot:1", Action: ActionBlock, Detail: "full_block 1h: spam"},
		{ChatKey: "chat1", UserID: "onebot:1", Action: ActionUnblock},
		{ChatKey: "chat2", Action: ActionExpireCleanup, Detail: "2 expired"},
	}
	for _, e := range events {
		if err := l.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := l.Recent(ctx, "chat1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for chat1, got %d", len(got))
	}
	// Most recent first; ULIDs sort by creation time.
	if got[0].Action != ActionUnblock || got[1].Action != ActionBlock {
		t.Errorf("unexpected order: %s, %s", got[0].Action, got[1].Action)
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Error("expected assigned id and timestamp")
	}

	all, err := l.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 events across scopes, got %d", len(all))
	}
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	l := newTestLog(t)

	for i := 0; i < 5; i++ {
		l.Append(ctx, Event{ChatKey: "chat1", Action: ActionBlock})
	}

	got, err := l.Recent(ctx, "chat1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 events, got %d", len(got))
	}
}
