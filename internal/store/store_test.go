package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rcliao/agent-blocklist/internal/model"
)

func i64(v int64) *int64 { return &v }

func TestLoadBlockList_Empty(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	list, err := LoadBlockList(ctx, kv, "chat1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(list.Blocks) != 0 {
		t.Errorf("expected empty list, got %d records", len(list.Blocks))
	}
	// Usable straight away.
	list.Add(model.BlockRecord{UserID: "a:1", BlockType: model.PreventTrigger})
	if !list.IsBlocked("a:1") {
		t.Error("expected add on fresh list to work")
	}
}

func TestBlockListRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	list := model.NewBlockList()
	list.Add(model.BlockRecord{
		UserID:     "onebot:123",
		Username:   "alice",
		BlockType:  model.PreventTrigger,
		Reason:     "spamming",
		StartTime:  1000,
		ExpireTime: i64(4600),
	})
	list.Add(model.BlockRecord{
		UserID:      "onebot:456",
		Username:    "bob",
		BlockType:   model.FullBlock,
		Reason:      "harassment",
		StartTime:   1000,
		IsPermanent: true,
	})

	if err := SaveBlockList(ctx, kv, "chat1", list); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadBlockList(ctx, kv, "chat1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, list) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, list)
	}
}

func TestLoadBlockList_CorruptBlobFails(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	kv.Set(ctx, "chat1", "blocks", []byte("not json"))
	if _, err := LoadBlockList(ctx, kv, "chat1"); err == nil {
		t.Error("expected error for corrupt blob")
	}
}
