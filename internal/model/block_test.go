package model

import "testing"

func i64(v int64) *int64 { return &v }

func timedRecord(userID string, expire int64) BlockRecord {
	return BlockRecord{
		UserID:     userID,
		Username:   "u-" + userID,
		BlockType:  PreventTrigger,
		StartTime:  0,
		ExpireTime: i64(expire),
	}
}

func permanentRecord(userID string) BlockRecord {
	return BlockRecord{
		UserID:      userID,
		Username:    "u-" + userID,
		BlockType:   FullBlock,
		StartTime:   0,
		IsPermanent: true,
	}
}

func TestAddGetRemove(t *testing.T) {
	l := NewBlockList()

	l.Add(timedRecord("a:1", 100))
	if !l.IsBlocked("a:1") {
		t.Error("expected a:1 blocked")
	}
	r, ok := l.Get("a:1")
	if !ok || r.Username != "u-a:1" {
		t.Errorf("unexpected record: %+v ok=%v", r, ok)
	}

	if !l.Remove("a:1") {
		t.Error("expected remove to report true")
	}
	if l.Remove("a:1") {
		t.Error("expected second remove to report false")
	}
	if l.IsBlocked("a:1") {
		t.Error("expected a:1 gone")
	}
}

func TestActive_StrictExpiry(t *testing.T) {
	l := NewBlockList()
	l.Add(timedRecord("a:1", 100))

	if len(l.Active(99)) != 1 {
		t.Error("expected record active before expiry")
	}
	// Expiring exactly at now means inactive.
	if len(l.Active(100)) != 0 {
		t.Error("expected record inactive at its expiry instant")
	}
}

func TestActive_AlwaysIncludesPermanent(t *testing.T) {
	l := NewBlockList()
	l.Add(permanentRecord("a:1"))
	l.Add(timedRecord("a:2", 50))

	for _, now := range []int64{0, 50, 1 << 40} {
		if _, ok := l.Active(now)["a:1"]; !ok {
			t.Errorf("permanent record missing from active set at %d", now)
		}
	}
}

func TestActive_SkipsUnresolvedExpiry(t *testing.T) {
	l := NewBlockList()
	l.Add(BlockRecord{UserID: "a:1", BlockType: PreventTrigger})

	if len(l.Active(0)) != 0 {
		t.Error("record with no expiry and not permanent must not be active")
	}
}

func TestCleanupExpired(t *testing.T) {
	l := NewBlockList()
	l.Add(timedRecord("a:1", 100))
	l.Add(timedRecord("a:2", 200))
	l.Add(permanentRecord("a:3"))
	l.Add(BlockRecord{UserID: "a:4", BlockType: PreventTrigger}) // no expiry set

	if got := l.CleanupExpired(100); got != 1 {
		t.Errorf("expected 1 removed, got %d", got)
	}
	if l.IsBlocked("a:1") {
		t.Error("expected a:1 removed")
	}
	if !l.IsBlocked("a:2") || !l.IsBlocked("a:3") || !l.IsBlocked("a:4") {
		t.Error("cleanup touched records it should not")
	}

	// Idempotent for the same instant.
	if got := l.CleanupExpired(100); got != 0 {
		t.Errorf("expected second cleanup to remove 0, got %d", got)
	}
}

func TestStats(t *testing.T) {
	l := NewBlockList()
	l.Add(timedRecord("a:1", 1000))
	l.Add(permanentRecord("a:2"))
	l.Add(timedRecord("a:3", 10)) // already expired at now=500

	st := l.Stats(500)
	if st.Total != 2 {
		t.Errorf("expected total 2, got %d", st.Total)
	}
	if st.PreventTrigger != 1 || st.FullBlock != 1 {
		t.Errorf("unexpected per-type counts: %+v", st)
	}
	if st.Permanent != 1 {
		t.Errorf("expected 1 permanent, got %d", st.Permanent)
	}
}

func TestBlockTypeDescription(t *testing.T) {
	if !PreventTrigger.Valid() || !FullBlock.Valid() {
		t.Error("known types must be valid")
	}
	if BlockType("mute").Valid() {
		t.Error("unknown type must be invalid")
	}
	if PreventTrigger.Description() == FullBlock.Description() {
		t.Error("descriptions must differ")
	}
}
