package timeutil

import (
	"testing"
	"time"
)

func i64(v int64) *int64 { return &v }

func TestExpireAt_Permanent(t *testing.T) {
	if got := ExpireAt(time.Now(), nil, 86400); got != nil {
		t.Errorf("expected nil for nil duration, got %d", *got)
	}
}

func TestExpireAt_CapClamps(t *testing.T) {
	now := time.Unix(1000, 0)

	got := ExpireAt(now, i64(999999), 86400)
	if got == nil || *got != 1000+86400 {
		t.Fatalf("expected now+cap, got %v", got)
	}

	// Under the cap, the requested duration stands.
	got = ExpireAt(now, i64(3600), 86400)
	if got == nil || *got != 1000+3600 {
		t.Fatalf("expected now+3600, got %v", got)
	}
}

func TestExpireAt_ZeroCapUnlimited(t *testing.T) {
	now := time.Unix(0, 0)
	got := ExpireAt(now, i64(999999), 0)
	if got == nil || *got != 999999 {
		t.Fatalf("expected uncapped expiry, got %v", got)
	}
}

func TestFormatRemaining(t *testing.T) {
	now := time.Unix(10000, 0)

	cases := []struct {
		name   string
		expire *int64
		want   string
	}{
		{"permanent", nil, "permanent"},
		{"expired", i64(9999), "expired"},
		{"expires now", i64(10000), "expired"},
		{"minutes only", i64(10000 + 45*60), "45m"},
		{"hours and minutes", i64(10000 + 3600 + 30*60), "1h30m"},
		{"exactly one hour", i64(10000 + 3600), "1h0m"},
		{"days and hours", i64(10000 + 2*86400 + 3*3600 + 59*60), "2d3h"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.expire, now); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{3600, "1h"},
		{5400, "1h30m"},
		{2700, "45m"},
		{30, "0m"},
		{90000, "25h"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("%d: expected %q, got %q", tc.seconds, tc.want, got)
		}
	}
}
