// Package timeutil computes and renders block expiry times.
package timeutil

import (
	"fmt"
	"time"
)

// ExpireAt converts a requested duration into an absolute expiry timestamp
// (epoch seconds). A nil duration means no expiry and maps to nil. A positive
// maxSeconds caps the duration; zero means unlimited.
func ExpireAt(now time.Time, seconds *int64, maxSeconds int64) *int64 {
	if seconds == nil {
		return nil
	}
	s := *seconds
	if maxSeconds > 0 && s > maxSeconds {
		s = maxSeconds
	}
	exp := now.Unix() + s
	return &exp
}

// FormatRemaining renders the time left until expire as the largest two
// applicable units (days+hours, hours+minutes, or minutes alone). A nil
// expiry renders as "permanent"; a past one as "expired".
func FormatRemaining(expire *int64, now time.Time) string {
	if expire == nil {
		return "permanent"
	}
	remaining := *expire - now.Unix()
	if remaining <= 0 {
		return "expired"
	}

	days := remaining / 86400
	hours := (remaining % 86400) / 3600
	minutes := (remaining % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatDuration renders a duration in seconds for confirmation messages,
// e.g. "1h", "1h30m", "45m". Sub-minute durations round down to "0m".
func FormatDuration(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
