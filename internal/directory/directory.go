// Package directory resolves platform identifiers to user entities and
// persists the per-user block timestamp fields.
package directory

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUserNotFound is returned when no user matches the given identifier.
var ErrUserNotFound = errors.New("user not found")

// User is the persisted user entity. PreventTriggerUntil and BanUntil are
// independent fields; the blocklist layer keeps at most one in use per user.
type User struct {
	ID                  string     `json:"id"`
	AdapterKey          string     `json:"adapter_key"`
	PlatformUserID      string     `json:"platform_userid"`
	Username            string     `json:"username"`
	PreventTriggerUntil *time.Time `json:"prevent_trigger_until,omitempty"`
	BanUntil            *time.Time `json:"ban_until,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// UniqueID returns the composite key identifying the user across adapters.
func (u *User) UniqueID() string {
	return u.AdapterKey + ":" + u.PlatformUserID
}

// SplitUniqueID splits a composite key into adapter key and platform user id.
func SplitUniqueID(uniqueID string) (adapterKey, platformUserID string, ok bool) {
	parts := strings.SplitN(uniqueID, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Directory is the user lookup and persistence interface.
type Directory interface {
	// Resolve finds a user by adapter key and platform user id.
	Resolve(ctx context.Context, adapterKey, platformUserID string) (*User, error)

	// ResolveUniqueID finds a user by composite key ("adapter:userid").
	// A malformed key resolves to ErrUserNotFound.
	ResolveUniqueID(ctx context.Context, uniqueID string) (*User, error)

	// SaveUser persists the mutable fields of an existing user.
	SaveUser(ctx context.Context, u *User) error

	// CreateUser registers a new user.
	CreateUser(ctx context.Context, adapterKey, platformUserID, username string) (*User, error)

	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]User, error)

	// Close closes the directory.
	Close() error
}
