// Package system translates block decisions into mutations on the external
// user entity. Failures never propagate past this boundary; callers get a
// plain success flag.
package system

import (
	"context"
	"time"

	"github.com/rcliao/agent-blocklist/internal/directory"
	"github.com/rcliao/agent-blocklist/internal/model"
)

// Effector applies and removes block timestamps on user entities.
type Effector struct {
	dir directory.Directory
}

// NewEffector returns an Effector over the given directory.
func NewEffector(dir directory.Directory) *Effector {
	return &Effector{dir: dir}
}

// Apply writes the expiry selected by blockType onto the user entity.
// A nil expire means a block with no end time. Returns false on any failure,
// including an unresolvable user.
func (e *Effector) Apply(ctx context.Context, userID string, blockType model.BlockType, expire *int64) bool {
	user, err := e.dir.ResolveUniqueID(ctx, userID)
	if err != nil {
		return false
	}

	var until *time.Time
	if expire != nil {
		t := time.Unix(*expire, 0).UTC()
		until = &t
	}

	switch blockType {
	case model.PreventTrigger:
		user.PreventTriggerUntil = until
	case model.FullBlock:
		user.BanUntil = until
	default:
		return false
	}

	return e.dir.SaveUser(ctx, user) == nil
}

// Remove clears the expiry field selected by blockType, leaving the other
// field untouched. Same failure contract as Apply.
func (e *Effector) Remove(ctx context.Context, userID string, blockType model.BlockType) bool {
	user, err := e.dir.ResolveUniqueID(ctx, userID)
	if err != nil {
		return false
	}

	switch blockType {
	case model.PreventTrigger:
		user.PreventTriggerUntil = nil
	case model.FullBlock:
		user.BanUntil = nil
	default:
		return false
	}

	return e.dir.SaveUser(ctx, user) == nil
}
