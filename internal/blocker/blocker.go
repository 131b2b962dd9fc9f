// Package blocker implements the user-facing block operations. Every
// operation returns a human-readable result string; only storage corruption
// surfaces as an error.
package blocker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/agent-blocklist/internal/audit"
	"github.com/rcliao/agent-blocklist/internal/config"
	"github.com/rcliao/agent-blocklist/internal/directory"
	"github.com/rcliao/agent-blocklist/internal/model"
	"github.com/rcliao/agent-blocklist/internal/store"
	"github.com/rcliao/agent-blocklist/internal/timeutil"
)

// DefaultReason is used when the agent gives no block reason.
const DefaultReason = "unspecified"

// Scope identifies the conversation context of one invocation.
type Scope struct {
	ChatKey    string
	AdapterKey string
}

// Effector is the system-effect boundary: apply or remove a block timestamp
// on the external user entity. Implementations never propagate errors.
type Effector interface {
	Apply(ctx context.Context, userID string, blockType model.BlockType, expire *int64) bool
	Remove(ctx context.Context, userID string, blockType model.BlockType) bool
}

// Auditor records block decisions; appends are best-effort.
type Auditor interface {
	Append(ctx context.Context, e audit.Event) error
}

// Service composes the store, directory, and system effect into the block
// operations. State is reloaded from the store on every call; nothing is
// cached across invocations.
type Service struct {
	cfg      config.BehaviorConfig
	kv       store.KV
	dir      directory.Directory
	effector Effector
	auditor  Auditor
	log      *slog.Logger
	now      func() time.Time
}

// NewService wires the service. auditor may be nil to disable event logging.
func NewService(cfg config.BehaviorConfig, kv store.KV, dir directory.Directory, effector Effector, auditor Auditor, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		kv:       kv,
		dir:      dir,
		effector: effector,
		auditor:  auditor,
		log:      log,
		now:      time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// BlockPreventTrigger blocks a user in prevent-trigger mode: their messages
// stay visible but cannot wake the agent.
func (s *Service) BlockPreventTrigger(ctx context.Context, scope Scope, identifier, reason string, durationSeconds *int64) (string, error) {
	if !s.cfg.EnablePreventTrigger {
		return "❌ Prevent-trigger blocking is disabled; ask an administrator to enable it", nil
	}
	return s.block(ctx, scope, model.PreventTrigger, identifier, reason, durationSeconds)
}

// BlockFull blocks a user in full-block mode: their messages are hidden from
// the agent entirely.
func (s *Service) BlockFull(ctx context.Context, scope Scope, identifier, reason string, durationSeconds *int64) (string, error) {
	if !s.cfg.EnableFullBlock {
		return "❌ Full blocking is disabled; ask an administrator to enable it", nil
	}
	return s.block(ctx, scope, model.FullBlock, identifier, reason, durationSeconds)
}

func (s *Service) block(ctx context.Context, scope Scope, blockType model.BlockType, identifier, reason string, durationSeconds *int64) (string, error) {
	if reason == "" {
		reason = DefaultReason
	}
	now := s.now()

	// Absent or negative duration requests a permanent block; without
	// permission it falls back to the configured default.
	var expire *int64
	var isPermanent bool
	if durationSeconds == nil || *durationSeconds < 0 {
		if s.cfg.AllowPermanentBlock {
			isPermanent = true
			durationSeconds = nil
		} else {
			d := s.cfg.DefaultBlockSeconds
			durationSeconds = &d
			expire = timeutil.ExpireAt(now, durationSeconds, s.cfg.MaxBlockSeconds)
		}
	} else {
		expire = timeutil.ExpireAt(now, durationSeconds, s.cfg.MaxBlockSeconds)
	}

	user, err := s.dir.Resolve(ctx, scope.AdapterKey, identifier)
	if err == directory.ErrUserNotFound {
		return fmt.Sprintf("❌ User not found: %s", identifier), nil
	}
	if err != nil {
		return fmt.Sprintf("❌ User lookup failed: %s", identifier), nil
	}
	userID := user.UniqueID()

	list, err := store.LoadBlockList(ctx, s.kv, scope.ChatKey)
	if err != nil {
		return "", err
	}

	if existing, ok := list.Get(userID); ok {
		return fmt.Sprintf("⚠️ User %s is already blocked: %s", user.Username, existing.BlockType.Description()), nil
	}

	// Apply the system effect before persisting, so a failed apply leaves
	// no recorded block that is not actually enforced.
	if !s.effector.Apply(ctx, userID, blockType, expire) {
		return fmt.Sprintf("❌ Failed to block user %s, try again later", user.Username), nil
	}

	record := model.BlockRecord{
		UserID:      userID,
		Username:    user.Username,
		BlockType:   blockType,
		Reason:      reason,
		StartTime:   now.Unix(),
		ExpireTime:  expire,
		IsPermanent: isPermanent,
	}
	list.Add(record)
	if err := store.SaveBlockList(ctx, s.kv, scope.ChatKey, list); err != nil {
		return "", err
	}

	var timeDesc string
	if isPermanent {
		timeDesc = "permanent"
	} else {
		timeDesc = timeutil.FormatDuration(*durationSeconds)
	}

	s.log.Info("blocked user",
		"chat", scope.ChatKey, "user", userID, "type", string(blockType),
		"duration", timeDesc, "reason", reason)
	s.auditAppend(ctx, audit.Event{
		ChatKey: scope.ChatKey,
		UserID:  userID,
		Action:  audit.ActionBlock,
		Detail:  fmt.Sprintf("%s %s: %s", blockType, timeDesc, reason),
	})

	var effect string
	if blockType == model.PreventTrigger {
		effect = "their messages cannot wake me, but I can still see them when awake"
	} else {
		effect = "I will not see any of their messages"
	}
	return fmt.Sprintf("✅ Blocked user %s in %s mode (duration: %s)\nReason: %s\nEffect: %s",
		user.Username, blockType, timeDesc, reason, effect), nil
}

// Unblock removes a user's block. The system effect is removed before the
// collection is persisted; a failed removal leaves the collection untouched.
func (s *Service) Unblock(ctx context.Context, scope Scope, identifier string) (string, error) {
	user, err := s.dir.Resolve(ctx, scope.AdapterKey, identifier)
	if err == directory.ErrUserNotFound {
		return fmt.Sprintf("❌ User not found: %s", identifier), nil
	}
	if err != nil {
		return fmt.Sprintf("❌ User lookup failed: %s", identifier), nil
	}
	userID := user.UniqueID()

	list, err := store.LoadBlockList(ctx, s.kv, scope.ChatKey)
	if err != nil {
		return "", err
	}

	record, ok := list.Get(userID)
	if !ok {
		return fmt.Sprintf("ℹ️ User %s is not blocked", user.Username), nil
	}

	if !s.effector.Remove(ctx, userID, record.BlockType) {
		return fmt.Sprintf("❌ Failed to unblock user %s, try again later", user.Username), nil
	}

	list.Remove(userID)
	if err := store.SaveBlockList(ctx, s.kv, scope.ChatKey, list); err != nil {
		return "", err
	}

	s.log.Info("unblocked user", "chat", scope.ChatKey, "user", userID)
	s.auditAppend(ctx, audit.Event{
		ChatKey: scope.ChatKey,
		UserID:  userID,
		Action:  audit.ActionUnblock,
		Detail:  string(record.BlockType),
	})

	return fmt.Sprintf("✅ Unblocked user %s; they can interact with me normally again", user.Username), nil
}

// ListBlocked renders the currently active blocks, dropping expired records
// along the way. The store is only written when cleanup removed something.
func (s *Service) ListBlocked(ctx context.Context, scope Scope) (string, error) {
	list, err := store.LoadBlockList(ctx, s.kv, scope.ChatKey)
	if err != nil {
		return "", err
	}

	now := s.now()
	if cleaned := list.CleanupExpired(now.Unix()); cleaned > 0 {
		if err := store.SaveBlockList(ctx, s.kv, scope.ChatKey, list); err != nil {
			return "", err
		}
		s.log.Info("cleaned expired blocks", "chat", scope.ChatKey, "count", cleaned)
		s.auditAppend(ctx, audit.Event{
			ChatKey: scope.ChatKey,
			Action:  audit.ActionExpireCleanup,
			Detail:  fmt.Sprintf("%d expired", cleaned),
		})
	}

	active := list.Active(now.Unix())
	if len(active) == 0 {
		return "No users are currently blocked", nil
	}

	lines := []string{"Currently blocked users:\n"}
	for idx, userID := range sortedKeys(active) {
		r := active[userID]
		lines = append(lines, fmt.Sprintf("%d. %s (%s)\n   - type: %s\n   - remaining: %s\n   - reason: %s",
			idx+1, r.Username, userID, r.BlockType.Description(),
			timeutil.FormatRemaining(r.ExpireTime, now), r.Reason))
	}
	return strings.Join(lines, "\n"), nil
}

// PromptSummary produces the compact blocked-user section injected into the
// agent's prompt. Any failure on this path is swallowed and yields an empty
// string; the agent's turn must never be interrupted here.
func (s *Service) PromptSummary(ctx context.Context, scope Scope) string {
	if !s.cfg.ShowBlockedUsersInPrompt {
		return ""
	}

	list, err := store.LoadBlockList(ctx, s.kv, scope.ChatKey)
	if err != nil {
		s.log.Warn("prompt summary failed", "chat", scope.ChatKey, "err", err)
		return ""
	}

	now := s.now()
	list.CleanupExpired(now.Unix())
	if err := store.SaveBlockList(ctx, s.kv, scope.ChatKey, list); err != nil {
		s.log.Warn("prompt summary failed", "chat", scope.ChatKey, "err", err)
		return ""
	}

	active := list.Active(now.Unix())
	if len(active) == 0 {
		return ""
	}

	displayCount := len(active)
	if displayCount > s.cfg.MaxPromptDisplayCount {
		displayCount = s.cfg.MaxPromptDisplayCount
	}

	lines := []string{"Current Blocked Users:"}
	for _, userID := range sortedKeys(active)[:displayCount] {
		r := active[userID]
		timeDesc := "∞"
		if !r.IsPermanent {
			timeDesc = timeutil.FormatRemaining(r.ExpireTime, now)
		}
		symbol := "🔇"
		if r.BlockType == model.FullBlock {
			symbol = "🚫"
		}
		lines = append(lines, fmt.Sprintf("  %s %s (%s) - %s", symbol, r.Username, timeDesc, r.Reason))
	}
	if len(active) > displayCount {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(active)-displayCount))
	}
	return strings.Join(lines, "\n")
}

// Stats counts the blocks active right now in a conversation scope.
func (s *Service) Stats(ctx context.Context, scope Scope) (model.BlockStats, error) {
	list, err := store.LoadBlockList(ctx, s.kv, scope.ChatKey)
	if err != nil {
		return model.BlockStats{}, err
	}
	return list.Stats(s.now().Unix()), nil
}

func (s *Service) auditAppend(ctx context.Context, e audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Append(ctx, e); err != nil {
		s.log.Warn("audit append failed", "chat", e.ChatKey, "err", err)
	}
}

func sortedKeys(m map[string]model.BlockRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
