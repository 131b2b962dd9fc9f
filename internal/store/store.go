// Package store provides the scoped key-value storage interface, its SQLite
// and Redis implementations, and the block-list blob codec.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-blocklist/internal/model"
)

// blocksKey is the fixed sub-key under which a conversation's block list
// blob is stored.
const blocksKey = "blocks"

// KV is a scoped blob store: one value per (chatKey, storeKey) pair.
type KV interface {
	// Get returns the stored value, or nil with no error when absent.
	Get(ctx context.Context, chatKey, storeKey string) ([]byte, error)

	// Set overwrites the value unconditionally.
	Set(ctx context.Context, chatKey, storeKey string, value []byte) error

	// Close closes the store.
	Close() error
}

// LoadBlockList fetches the block list for a conversation scope. A missing
// blob yields an empty list; a corrupt blob is a fatal error for the call.
func LoadBlockList(ctx context.Context, kv KV, chatKey string) (*model.BlockList, error) {
	data, err := kv.Get(ctx, chatKey, blocksKey)
	if err != nil {
		return nil, fmt.Errorf("load blocks for %s: %w", chatKey, err)
	}
	if data == nil {
		return model.NewBlockList(), nil
	}
	list := model.NewBlockList()
	if err := json.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("decode blocks for %s: %w", chatKey, err)
	}
	if list.Blocks == nil {
		list.Blocks = make(map[string]model.BlockRecord)
	}
	return list, nil
}

// SaveBlockList serializes and overwrites the block list for a conversation
// scope. Last writer wins.
func SaveBlockList(ctx context.Context, kv KV, chatKey string, list *model.BlockList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode blocks for %s: %w", chatKey, err)
	}
	if err := kv.Set(ctx, chatKey, blocksKey, data); err != nil {
		return fmt.Errorf("save blocks for %s: %w", chatKey, err)
	}
	return nil
}
