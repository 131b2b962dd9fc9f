// Package model defines the core block data types.
package model

// BlockType identifies the severity of a block.
type BlockType string

const (
	// PreventTrigger leaves the user's messages visible but stops them
	// from waking the agent.
	PreventTrigger BlockType = "prevent_trigger"
	// FullBlock hides the user's messages from the agent entirely.
	FullBlock BlockType = "full_block"
)

// ValidBlockTypes are the allowed block types.
var ValidBlockTypes = map[BlockType]bool{
	PreventTrigger: true,
	FullBlock:      true,
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	return ValidBlockTypes[t]
}

// Description returns the human-readable description of the block type.
func (t BlockType) Description() string {
	switch t {
	case PreventTrigger:
		return "prevent-trigger (visible, cannot wake the agent)"
	case FullBlock:
		return "full block (messages hidden entirely)"
	}
	return string(t)
}

// BlockRecord is one block entry within a conversation scope.
type BlockRecord struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	BlockType BlockType `json:"block_type"`
	Reason    string    `json:"reason,omitempty"`
	StartTime int64     `json:"start_time"`
	// ExpireTime is an epoch-seconds timestamp; nil means no fixed expiry.
	ExpireTime *int64 `json:"expire_time,omitempty"`
	// IsPermanent is the authoritative permanence signal: a nil ExpireTime
	// alone is ambiguous with "not yet computed."
	IsPermanent bool `json:"is_permanent"`
}

// BlockList is the per-conversation collection of block records, keyed by
// user id. A user holds at most one record at a time; callers must check
// Get before Add.
type BlockList struct {
	Blocks map[string]BlockRecord `json:"blocks"`
}

// NewBlockList returns an empty collection.
func NewBlockList() *BlockList {
	return &BlockList{Blocks: make(map[string]BlockRecord)}
}

// Add inserts or overwrites the record at its user id.
func (l *BlockList) Add(r BlockRecord) {
	if l.Blocks == nil {
		l.Blocks = make(map[string]BlockRecord)
	}
	l.Blocks[r.UserID] = r
}

// Remove deletes the record for userID and reports whether one existed.
func (l *BlockList) Remove(userID string) bool {
	if _, ok := l.Blocks[userID]; ok {
		delete(l.Blocks, userID)
		return true
	}
	return false
}

// Get returns the record for userID, if any.
func (l *BlockList) Get(userID string) (BlockRecord, bool) {
	r, ok := l.Blocks[userID]
	return r, ok
}

// IsBlocked reports whether userID has a record.
func (l *BlockList) IsBlocked(userID string) bool {
	_, ok := l.Blocks[userID]
	return ok
}

// Active returns the records still in effect at now (epoch seconds):
// permanent ones, plus timed ones whose expiry is strictly in the future.
func (l *BlockList) Active(now int64) map[string]BlockRecord {
	active := make(map[string]BlockRecord)
	for userID, r := range l.Blocks {
		if r.IsPermanent || (r.ExpireTime != nil && *r.ExpireTime > now) {
			active[userID] = r
		}
	}
	return active
}

// CleanupExpired removes non-permanent records whose expiry has passed and
// returns how many were removed. Permanent records and records with no
// expiry set are left alone.
func (l *BlockList) CleanupExpired(now int64) int {
	var expired []string
	for userID, r := range l.Blocks {
		if !r.IsPermanent && r.ExpireTime != nil && *r.ExpireTime <= now {
			expired = append(expired, userID)
		}
	}
	for _, userID := range expired {
		delete(l.Blocks, userID)
	}
	return len(expired)
}

// BlockStats holds aggregate counts over a set of records.
type BlockStats struct {
	Total          int `json:"total_blocks"`
	PreventTrigger int `json:"prevent_trigger_count"`
	FullBlock      int `json:"full_block_count"`
	Permanent      int `json:"permanent_count"`
}

// Stats counts the records active at now.
func (l *BlockList) Stats(now int64) BlockStats {
	var st BlockStats
	for _, r := range l.Active(now) {
		st.Total++
		switch r.BlockType {
		case PreventTrigger:
			st.PreventTrigger++
		case FullBlock:
			st.FullBlock++
		}
		if r.IsPermanent {
			st.Permanent++
		}
	}
	return st
}
