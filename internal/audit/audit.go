// Package audit keeps an append-only log of block decisions. Writes are
// best-effort: handlers log and ignore append failures.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Event actions.
const (
	ActionBlock         = "block"
	ActionUnblock       = "unblock"
	ActionExpireCleanup = "expire_cleanup"
)

// Event is one logged block decision.
type Event struct {
	ID        string    `json:"id"`
	ChatKey   string    `json:"chat_key"`
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Log records events in SQLite.
type Log struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewLog prepares the events table on an open database handle.
func NewLog(db *sql.DB) (*Log, error) {
	l := &Log{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := l.migrate(); err != nil {
		return nil, fmt.Errorf("migrate events: %w", err)
	}
	return l, nil
}

func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS block_events (
		id         TEXT PRIMARY KEY,
		chat_key   TEXT NOT NULL,
		user_id    TEXT,
		action     TEXT NOT NULL,
		detail     TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_chat ON block_events(chat_key, created_at DESC);
	`
	_, err := l.db.Exec(schema)
	return err
}

func (l *Log) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), l.entropy).String()
}

// Append records an event. ID and CreatedAt are assigned here.
func (l *Log) Append(ctx context.Context, e Event) error {
	e.ID = l.newID()
	e.CreatedAt = time.Now().UTC()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO block_events (id, chat_key, user_id, action, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ChatKey, e.UserID, e.Action, e.Detail, e.CreatedAt.Format(time.RFC3339))
	return err
}

// Recent returns the newest events for a chat scope, most recent first.
// An empty chatKey returns events across all scopes.
func (l *Log) Recent(ctx context.Context, chatKey string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, chat_key, user_id, action, detail, created_at
	          FROM block_events`
	args := []interface{}{}
	if chatKey != "" {
		query += ` WHERE chat_key = ?`
		args = append(args, chatKey)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var userID, detail sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ChatKey, &userID, &e.Action, &detail, &createdAt); err != nil {
			return nil, err
		}
		e.UserID = userID.String
		e.Detail = detail.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
