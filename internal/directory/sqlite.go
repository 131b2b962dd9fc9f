package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDirectory implements Directory on a SQLite handle, normally the same
// database file as the KV store.
type SQLiteDirectory struct {
	db *sql.DB
}

var _ Directory = (*SQLiteDirectory)(nil)

// NewSQLiteDirectory prepares the users table on an open database handle.
func NewSQLiteDirectory(db *sql.DB) (*SQLiteDirectory, error) {
	d := &SQLiteDirectory{db: db}
	if err := d.migrate(); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return d, nil
}

func (d *SQLiteDirectory) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                    TEXT PRIMARY KEY,
		adapter_key           TEXT NOT NULL,
		platform_userid       TEXT NOT NULL,
		username              TEXT NOT NULL,
		prevent_trigger_until TEXT,
		ban_until             TEXT,
		created_at            TEXT NOT NULL,
		UNIQUE (adapter_key, platform_userid)
	);
	CREATE INDEX IF NOT EXISTS idx_users_adapter ON users(adapter_key);
	`
	_, err := d.db.Exec(schema)
	return err
}

func (d *SQLiteDirectory) Resolve(ctx context.Context, adapterKey, platformUserID string) (*User, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, adapter_key, platform_userid, username, prevent_trigger_until, ban_until, created_at
		 FROM users WHERE adapter_key = ? AND platform_userid = ?`,
		adapterKey, platformUserID)
	return scanUser(row)
}

func (d *SQLiteDirectory) ResolveUniqueID(ctx context.Context, uniqueID string) (*User, error) {
	adapterKey, platformUserID, ok := SplitUniqueID(uniqueID)
	if !ok {
		return nil, ErrUserNotFound
	}
	return d.Resolve(ctx, adapterKey, platformUserID)
}

func (d *SQLiteDirectory) SaveUser(ctx context.Context, u *User) error {
	_, err := d.db.ExecContext(ctx,
		`UPDATE users SET username = ?, prevent_trigger_until = ?, ban_until = ? WHERE id = ?`,
		u.Username, formatOptTime(u.PreventTriggerUntil), formatOptTime(u.BanUntil), u.ID)
	if err != nil {
		return fmt.Errorf("save user %s: %w", u.UniqueID(), err)
	}
	return nil
}

func (d *SQLiteDirectory) CreateUser(ctx context.Context, adapterKey, platformUserID, username string) (*User, error) {
	u := &User{
		ID:             uuid.NewString(),
		AdapterKey:     adapterKey,
		PlatformUserID: platformUserID,
		Username:       username,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO users (id, adapter_key, platform_userid, username, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.AdapterKey, u.PlatformUserID, u.Username, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("create user %s:%s: %w", adapterKey, platformUserID, err)
	}
	return u, nil
}

func (d *SQLiteDirectory) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, adapter_key, platform_userid, username, prevent_trigger_until, ban_until, created_at
		 FROM users ORDER BY adapter_key, platform_userid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Close is a no-op; the shared database handle is owned by the KV store.
func (d *SQLiteDirectory) Close() error {
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*User, error) {
	var u User
	var preventUntil, banUntil sql.NullString
	var createdAt string

	err := row.Scan(&u.ID, &u.AdapterKey, &u.PlatformUserID, &u.Username,
		&preventUntil, &banUntil, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if preventUntil.Valid {
		t, err := time.Parse(time.RFC3339, preventUntil.String)
		if err == nil {
			u.PreventTriggerUntil = &t
		}
	}
	if banUntil.Valid {
		t, err := time.Parse(time.RFC3339, banUntil.String)
		if err == nil {
			u.BanUntil = &t
		}
	}
	return &u, nil
}

func formatOptTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
