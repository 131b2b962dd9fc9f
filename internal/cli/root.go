// Package cli implements the agent-blocklist CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/agent-blocklist/internal/audit"
	"github.com/rcliao/agent-blocklist/internal/blocker"
	"github.com/rcliao/agent-blocklist/internal/config"
	"github.com/rcliao/agent-blocklist/internal/directory"
	"github.com/rcliao/agent-blocklist/internal/store"
	"github.com/rcliao/agent-blocklist/internal/system"
)

var (
	chatKey    string
	adapterKey string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-blocklist",
	Short: "Block-state manager for AI agents",
	Long:  "Lets a conversational agent suppress interaction with specific users, in two severities, for a bounded or permanent duration.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&chatKey, "chat", "c", "default", "Conversation scope key")
	RootCmd.PersistentFlags().StringVarP(&adapterKey, "adapter", "a", "default", "Platform adapter key")
}

// env holds everything a command needs, wired once per invocation.
type env struct {
	cfg      config.Config
	svc      *blocker.Service
	dir      directory.Directory
	auditLog *audit.Log
	close    func()
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// The SQLite database always opens: the directory and audit log live
	// there even when Redis backs the block-list blobs.
	sqliteKV, err := store.NewSQLiteKV(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	dir, err := directory.NewSQLiteDirectory(sqliteKV.DB())
	if err != nil {
		sqliteKV.Close()
		return nil, err
	}

	auditLog, err := audit.NewLog(sqliteKV.DB())
	if err != nil {
		sqliteKV.Close()
		return nil, err
	}

	var kv store.KV = sqliteKV
	closeAll := func() { sqliteKV.Close() }
	if cfg.Storage.Type == "redis" {
		redisKV, err := store.NewRedisKV(store.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err != nil {
			sqliteKV.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		kv = redisKV
		closeAll = func() {
			redisKV.Close()
			sqliteKV.Close()
		}
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := blocker.NewService(cfg.Behavior, kv, dir, system.NewEffector(dir), auditLog, log)

	return &env{
		cfg:      cfg,
		svc:      svc,
		dir:      dir,
		auditLog: auditLog,
		close:    closeAll,
	}, nil
}

func scope() blocker.Scope {
	return blocker.Scope{ChatKey: chatKey, AdapterKey: adapterKey}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
