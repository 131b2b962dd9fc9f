// Package config centralizes loading of the blocklist configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all recognized options, loaded once at startup and read-only
// thereafter.
type Config struct {
	Behavior BehaviorConfig
	Storage  StorageConfig
}

// BehaviorConfig gates and tunes the blocking behavior itself.
type BehaviorConfig struct {
	EnablePreventTrigger     bool
	EnableFullBlock          bool
	MaxBlockSeconds          int64 // 0 = unlimited
	DefaultBlockSeconds      int64
	AllowPermanentBlock      bool
	ShowBlockedUsersInPrompt bool
	MaxPromptDisplayCount    int
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type   string // "sqlite" or "redis"
	DBPath string
	Redis  RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from the environment, honoring a .env file when
// present.
func Load() (Config, error) {
	_ = godotenv.Load()

	behavior, err := buildBehaviorConfig()
	if err != nil {
		return Config{}, err
	}

	storage, err := buildStorageConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{Behavior: behavior, Storage: storage}, nil
}

func buildBehaviorConfig() (BehaviorConfig, error) {
	enablePrevent, err := getBool("ENABLE_PREVENT_TRIGGER", true)
	if err != nil {
		return BehaviorConfig{}, err
	}
	enableFull, err := getBool("ENABLE_FULL_BLOCK", true)
	if err != nil {
		return BehaviorConfig{}, err
	}
	maxSeconds, err := getInt64("MAX_BLOCK_SECONDS", 259200)
	if err != nil {
		return BehaviorConfig{}, err
	}
	if maxSeconds < 0 {
		return BehaviorConfig{}, fmt.Errorf("MAX_BLOCK_SECONDS must be >= 0, got %d", maxSeconds)
	}
	defaultSeconds, err := getInt64("DEFAULT_BLOCK_SECONDS", 86400)
	if err != nil {
		return BehaviorConfig{}, err
	}
	if defaultSeconds <= 0 {
		return BehaviorConfig{}, fmt.Errorf("DEFAULT_BLOCK_SECONDS must be > 0, got %d", defaultSeconds)
	}
	allowPermanent, err := getBool("ALLOW_PERMANENT_BLOCK", false)
	if err != nil {
		return BehaviorConfig{}, err
	}
	showInPrompt, err := getBool("SHOW_BLOCKED_USERS_IN_PROMPT", true)
	if err != nil {
		return BehaviorConfig{}, err
	}
	maxDisplay, err := getInt("MAX_PROMPT_DISPLAY_COUNT", 5)
	if err != nil {
		return BehaviorConfig{}, err
	}
	if maxDisplay < 1 {
		return BehaviorConfig{}, fmt.Errorf("MAX_PROMPT_DISPLAY_COUNT must be >= 1, got %d", maxDisplay)
	}

	return BehaviorConfig{
		EnablePreventTrigger:     enablePrevent,
		EnableFullBlock:          enableFull,
		MaxBlockSeconds:          maxSeconds,
		DefaultBlockSeconds:      defaultSeconds,
		AllowPermanentBlock:      allowPermanent,
		ShowBlockedUsersInPrompt: showInPrompt,
		MaxPromptDisplayCount:    maxDisplay,
	}, nil
}

func buildStorageConfig() (StorageConfig, error) {
	storageType := getEnv("BLOCKLIST_STORE", "sqlite")
	if storageType != "sqlite" && storageType != "redis" {
		return StorageConfig{}, fmt.Errorf("BLOCKLIST_STORE must be sqlite or redis, got %q", storageType)
	}

	dbPath := getEnv("BLOCKLIST_DB", "")
	if dbPath == "" {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".agent-blocklist", "blocklist.db")
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return StorageConfig{}, err
	}

	return StorageConfig{
		Type:   storageType,
		DBPath: dbPath,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
