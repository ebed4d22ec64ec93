// Package config loads the TOML configuration for the hive process.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendFS    = "fs"
	BackendRedis = "redis"
)

// WorkspaceConfig locates the documents the system reads and writes.
type WorkspaceConfig struct {
	Root   string `toml:"root"`
	Roster string `toml:"roster"`
	Ledger bool   `toml:"ledger"`
}

// BusConfig controls event delivery.
type BusConfig struct {
	DeliveryPolicy string `toml:"delivery_policy"`
}

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	Backend     string `toml:"backend"`
	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Bus       BusConfig       `toml:"bus"`
	Storage   StorageConfig   `toml:"storage"`
	Log       LogConfig       `toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workspace: WorkspaceConfig{Root: "workspace", Roster: "agent_roster.md", Ledger: true},
		Bus:       BusConfig{DeliveryPolicy: "lenient"},
		Storage:   StorageConfig{Backend: BackendFS, RedisAddr: "localhost:6379", RedisPrefix: "hive:"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads a config file, filling omitted fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the runtime cannot honor.
func Validate(cfg Config) error {
	switch cfg.Storage.Backend {
	case BackendFS, BackendRedis:
	default:
		return fmt.Errorf("config: unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == BackendRedis && cfg.Storage.RedisAddr == "" {
		return fmt.Errorf("config: redis backend requires redis_addr")
	}
	switch cfg.Bus.DeliveryPolicy {
	case "", "lenient", "strict":
	default:
		return fmt.Errorf("config: unknown delivery policy %q", cfg.Bus.DeliveryPolicy)
	}
	if cfg.Workspace.Root == "" {
		return fmt.Errorf("config: workspace root must not be empty")
	}
	return nil
}
