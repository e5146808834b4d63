package config

import (
	"time"

	redisstore "github.com/hasec/netwatch/internal/infra/redis"
	"github.com/hasec/netwatch/internal/infra/storage/postgres"
	"github.com/hasec/netwatch/internal/probe"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig      `yaml:"server"`
	Probe    probe.Config      `yaml:"probe"`
	Recovery RecoveryConfig    `yaml:"recovery"`
	Store    StoreConfig       `yaml:"store"`
	Redis    redisstore.Config `yaml:"redis"`
	Database postgres.Config   `yaml:"database"`
	History  HistoryConfig     `yaml:"history"`
	Logging  LoggingConfig     `yaml:"logging"`
	// Interval is the tick period in long-running mode.
	Interval time.Duration `yaml:"interval"`
}

// ServerConfig holds HTTP health/metrics server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// RecoveryConfig holds the retry budget and the two recovery commands.
type RecoveryConfig struct {
	MaxAttempts     int    `yaml:"max_attempts"`
	BoundedAction   string `yaml:"bounded_action"`
	EscalatedAction string `yaml:"escalated_action"`
	// LeaseTTL bounds how long a crashed cycle's lease blocks successors.
	LeaseTTL time.Duration `yaml:"lease_ttl"`
}

// StoreConfig selects the counter store backend.
type StoreConfig struct {
	// Backend is one of "file", "redis", "postgres", "memory".
	Backend string `yaml:"backend"`
	// Path is the counter file location for the file backend.
	Path string `yaml:"path"`
	// Slot names the counter row for the postgres backend.
	Slot string `yaml:"slot"`
}

// HistoryConfig controls the per-cycle audit trail.
type HistoryConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Retention time.Duration `yaml:"retention"` // 0 = infinite
}
