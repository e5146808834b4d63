package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/hasec/netwatch/internal/probe"
	"github.com/hasec/netwatch/internal/supervisor"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is given: the
// reference WiFi watchdog against a file-backed counter.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Probe.Timeout == 0 {
		cfg.Probe.Timeout = probe.DefaultTimeout
	}
	if cfg.Recovery.MaxAttempts == 0 {
		cfg.Recovery.MaxAttempts = supervisor.DefaultMaxAttempts
	}
	if cfg.Recovery.LeaseTTL == 0 {
		cfg.Recovery.LeaseTTL = supervisor.DefaultLeaseTTL
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "file"
	}
}
