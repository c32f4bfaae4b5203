package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the node configuration file.
type Config struct {
	Store struct {
		// Backend is one of "memory", "sqlite", "redis".
		Backend    string `yaml:"backend"`
		SQLitePath string `yaml:"sqlite_path"`
		RedisAddr  string `yaml:"redis_addr"`
	} `yaml:"store"`

	Data struct {
		Devices    string `yaml:"devices"`
		Policies   string `yaml:"policies"`
		Warrants   string `yaml:"warrants"`
		Properties string `yaml:"properties"`
	} `yaml:"data"`

	System struct {
		SecurityParameter          int   `yaml:"security_parameter"`
		MaximumTransactionInterval int64 `yaml:"maximum_transaction_interval"`
		MaximumTransactionRate     int   `yaml:"maximum_transaction_rate"`
		PunishmentThreshold        int   `yaml:"punishment_threshold"`
	} `yaml:"system"`
}

// LoadConfig reads and parses the YAML configuration at path.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.System.SecurityParameter <= 0 {
		return nil, fmt.Errorf("config %s: security_parameter must be positive", path)
	}
	return &cfg, nil
}
