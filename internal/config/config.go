// Package config loads the process configuration described in §6: the chain
// RPC endpoint, catalogue and cache connection fields, and the per-block RPC
// budget, from a single YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DexConfig names one constant-product venue this process watches.
type DexConfig struct {
	ID      int32  `yaml:"id"`
	Name    string `yaml:"name"`
	Factory string `yaml:"factory"`
	FeeBps  uint16 `yaml:"fee_bps"`
}

// PostgresConfig holds the catalogue connection fields from §6.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
}

// RedisConfig holds the optional remote-cache connection fields from §6.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Config is the top-level configuration file shape.
type Config struct {
	RPCURL              string         `yaml:"rpc_url"`
	MaxRequestsPerBlock  int64          `yaml:"max_requests_per_block"`
	BlockQueueCapacity   int            `yaml:"block_queue_capacity"`
	ArbitrageQueueCapacity int          `yaml:"arbitrage_queue_capacity"`
	Postgres            PostgresConfig `yaml:"postgres"`
	Redis               RedisConfig    `yaml:"redis"`
	Dexes               []DexConfig    `yaml:"dexes"`
}

// validate checks the loaded configuration for the fields every component
// requires before startup, per §6's "fixes the interfaces, not their
// implementations" — this is the one place those requirements are enforced.
func (c *Config) validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("config: rpc_url is required")
	}
	if c.MaxRequestsPerBlock <= 0 {
		return fmt.Errorf("config: max_requests_per_block must be positive")
	}
	if c.Postgres.Host == "" || c.Postgres.DBName == "" {
		return fmt.Errorf("config: postgres.host and postgres.db_name are required")
	}
	if len(c.Dexes) == 0 {
		return fmt.Errorf("config: at least one entry under dexes is required")
	}
	for _, d := range c.Dexes {
		if d.Factory == "" {
			return fmt.Errorf("config: dex %q missing factory address", d.Name)
		}
	}
	if c.BlockQueueCapacity <= 0 {
		c.BlockQueueCapacity = 64
	}
	if c.ArbitrageQueueCapacity <= 0 {
		c.ArbitrageQueueCapacity = 1024
	}
	return nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN renders the Postgres connection string consumed by
// internal/catalogue.ConnectPostgres.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Addr renders the Redis address consumed by redis.Options.Addr.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
