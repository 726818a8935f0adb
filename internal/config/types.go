package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// StoreBackend selects the entity store implementation
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StoreFS       StoreBackend = "fs"
	StorePostgres StoreBackend = "postgres"
	StoreRedis    StoreBackend = "redis"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ConfigFile  string // empty when no govindex.toml was found

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Resolved project configuration
	Chain     ChainConfig
	Contracts ContractsConfig
	Store     StoreConfig
	Metrics   MetricsConfig
}

// ProjectFile is the layout of govindex.toml
type ProjectFile struct {
	Chain     ChainConfig     `toml:"chain"`
	Contracts ContractsConfig `toml:"contracts"`
	Store     StoreConfig     `toml:"store"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// ChainConfig describes where logs are read from
type ChainConfig struct {
	RPCURL        string        `toml:"rpc_url"`
	ChainID       uint64        `toml:"chain_id"`
	StartBlock    uint64        `toml:"start_block"`
	BatchSize     uint64        `toml:"batch_size"`
	Confirmations uint64        `toml:"confirmations"`
	PollInterval  time.Duration `toml:"poll_interval"`
}

// ContractsConfig holds the protocol contract addresses
type ContractsConfig struct {
	Governor string `toml:"governor"`
	Token    string `toml:"token"`
	Executor string `toml:"executor"`
}

// Validate checks that every configured address is well formed
func (c ContractsConfig) Validate() error {
	for name, addr := range map[string]string{"governor": c.Governor, "token": c.Token, "executor": c.Executor} {
		if addr != "" && !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address %q", name, addr)
		}
	}
	return nil
}

// StoreConfig selects and configures the entity store
type StoreConfig struct {
	Backend     StoreBackend `toml:"backend"`
	Path        string       `toml:"path"`
	DatabaseURL string       `toml:"database_url"`
	RedisURL    string       `toml:"redis_url"`
	RedisPrefix string       `toml:"redis_prefix"`
}

// MetricsConfig controls the metrics endpoint during ingestion
type MetricsConfig struct {
	Addr string `toml:"addr"`
}
