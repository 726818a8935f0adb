package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ProjectFileName is the project configuration file looked up from the working directory
const ProjectFileName = "govindex.toml"

// loadProjectFile loads and parses govindex.toml. A missing file yields an
// empty config unless required is set.
func loadProjectFile(path string, required bool) (*ProjectFile, error) {
	// Load .env files first for variable expansion
	dir := filepath.Dir(path)
	for _, envFile := range []string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")} {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	var cfg ProjectFile
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return &cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	// Expand environment variables in all string fields
	cfg.Chain.RPCURL = os.ExpandEnv(cfg.Chain.RPCURL)
	cfg.Contracts.Governor = os.ExpandEnv(cfg.Contracts.Governor)
	cfg.Contracts.Token = os.ExpandEnv(cfg.Contracts.Token)
	cfg.Contracts.Executor = os.ExpandEnv(cfg.Contracts.Executor)
	cfg.Store.Path = os.ExpandEnv(cfg.Store.Path)
	cfg.Store.DatabaseURL = os.ExpandEnv(cfg.Store.DatabaseURL)
	cfg.Store.RedisURL = os.ExpandEnv(cfg.Store.RedisURL)
	cfg.Metrics.Addr = os.ExpandEnv(cfg.Metrics.Addr)

	return &cfg, nil
}
