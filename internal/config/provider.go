package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultBatchSize = 2000

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	configFile := v.GetString("config")
	required := configFile != ""
	if configFile == "" {
		configFile = filepath.Join(projectRoot, ProjectFileName)
	}

	project, err := loadProjectFile(configFile, required)
	if err != nil {
		return nil, err
	}

	cfg := &RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".govindex"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		Chain:          project.Chain,
		Contracts:      project.Contracts,
		Store:          project.Store,
		Metrics:        project.Metrics,
	}
	if _, err := os.Stat(configFile); err == nil {
		cfg.ConfigFile = configFile
	}

	// Flags and GOVINDEX_* variables override the project file
	overrideString(v, "rpc_url", &cfg.Chain.RPCURL)
	overrideString(v, "database_url", &cfg.Store.DatabaseURL)
	overrideString(v, "redis_url", &cfg.Store.RedisURL)
	overrideString(v, "metrics_addr", &cfg.Metrics.Addr)
	if backend := v.GetString("store"); backend != "" {
		cfg.Store.Backend = StoreBackend(backend)
	}

	applyDefaults(cfg)

	if err := cfg.Contracts.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case StoreMemory, StoreFS, StorePostgres, StoreRedis:
	default:
		return nil, fmt.Errorf("unknown store backend %q (want memory, fs, postgres or redis)", cfg.Store.Backend)
	}

	return cfg, nil
}

func overrideString(v *viper.Viper, key string, target *string) {
	if value := v.GetString(key); value != "" {
		*target = value
	}
}

func applyDefaults(cfg *RuntimeConfig) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = StoreFS
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(cfg.DataDir, "store")
	} else if !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(cfg.ProjectRoot, cfg.Store.Path)
	}
	if cfg.Chain.BatchSize == 0 {
		cfg.Chain.BatchSize = defaultBatchSize
	}
}

// FindProjectRoot walks up from the current directory to find govindex.toml.
// The current directory is used when none is found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("GOVINDEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
