package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/config"
)

// ConfigOverrides carries command-line values that take precedence over the
// configuration file. Zero values leave the loaded setting untouched.
type ConfigOverrides struct {
	Format        string
	AllowlistPath string
	Jobs          int
	NoProgress    bool
}

// ConfigurationLoader resolves the project root and loads its configuration
type ConfigurationLoader struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoader {
	return &ConfigurationLoader{}
}

// ResolveRoot returns root as an absolute directory, defaulting to the
// working directory
func (c *ConfigurationLoader) ResolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", domain.NewInvalidInputError("cannot determine working directory", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid root %s", root), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", domain.NewFileNotFoundError(abs, err)
	}
	if !info.IsDir() {
		return "", domain.NewInvalidInputError(fmt.Sprintf("root %s is not a directory", abs), nil)
	}
	return abs, nil
}

// LoadConfig loads the configuration for root and applies overrides
func (c *ConfigurationLoader) LoadConfig(configPath, root string, overrides ConfigOverrides) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath, root)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	c.MergeOverrides(cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// MergeOverrides applies non-zero overrides onto cfg
func (c *ConfigurationLoader) MergeOverrides(cfg *config.Config, overrides ConfigOverrides) {
	if overrides.Format != "" {
		cfg.Output.Format = overrides.Format
	}
	if overrides.AllowlistPath != "" {
		cfg.Allowlist.Path = overrides.AllowlistPath
	}
	if overrides.Jobs != 0 {
		cfg.Performance.MaxWorkers = overrides.Jobs
	}
	if overrides.NoProgress {
		cfg.Output.Progress = false
	}
}
