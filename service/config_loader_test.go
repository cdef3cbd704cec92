package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/config"
)

func TestNewConfigurationLoader(t *testing.T) {
	loader := NewConfigurationLoader()

	if loader == nil {
		t.Fatal("NewConfigurationLoader should not return nil")
	}
}

func TestConfigurationLoader_ResolveRoot(t *testing.T) {
	loader := NewConfigurationLoader()
	dir := t.TempDir()

	got, err := loader.ResolveRoot(dir)
	if err != nil {
		t.Fatalf("ResolveRoot failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute root, got %s", got)
	}

	wd, err := loader.ResolveRoot("")
	if err != nil || wd == "" {
		t.Errorf("empty root should resolve to the working directory, got %q, %v", wd, err)
	}
}

func TestConfigurationLoader_ResolveRoot_Invalid(t *testing.T) {
	loader := NewConfigurationLoader()
	dir := t.TempDir()

	_, err := loader.ResolveRoot(filepath.Join(dir, "missing"))
	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeFileNotFound {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	_, err = loader.ResolveRoot(file)
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT for a file root, got %v", err)
	}
}

func TestConfigurationLoader_LoadConfig_Defaults(t *testing.T) {
	loader := NewConfigurationLoader()

	cfg, err := loader.LoadConfig("", t.TempDir(), ConfigOverrides{})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected text format, got %s", cfg.Output.Format)
	}
	if cfg.Allowlist.Path != "scripts/ds-ast-allowlist.json" {
		t.Errorf("unexpected allowlist path %s", cfg.Allowlist.Path)
	}
}

func TestConfigurationLoader_LoadConfig_FileAndOverrides(t *testing.T) {
	root := t.TempDir()
	content := `{
		"output": {"format": "json"},
		"performance": {"max_workers": 2}
	}`
	if err := os.WriteFile(filepath.Join(root, ".ds-ast-check.json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	cfg, err := loader.LoadConfig("", root, ConfigOverrides{})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Format != "json" || cfg.Performance.MaxWorkers != 2 {
		t.Errorf("config file not applied: format=%s workers=%d", cfg.Output.Format, cfg.Performance.MaxWorkers)
	}

	cfg, err = loader.LoadConfig("", root, ConfigOverrides{Format: "yaml", Jobs: 6, NoProgress: true, AllowlistPath: "ds.json"})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Format != "yaml" || cfg.Performance.MaxWorkers != 6 || cfg.Output.Progress || cfg.Allowlist.Path != "ds.json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestConfigurationLoader_LoadConfig_InvalidOverride(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig("", t.TempDir(), ConfigOverrides{Format: "html"})
	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeConfigError {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestConfigurationLoader_LoadConfig_InvalidFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.json")
	if err := os.WriteFile(path, []byte("invalid json"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := NewConfigurationLoader().LoadConfig(path, root, ConfigOverrides{})
	if err == nil {
		t.Error("LoadConfig should return error for invalid JSON")
	}
}

func TestConfigurationLoader_MergeOverrides_PreservesBase(t *testing.T) {
	cfg := config.DefaultConfig()
	NewConfigurationLoader().MergeOverrides(cfg, ConfigOverrides{})

	if cfg.Output.Format != "text" || !cfg.Output.Progress || cfg.Performance.MaxWorkers != 1 {
		t.Errorf("zero overrides must not change the config: %+v", cfg)
	}
}
