package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/joho/godotenv"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/spf13/viper"
)

// Default watch settings
const (
	// DefaultWatchDebounceMS is the quiet period after the last file event before a re-run
	DefaultWatchDebounceMS = 300

	// DefaultWatchCacheSize bounds the number of per-file reports kept between runs
	DefaultWatchCacheSize = 2048
)

// Config represents the main configuration structure
type Config struct {
	// Analysis holds discovery configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Rules holds rule tuning: path markers, class helpers, disabled rules
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Allowlist holds suppression file configuration
	Allowlist AllowlistConfig `json:"allowlist" mapstructure:"allowlist" yaml:"allowlist"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance holds concurrency configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Watch holds watch mode configuration
	Watch WatchConfig `json:"watch" mapstructure:"watch" yaml:"watch"`
}

// AnalysisConfig holds configuration for file discovery
type AnalysisConfig struct {
	// ScanRoots are directories under the project root that are scanned; missing ones are skipped
	ScanRoots []string `json:"scan_roots" mapstructure:"scan_roots" yaml:"scan_roots"`

	// Extensions are the code file extensions, with leading dot
	Extensions []string `json:"extensions" mapstructure:"extensions" yaml:"extensions"`

	// LineExtensions are extra extensions scanned only by the line-oriented check
	LineExtensions []string `json:"line_extensions" mapstructure:"line_extensions" yaml:"line_extensions"`

	// SkipDirs are entry names never descended into or reported
	SkipDirs []string `json:"skip_dirs" mapstructure:"skip_dirs" yaml:"skip_dirs"`

	// ExcludePatterns are doublestar globs matched against root-relative paths
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// RespectGitignore drops files ignored by the root .gitignore
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// RulesConfig holds rule configuration
type RulesConfig struct {
	// ClassHelpers are the call names whose arguments are treated as class strings
	ClassHelpers []string `json:"class_helpers" mapstructure:"class_helpers" yaml:"class_helpers"`

	// AdminMarkers mark admin UI files by path substring
	AdminMarkers []string `json:"admin_markers" mapstructure:"admin_markers" yaml:"admin_markers"`

	// AdminChatMarkers mark admin chat feature files by path substring
	AdminChatMarkers []string `json:"admin_chat_markers" mapstructure:"admin_chat_markers" yaml:"admin_chat_markers"`

	// IconsMarkers mark the icon wrapper directory by path substring
	IconsMarkers []string `json:"icons_markers" mapstructure:"icons_markers" yaml:"icons_markers"`

	// Disabled lists rule ids that are not run
	Disabled []string `json:"disabled" mapstructure:"disabled" yaml:"disabled"`

	// ReportParseErrors enables the parse-error rule
	ReportParseErrors bool `json:"report_parse_errors" mapstructure:"report_parse_errors" yaml:"report_parse_errors"`
}

// AllowlistConfig holds configuration for the suppression file
type AllowlistConfig struct {
	// Path is the allowlist location, relative to the project root unless absolute
	Path string `json:"path" mapstructure:"path" yaml:"path"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Progress enables the progress bar when stderr is a terminal
	Progress bool `json:"progress" mapstructure:"progress" yaml:"progress"`
}

// PerformanceConfig holds concurrency configuration
type PerformanceConfig struct {
	// MaxWorkers is the number of files analysed at once (0 = one per CPU)
	MaxWorkers int `json:"max_workers" mapstructure:"max_workers" yaml:"max_workers"`
}

// WatchConfig holds configuration for watch mode
type WatchConfig struct {
	// DebounceMS is the quiet period in milliseconds before a re-run
	DebounceMS int `json:"debounce_ms" mapstructure:"debounce_ms" yaml:"debounce_ms"`

	// CacheSize bounds the per-file report cache
	CacheSize int `json:"cache_size" mapstructure:"cache_size" yaml:"cache_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			ScanRoots: []string{"src", "app", "components"},
			Extensions: []string{
				".ts", ".tsx", ".js", ".jsx",
				".mjs", ".cjs", ".mts", ".cts",
			},
			LineExtensions: []string{".mdx"},
			SkipDirs: []string{
				"node_modules",
				".next",
				".git",
				"dist",
				"coverage",
				"build",
				"out",
			},
			ExcludePatterns:  []string{},
			RespectGitignore: false,
		},
		Rules: RulesConfig{
			ClassHelpers: []string{"cn", "cva", "clsx"},
			AdminMarkers: []string{
				"app/admin/",
				"src/app/admin/",
				"components/admin/",
				"src/components/admin/",
			},
			AdminChatMarkers: []string{
				"components/admin/chat/",
				"src/components/admin/chat/",
				"app/admin/chat/",
				"src/app/admin/chat/",
				"app/admin/(chat)/chat/",
				"src/app/admin/(chat)/chat/",
			},
			IconsMarkers: []string{
				"/src/components/ui/icons/",
				"/components/ui/icons/",
			},
			Disabled:          []string{},
			ReportParseErrors: false,
		},
		Allowlist: AllowlistConfig{
			Path: constants.DefaultAllowlistPath,
		},
		Output: OutputConfig{
			Format:   constants.OutputFormatText,
			Progress: true,
		},
		Performance: PerformanceConfig{
			MaxWorkers: 1,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultWatchDebounceMS,
			CacheSize:  DefaultWatchCacheSize,
		},
	}
}

// LoadConfig loads configuration for the project at root. An empty
// configPath triggers discovery in root; no file found means defaults.
// A .env file in root is applied to the environment first, and
// DS_AST_CHECK_* variables override file values.
func LoadConfig(configPath string, root string) (*Config, error) {
	if err := loadDotEnv(root); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = FindConfigFile(root)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDotEnv applies root/.env without overriding variables already set
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("analysis.scan_roots", d.Analysis.ScanRoots)
	v.SetDefault("analysis.extensions", d.Analysis.Extensions)
	v.SetDefault("analysis.line_extensions", d.Analysis.LineExtensions)
	v.SetDefault("analysis.skip_dirs", d.Analysis.SkipDirs)
	v.SetDefault("analysis.exclude_patterns", d.Analysis.ExcludePatterns)
	v.SetDefault("analysis.respect_gitignore", d.Analysis.RespectGitignore)

	v.SetDefault("rules.class_helpers", d.Rules.ClassHelpers)
	v.SetDefault("rules.admin_markers", d.Rules.AdminMarkers)
	v.SetDefault("rules.admin_chat_markers", d.Rules.AdminChatMarkers)
	v.SetDefault("rules.icons_markers", d.Rules.IconsMarkers)
	v.SetDefault("rules.disabled", d.Rules.Disabled)
	v.SetDefault("rules.report_parse_errors", d.Rules.ReportParseErrors)

	v.SetDefault("allowlist.path", d.Allowlist.Path)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.progress", d.Output.Progress)

	v.SetDefault("performance.max_workers", d.Performance.MaxWorkers)

	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMS)
	v.SetDefault("watch.cache_size", d.Watch.CacheSize)
}

// ConfigFileCandidates lists the file names searched in the project root, in order
var ConfigFileCandidates = []string{
	constants.ConfigFileName,
	".ds-ast-check.yml",
	".ds-ast-check.json",
	"ds-ast-check.toml",
}

// FindConfigFile returns the first candidate config file present in root, or ""
func FindConfigFile(root string) string {
	for _, candidate := range ConfigFileCandidates {
		path := filepath.Join(root, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if len(c.Analysis.ScanRoots) == 0 {
		return fmt.Errorf("analysis.scan_roots cannot be empty")
	}

	if len(c.Analysis.Extensions) == 0 {
		return fmt.Errorf("analysis.extensions cannot be empty")
	}

	for _, ext := range append(append([]string{}, c.Analysis.Extensions...), c.Analysis.LineExtensions...) {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid extension '%s', must start with '.'", ext)
		}
	}

	for _, pattern := range c.Analysis.ExcludePatterns {
		// matched against itself so every component is parsed; an empty
		// name returns before the pattern is read
		if _, err := doublestar.Match(pattern, pattern); err != nil {
			return fmt.Errorf("invalid analysis.exclude_patterns entry '%s': %w", pattern, err)
		}
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if c.Performance.MaxWorkers < 0 {
		return fmt.Errorf("performance.max_workers must be >= 0, got %d", c.Performance.MaxWorkers)
	}

	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	if c.Watch.CacheSize < 1 {
		return fmt.Errorf("watch.cache_size must be >= 1, got %d", c.Watch.CacheSize)
	}

	return nil
}

// AllowlistPath resolves the allowlist location against root
func (c *Config) AllowlistPath(root string) string {
	if filepath.IsAbs(c.Allowlist.Path) {
		return c.Allowlist.Path
	}
	return filepath.Join(root, filepath.FromSlash(c.Allowlist.Path))
}
