package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/analyzer"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	servicepkg "github.com/ludo-technologies/dsastcheck/service"
)

// CheckUseCase orchestrates one AST conformance run: allowlist, discovery,
// per-file analysis and aggregation.
type CheckUseCase struct {
	config     *config.Config
	fileHelper *FileHelper
	progress   domain.ProgressManager
	cache      *servicepkg.ReportCache
	logger     *slog.Logger
}

// Execute runs the check for req.Root. A fatal error (unusable allowlist,
// unreadable directory or file) aborts the run; findings never do.
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.CheckRequest) (*domain.CheckResult, error) {
	startTime := time.Now()

	if req.Root == "" {
		return nil, domain.NewInvalidInputError("root is required", nil)
	}

	allow, err := allowlist.Load(uc.config.AllowlistPath(req.Root), req.Root)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("loaded allowlist", "patterns", allow.Len())

	files, err := ResolveFiles(uc.fileHelper, req.Root, req.Files)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("discovered files", "count", len(files), "root", req.Root)

	a := analyzer.NewAnalyzer(req.Root, uc.config, allow, uc.logger)
	executor := servicepkg.NewParallelExecutorWithProgress(&uc.config.Performance, uc.progress)

	reports, err := servicepkg.ExecuteOrdered(ctx, executor, "Checking files", files,
		func(ctx context.Context, path string) (*domain.FileReport, error) {
			if uc.cache != nil {
				if report, ok := uc.cache.Get(path); ok {
					return report, nil
				}
			}
			report, err := a.AnalyzeFile(ctx, path)
			if err != nil {
				return nil, err
			}
			if uc.cache != nil {
				uc.cache.Put(path, report)
			}
			return report, nil
		})
	if err != nil {
		return nil, domain.NewAnalysisError("check failed", err)
	}

	agg := analyzer.NewAggregator(allow, a.Options())
	for _, report := range reports {
		agg.Add(report)
	}

	result := agg.Result()
	result.Duration = time.Since(startTime).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)

	uc.logger.Debug("check finished",
		"files", result.Summary.FilesScanned,
		"issues", result.Summary.TotalIssues,
		"duration_ms", result.Duration,
	)
	return result, nil
}

// CheckUseCaseBuilder provides a builder pattern for creating CheckUseCase
type CheckUseCaseBuilder struct {
	config     *config.Config
	fileHelper *FileHelper
	progress   domain.ProgressManager
	cache      *servicepkg.ReportCache
	logger     *slog.Logger
}

// NewCheckUseCaseBuilder creates a new builder
func NewCheckUseCaseBuilder() *CheckUseCaseBuilder {
	return &CheckUseCaseBuilder{}
}

// WithConfig sets the configuration
func (b *CheckUseCaseBuilder) WithConfig(cfg *config.Config) *CheckUseCaseBuilder {
	b.config = cfg
	return b
}

// WithFileHelper sets the file helper
func (b *CheckUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *CheckUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithProgress sets the progress manager
func (b *CheckUseCaseBuilder) WithProgress(pm domain.ProgressManager) *CheckUseCaseBuilder {
	b.progress = pm
	return b
}

// WithCache sets a report cache reused across runs
func (b *CheckUseCaseBuilder) WithCache(cache *servicepkg.ReportCache) *CheckUseCaseBuilder {
	b.cache = cache
	return b
}

// WithLogger sets the debug logger
func (b *CheckUseCaseBuilder) WithLogger(logger *slog.Logger) *CheckUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the CheckUseCase with the configured dependencies
func (b *CheckUseCaseBuilder) Build() (*CheckUseCase, error) {
	cfg := b.config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}

	uc := &CheckUseCase{
		config:     cfg,
		fileHelper: b.fileHelper,
		progress:   b.progress,
		cache:      b.cache,
		logger:     b.logger,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper(cfg.Analysis)
	}
	if uc.logger == nil {
		uc.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return uc, nil
}
