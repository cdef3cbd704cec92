package app

import (
	"context"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/analyzer"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	servicepkg "github.com/ludo-technologies/dsastcheck/service"
)

// LinesUseCase runs the line-oriented check. It scans the code files plus
// the configured line-only extensions and applies no allowlist.
type LinesUseCase struct {
	config     *config.Config
	fileHelper *FileHelper
	scanner    *analyzer.LineScanner
	progress   domain.ProgressManager
}

// NewLinesUseCase creates a line check use case
func NewLinesUseCase(cfg *config.Config, pm domain.ProgressManager) *LinesUseCase {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LinesUseCase{
		config:     cfg,
		fileHelper: NewFileHelper(cfg.Analysis).WithExtensions(cfg.Analysis.LineExtensions),
		scanner:    analyzer.NewLineScanner(cfg.Rules),
		progress:   pm,
	}
}

// Execute scans every discovered file under req.Root
func (uc *LinesUseCase) Execute(ctx context.Context, req domain.CheckRequest) (*domain.LineCheckResult, error) {
	if req.Root == "" {
		return nil, domain.NewInvalidInputError("root is required", nil)
	}

	files, err := ResolveFiles(uc.fileHelper, req.Root, req.Files)
	if err != nil {
		return nil, err
	}

	executor := servicepkg.NewParallelExecutorWithProgress(&uc.config.Performance, uc.progress)
	perFile, err := servicepkg.ExecuteOrdered(ctx, executor, "Scanning lines", files,
		func(_ context.Context, path string) ([]domain.LineIssue, error) {
			return uc.scanner.ScanFile(req.Root, path)
		})
	if err != nil {
		return nil, domain.NewAnalysisError("line check failed", err)
	}

	result := &domain.LineCheckResult{
		Issues:       []domain.LineIssue{},
		FilesScanned: len(files),
	}
	for _, issues := range perFile {
		result.Issues = append(result.Issues, issues...)
	}
	return result, nil
}
