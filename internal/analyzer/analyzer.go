// Package analyzer runs the rules over source files and aggregates the
// per-file reports of a run.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
	"github.com/ludo-technologies/dsastcheck/internal/rules"
)

// Analyzer checks single files. It holds no per-file state and may be
// used from several goroutines.
type Analyzer struct {
	root       string
	classifier *Classifier
	options    *rules.Options
	runner     *rules.Runner
	allowlist  *allowlist.Allowlist
	logger     *slog.Logger
}

// NewAnalyzer creates an analyzer for the project at root
func NewAnalyzer(root string, cfg *config.Config, allow *allowlist.Allowlist, logger *slog.Logger) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if allow == nil {
		allow = allowlist.Empty()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := rules.NewOptions(cfg.Rules)
	for _, id := range cfg.Rules.Disabled {
		if !rules.Known(id) {
			logger.Warn("unknown rule id in rules.disabled", "rule", id)
		}
	}

	return &Analyzer{
		root:       root,
		classifier: NewClassifier(cfg.Rules),
		options:    opts,
		runner:     rules.NewRunner(rules.Default(), opts),
		allowlist:  allow,
		logger:     logger,
	}
}

// Options returns the rule options in use
func (a *Analyzer) Options() *rules.Options {
	return a.options
}

// Allowlist returns the suppression list in use
func (a *Analyzer) Allowlist() *allowlist.Allowlist {
	return a.allowlist
}

// Classify returns the SourceFile for a discovered path
func (a *Analyzer) Classify(path string) domain.SourceFile {
	return a.classifier.Classify(a.root, path)
}

// AnalyzeFile reads and checks one file. Read failures are returned as
// errors; syntax errors are not.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*domain.FileReport, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return a.AnalyzeSource(ctx, a.Classify(path), source)
}

// AnalyzeSource checks already loaded content for file
func (a *Analyzer) AnalyzeSource(ctx context.Context, file domain.SourceFile, source []byte) (*domain.FileReport, error) {
	ast, err := parser.Parse(ctx, file.Dialect, file.Path, source)
	if err != nil {
		return nil, domain.NewParseError(file.RelPath, err)
	}

	pass := rules.NewPass(file, ast, a.options, a.allowlist)
	issues := a.runner.Run(pass)

	report := &domain.FileReport{
		File:           file,
		Issues:         issues,
		ChatPrimitives: pass.ChatPrimitives,
		HasSyntaxError: ast.HasError(),
	}

	a.logger.Debug("analysed file",
		"file", file.RelPath,
		"dialect", string(file.Dialect),
		"issues", len(issues),
		"admin", file.IsAdminUI,
		"chat", file.IsAdminChatFeature,
		"test", file.IsTest,
		"syntax_error", report.HasSyntaxError,
	)

	return report, nil
}

// String describes the analyzer for debug output
func (a *Analyzer) String() string {
	return fmt.Sprintf("analyzer(root=%s, rules=%d, allowlist=%d)", a.root, len(a.runner.Rules()), a.allowlist.Len())
}
