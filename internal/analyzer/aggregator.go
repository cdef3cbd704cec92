package analyzer

import (
	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/rules"
	"github.com/ludo-technologies/dsastcheck/internal/version"
)

// Aggregator collects the file reports of one run in discovery order and
// owns the run's GlobalState
type Aggregator struct {
	state   *domain.GlobalState
	allow   *allowlist.Allowlist
	options *rules.Options

	issues           []domain.Issue
	filesScanned     int
	filesWithIssues  int
	syntaxErrorFiles int
}

// NewAggregator creates an aggregator with empty state
func NewAggregator(allow *allowlist.Allowlist, opts *rules.Options) *Aggregator {
	if opts == nil {
		opts = rules.DefaultOptions()
	}
	return &Aggregator{
		state:   domain.NewGlobalState(constants.ChatCategories),
		allow:   allow,
		options: opts,
		issues:  []domain.Issue{},
	}
}

// Add folds one file report into the run. Reports must be added in
// discovery order.
func (g *Aggregator) Add(report *domain.FileReport) {
	if report == nil {
		return
	}
	g.filesScanned++
	if len(report.Issues) > 0 {
		g.filesWithIssues++
	}
	if report.HasSyntaxError {
		g.syntaxErrorFiles++
	}
	g.issues = append(g.issues, report.Issues...)
	g.state.Merge(report)
}

// State returns the accumulated cross-file state
func (g *Aggregator) State() *domain.GlobalState {
	return g.state
}

// CrossFileIssues returns one missing-primitive issue per uncovered
// category, attributed to the first admin chat file at 1:1. Nothing is
// returned when the run saw no admin chat file.
func (g *Aggregator) CrossFileIssues() []domain.Issue {
	if len(g.state.AdminChatFiles) == 0 || !g.options.Enabled(constants.RuleMissingAgenticChatPrimitives) {
		return nil
	}

	target := g.state.AdminChatFiles[0]
	if g.allow.IsAllowed(constants.RuleMissingAgenticChatPrimitives, target) {
		return nil
	}

	var issues []domain.Issue
	for _, category := range constants.ChatCategories {
		if g.state.ChatPrimitiveCoverage[category] {
			continue
		}
		issues = append(issues, domain.Issue{
			File:   target,
			Line:   1,
			Column: 1,
			Rule:   constants.RuleMissingAgenticChatPrimitives,
			Detail: rules.ChatCategoryMessages[category],
		})
	}
	return issues
}

// Result builds the run result: per-file issues followed by cross-file ones
func (g *Aggregator) Result() *domain.CheckResult {
	issues := make([]domain.Issue, 0, len(g.issues))
	issues = append(issues, g.issues...)

	cross := g.CrossFileIssues()
	issues = append(issues, cross...)

	filesWithIssues := g.filesWithIssues
	if len(cross) > 0 && !g.fileHasIssues(cross[0].File) {
		filesWithIssues++
	}

	byRule := make(map[string]int)
	for _, issue := range issues {
		byRule[issue.Rule]++
	}

	exitCode := 0
	if len(issues) > 0 {
		exitCode = 1
	}

	return &domain.CheckResult{
		Passed:   len(issues) == 0,
		ExitCode: exitCode,
		Issues:   issues,
		Summary: domain.CheckSummary{
			FilesScanned:      g.filesScanned,
			TotalIssues:       len(issues),
			FilesWithIssues:   filesWithIssues,
			IssuesByRule:      byRule,
			AdminChatFiles:    len(g.state.AdminChatFiles),
			SyntaxErrorFiles:  g.syntaxErrorFiles,
			AllowlistPatterns: g.allow.Len(),
		},
		Version: version.Version,
	}
}

func (g *Aggregator) fileHasIssues(file string) bool {
	for _, issue := range g.issues {
		if issue.File == file {
			return true
		}
	}
	return false
}
