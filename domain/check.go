package domain

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// CheckResult represents the result of one conformance run
type CheckResult struct {
	Passed      bool         `json:"passed" yaml:"passed"`
	ExitCode    int          `json:"exit_code" yaml:"exit_code"`
	Issues      []Issue      `json:"issues" yaml:"issues"`
	Summary     CheckSummary `json:"summary" yaml:"summary"`
	Duration    int64        `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesScanned      int            `json:"files_scanned" yaml:"files_scanned"`
	TotalIssues       int            `json:"total_issues" yaml:"total_issues"`
	FilesWithIssues   int            `json:"files_with_issues" yaml:"files_with_issues"`
	IssuesByRule      map[string]int `json:"issues_by_rule,omitempty" yaml:"issues_by_rule,omitempty"`
	AdminChatFiles    int            `json:"admin_chat_files" yaml:"admin_chat_files"`
	SyntaxErrorFiles  int            `json:"syntax_error_files,omitempty" yaml:"syntax_error_files,omitempty"`
	AllowlistPatterns int            `json:"allowlist_patterns" yaml:"allowlist_patterns"`
}

// CheckRequest carries everything a run needs besides the configuration
type CheckRequest struct {
	// Root is the project root; scan roots and the allowlist resolve against it
	Root string

	// Files overrides discovery when non-empty
	Files []string
}

// LineIssue is a finding of the line-oriented check, which has no column
type LineIssue struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Rule   string `json:"rule" yaml:"rule"`
	Detail string `json:"detail" yaml:"detail"`
}

// LineCheckResult is the result of the line-oriented check
type LineCheckResult struct {
	Issues       []LineIssue `json:"issues" yaml:"issues"`
	FilesScanned int         `json:"files_scanned" yaml:"files_scanned"`
}

// Passed reports whether the line check found nothing
func (r *LineCheckResult) Passed() bool {
	return len(r.Issues) == 0
}
