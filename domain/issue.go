package domain

import "fmt"

// Dialect identifies which grammar a source file is parsed with
type Dialect string

const (
	// DialectTSX is TypeScript with JSX (.tsx)
	DialectTSX Dialect = "tsx"

	// DialectTypeScript is plain TypeScript (.ts, .mts, .cts)
	DialectTypeScript Dialect = "typescript"

	// DialectJavaScript is JavaScript with JSX enabled (.js, .jsx, .mjs, .cjs)
	DialectJavaScript Dialect = "javascript"

	// DialectUnknown is returned for extensions the checker does not parse
	DialectUnknown Dialect = ""
)

// SourceFile is a discovered file together with its path-derived classification.
// It is computed once per file and never mutated afterwards.
type SourceFile struct {
	// Path is the path as discovered (joined onto the scan root)
	Path string `json:"path" yaml:"path"`

	// RelPath is the root-relative path with forward slashes
	RelPath string `json:"rel_path" yaml:"rel_path"`

	Dialect Dialect `json:"dialect" yaml:"dialect"`

	IsTest             bool `json:"is_test" yaml:"is_test"`
	IsAdminUI          bool `json:"is_admin_ui" yaml:"is_admin_ui"`
	IsAdminChatFeature bool `json:"is_admin_chat_feature" yaml:"is_admin_chat_feature"`
	IsIconsDirectory   bool `json:"is_icons_directory" yaml:"is_icons_directory"`
}

// AdminScoped reports whether admin-only rules apply to the file
func (f *SourceFile) AdminScoped() bool {
	return f.IsAdminUI && !f.IsTest
}

// ChatScoped reports whether admin-chat rules apply to the file
func (f *SourceFile) ChatScoped() bool {
	return f.IsAdminChatFeature && !f.IsTest
}

// Issue is one reported rule violation
type Issue struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Rule   string `json:"rule" yaml:"rule"`
	Detail string `json:"detail" yaml:"detail"`
}

// String renders the issue the way the text report prints it
func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d [%s] %s", i.File, i.Line, i.Column, i.Rule, i.Detail)
}

// FileReport is the outcome of analysing a single file. ChatPrimitives holds
// the required-primitive categories this file rendered; it is merged into the
// run's GlobalState by the aggregator.
type FileReport struct {
	File           SourceFile      `json:"file" yaml:"file"`
	Issues         []Issue         `json:"issues" yaml:"issues"`
	ChatPrimitives map[string]bool `json:"chat_primitives,omitempty" yaml:"chat_primitives,omitempty"`
	HasSyntaxError bool            `json:"has_syntax_error,omitempty" yaml:"has_syntax_error,omitempty"`
}

// GlobalState accumulates cross-file facts for one run
type GlobalState struct {
	// AdminChatFiles lists root-relative admin chat feature files in discovery order
	AdminChatFiles []string

	// ChatPrimitiveCoverage maps a required category to whether any file used it
	ChatPrimitiveCoverage map[string]bool
}

// NewGlobalState creates an empty state with every category marked uncovered
func NewGlobalState(categories []string) *GlobalState {
	coverage := make(map[string]bool, len(categories))
	for _, c := range categories {
		coverage[c] = false
	}
	return &GlobalState{
		AdminChatFiles:        []string{},
		ChatPrimitiveCoverage: coverage,
	}
}

// Merge folds a file report into the state
func (s *GlobalState) Merge(report *FileReport) {
	if report == nil {
		return
	}
	if report.File.ChatScoped() {
		s.AdminChatFiles = append(s.AdminChatFiles, report.File.RelPath)
	}
	for category, seen := range report.ChatPrimitives {
		if seen {
			s.ChatPrimitiveCoverage[category] = true
		}
	}
}
