// Package rules holds the design-system checks run over a parsed file.
//
// Each Rule inspects the node types it registers for; a Runner walks the
// tree once and dispatches every node to all matching rules, then calls
// the Finish hooks for checks that need the whole file.
package rules

import (
	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

// Rule is a statically defined check
type Rule struct {
	// Name identifies the check in logs
	Name string

	// Doc is a one-line description
	Doc string

	// Reports lists the rule ids the check can emit
	Reports []string

	// NodeTypes are the node types passed to Inspect
	NodeTypes []parser.NodeType

	// Inspect is called for every node of a registered type, in source order
	Inspect func(pass *Pass, node *parser.Node)

	// Finish is called once after the walk
	Finish func(pass *Pass)
}

// Options tune rule behaviour
type Options struct {
	ClassHelpers      map[string]bool
	Disabled          map[string]bool
	ReportParseErrors bool
}

// DefaultOptions returns options matching the default configuration
func DefaultOptions() *Options {
	return NewOptions(config.DefaultConfig().Rules)
}

// NewOptions builds options from the rules configuration
func NewOptions(cfg config.RulesConfig) *Options {
	opts := &Options{
		ClassHelpers:      make(map[string]bool, len(cfg.ClassHelpers)),
		Disabled:          make(map[string]bool, len(cfg.Disabled)),
		ReportParseErrors: cfg.ReportParseErrors,
	}
	for _, name := range cfg.ClassHelpers {
		opts.ClassHelpers[name] = true
	}
	for _, rule := range cfg.Disabled {
		opts.Disabled[rule] = true
	}
	return opts
}

// Enabled reports whether a rule id is active
func (o *Options) Enabled(rule string) bool {
	return o == nil || !o.Disabled[rule]
}

// Pass carries the state of one file's analysis
type Pass struct {
	File      domain.SourceFile
	Root      *parser.Node
	Options   *Options
	Allowlist *allowlist.Allowlist

	// ChatPrimitives records which required chat categories the file renders
	ChatPrimitives map[string]bool

	issues []domain.Issue
	marks  map[string]bool
}

// NewPass creates the pass for one file
func NewPass(file domain.SourceFile, root *parser.Node, opts *Options, allow *allowlist.Allowlist) *Pass {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Pass{
		File:           file,
		Root:           root,
		Options:        opts,
		Allowlist:      allow,
		ChatPrimitives: make(map[string]bool),
		marks:          make(map[string]bool),
	}
}

// Report records an issue at the start of node unless the rule is
// disabled or the allowlist suppresses it for this file
func (p *Pass) Report(node *parser.Node, rule, detail string) {
	line, col := 1, 1
	if node != nil {
		line, col = node.Location.StartLine, node.Location.StartCol
	}
	p.ReportAt(line, col, rule, detail)
}

// ReportAt records an issue at an explicit position
func (p *Pass) ReportAt(line, col int, rule, detail string) {
	if !p.Options.Enabled(rule) {
		return
	}
	if p.Allowlist.IsAllowed(rule, p.File.RelPath) {
		return
	}
	p.issues = append(p.issues, domain.Issue{
		File:   p.File.RelPath,
		Line:   line,
		Column: col,
		Rule:   rule,
		Detail: detail,
	})
}

// Issues returns the issues reported so far, in report order
func (p *Pass) Issues() []domain.Issue {
	return p.issues
}

// Mark sets a per-file flag
func (p *Pass) Mark(flag string) {
	p.marks[flag] = true
}

// Marked reports whether a per-file flag is set
func (p *Pass) Marked(flag string) bool {
	return p.marks[flag]
}

// Runner dispatches nodes to rules
type Runner struct {
	rules  []*Rule
	byType map[parser.NodeType][]*Rule
}

// NewRunner indexes rules by node type. Rules whose every reported id is
// disabled are left out.
func NewRunner(rules []*Rule, opts *Options) *Runner {
	r := &Runner{byType: make(map[parser.NodeType][]*Rule)}
	for _, rule := range rules {
		if !anyEnabled(rule, opts) {
			continue
		}
		r.rules = append(r.rules, rule)
		for _, t := range rule.NodeTypes {
			r.byType[t] = append(r.byType[t], rule)
		}
	}
	return r
}

// Rules returns the active rules in registration order
func (r *Runner) Rules() []*Rule {
	return r.rules
}

// Run walks the pass's tree once, then runs the Finish hooks
func (r *Runner) Run(pass *Pass) []domain.Issue {
	pass.Root.Walk(func(node *parser.Node) bool {
		for _, rule := range r.byType[node.Type] {
			if rule.Inspect != nil {
				rule.Inspect(pass, node)
			}
		}
		return true
	})

	for _, rule := range r.rules {
		if rule.Finish != nil {
			rule.Finish(pass)
		}
	}

	return pass.Issues()
}

func anyEnabled(rule *Rule, opts *Options) bool {
	if len(rule.Reports) == 0 {
		return true
	}
	for _, id := range rule.Reports {
		if opts.Enabled(id) {
			return true
		}
	}
	return false
}

// Default returns the built-in rules in dispatch order
func Default() []*Rule {
	return []*Rule{
		ImportRule,
		ChatPrimitiveRule,
		AdminNavRule,
		AttributeRule,
		ClassHelperRule,
		ParseErrorRule,
	}
}
