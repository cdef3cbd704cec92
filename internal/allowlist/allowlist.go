// Package allowlist loads the suppression file and decides whether an
// issue for a (rule, file) pair is suppressed.
package allowlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
)

// Entry is one allowlist record as written in the file
type Entry struct {
	Pattern string   `json:"pattern"`
	Rules   []string `json:"rules"`
}

// Matcher is a compiled entry
type Matcher struct {
	Pattern string
	Regex   *regexp.Regexp
	Rules   map[string]bool
}

// Allows reports whether the matcher suppresses rule for a normalized path
func (m *Matcher) Allows(rule, path string) bool {
	if !m.Regex.MatchString(path) {
		return false
	}
	return m.Rules[constants.RuleWildcard] || m.Rules[rule]
}

// Allowlist is the compiled suppression list. It is immutable after creation.
type Allowlist struct {
	matchers []Matcher
}

// Empty returns an allowlist that suppresses nothing
func Empty() *Allowlist {
	return &Allowlist{}
}

// New compiles entries into an allowlist
func New(entries []Entry) (*Allowlist, error) {
	a := &Allowlist{matchers: make([]Matcher, 0, len(entries))}
	for _, e := range entries {
		re, err := CompilePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", e.Pattern, err)
		}
		rules := make(map[string]bool, len(e.Rules))
		for _, r := range e.Rules {
			rules[r] = true
		}
		a.matchers = append(a.matchers, Matcher{Pattern: e.Pattern, Regex: re, Rules: rules})
	}
	return a, nil
}

// Load reads the allowlist at path. A missing file yields an empty
// allowlist. A file that is not valid JSON or lacks the rulesByPattern
// array is an error carrying the path relative to root.
func Load(path, root string) (*Allowlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return nil, domain.NewFileNotFoundError(path, err)
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, domain.NewAllowlistError(RelativePath(root, path), err)
	}

	a, err := New(entries)
	if err != nil {
		return nil, domain.NewAllowlistError(RelativePath(root, path), err)
	}
	return a, nil
}

// Parse decodes an allowlist document. Entries without a string pattern or
// an array of rules are dropped; non-string rules are dropped.
func Parse(data []byte) ([]Entry, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, errors.New("top-level value must be an object")
	}

	raw, ok := top["rulesByPattern"]
	if !ok {
		return nil, errors.New("missing rulesByPattern array")
	}

	var items []json.RawMessage
	if !isJSONArray(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, errors.New("rulesByPattern must be an array")
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil || fields == nil {
			continue
		}

		pattern, ok := jsonString(fields["pattern"])
		if !ok {
			continue
		}

		var rawRules []json.RawMessage
		if !isJSONArray(fields["rules"]) || json.Unmarshal(fields["rules"], &rawRules) != nil {
			continue
		}

		rules := make([]string, 0, len(rawRules))
		for _, r := range rawRules {
			if s, ok := jsonString(r); ok {
				rules = append(rules, s)
			}
		}

		entries = append(entries, Entry{Pattern: pattern, Rules: rules})
	}

	return entries, nil
}

// IsAllowed reports whether any entry suppresses rule for file.
// file is normalized to forward slashes before matching.
func (a *Allowlist) IsAllowed(rule, file string) bool {
	if a == nil {
		return false
	}
	normalized := NormalizePath(file)
	for i := range a.matchers {
		if a.matchers[i].Allows(rule, normalized) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled entries
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.matchers)
}

// Matchers returns the compiled entries in file order
func (a *Allowlist) Matchers() []Matcher {
	if a == nil {
		return nil
	}
	return a.matchers
}

// CompilePattern converts a glob into an anchored regular expression.
// "**/" matches zero or more whole segments, any other "**" matches
// anything, "*" matches within one segment and "?" matches one
// non-separator character. Everything else is literal.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	p := NormalizePath(pattern)

	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(p); {
		switch {
		case strings.HasPrefix(p[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(p[i:], "**"):
			b.WriteString(".*")
			i += 2
		case p[i] == '*':
			b.WriteString("[^/]*")
			i++
		case p[i] == '?':
			b.WriteString("[^/]")
			i++
		default:
			_, size := utf8.DecodeRuneInString(p[i:])
			b.WriteString(regexp.QuoteMeta(p[i : i+size]))
			i += size
		}
	}
	b.WriteString("$")

	return regexp.Compile(b.String())
}

// NormalizePath converts backslashes to forward slashes
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// RelativePath returns path relative to root with forward slashes,
// or the normalized path itself when it is not under root
func RelativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return NormalizePath(path)
	}
	return NormalizePath(filepath.ToSlash(rel))
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func jsonString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}
