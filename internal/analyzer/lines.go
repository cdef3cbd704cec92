package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/rules"
)

// maxLineSummary bounds the source excerpt of a lucide import issue
const maxLineSummary = 140

var lucideImportPattern = regexp.MustCompile(`from\s+["']lucide-react["']`)

// LineScanner is the line-oriented check. It has no parser and no
// allowlist: every line is matched as plain text.
type LineScanner struct {
	iconsMarkers []string
}

// NewLineScanner creates a line scanner
func NewLineScanner(cfg config.RulesConfig) *LineScanner {
	return &LineScanner{iconsMarkers: cfg.IconsMarkers}
}

// ScanFile reads and scans one file
func (s *LineScanner) ScanFile(root, path string) ([]domain.LineIssue, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return s.ScanContent(path, allowlist.RelativePath(root, path), string(content)), nil
}

// ScanContent scans content. Issues are grouped by rule: lucide imports,
// forbidden literals (one literal at a time), then palette classes.
func (s *LineScanner) ScanContent(path, relPath, content string) []domain.LineIssue {
	lines := strings.Split(content, "\n")
	var issues []domain.LineIssue

	iconsDir := containsAny(allowlist.NormalizePath(filepath.ToSlash(path)), s.iconsMarkers)
	if !iconsDir && lucideImportPattern.MatchString(content) {
		for i, line := range lines {
			if lucideImportPattern.MatchString(line) {
				issues = append(issues, domain.LineIssue{
					File:   relPath,
					Line:   i + 1,
					Rule:   constants.RuleNoDirectLucideImport,
					Detail: summarizeLine(line),
				})
			}
		}
	}

	for _, rule := range rules.ForbiddenLiterals {
		for i, line := range lines {
			if strings.Contains(line, rule.Literal) {
				issues = append(issues, domain.LineIssue{
					File:   relPath,
					Line:   i + 1,
					Rule:   constants.RuleForbiddenToken,
					Detail: fmt.Sprintf("%s (%s)", rule.Literal, rule.Message),
				})
			}
		}
	}

	for i, line := range lines {
		for _, match := range rules.RawPaletteMatches(line) {
			issues = append(issues, domain.LineIssue{
				File:   relPath,
				Line:   i + 1,
				Rule:   constants.RuleRawTailwindPalette,
				Detail: fmt.Sprintf("%s (use semantic token classes)", match),
			})
		}
	}

	return issues
}

func summarizeLine(line string) string {
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > maxLineSummary {
		runes = runes[:maxLineSummary]
	}
	return string(runes)
}
