package analyzer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

var testPathPattern = regexp.MustCompile(`(?i)(?:^|/)__tests__/|(?:^|/).+\.(?:test|spec)\.[a-z]+$`)

// Classifier derives a file's flags from its path. Markers are plain
// substrings matched against the forward-slash form of the discovered
// path, so roots should be absolute for leading-slash markers to match.
type Classifier struct {
	adminMarkers     []string
	adminChatMarkers []string
	iconsMarkers     []string
}

// NewClassifier creates a classifier from the rules configuration
func NewClassifier(cfg config.RulesConfig) *Classifier {
	return &Classifier{
		adminMarkers:     cfg.AdminMarkers,
		adminChatMarkers: cfg.AdminChatMarkers,
		iconsMarkers:     cfg.IconsMarkers,
	}
}

// Classify builds the SourceFile for path, discovered under root
func (c *Classifier) Classify(root, path string) domain.SourceFile {
	normalized := allowlist.NormalizePath(filepath.ToSlash(path))

	return domain.SourceFile{
		Path:               path,
		RelPath:            allowlist.RelativePath(root, path),
		Dialect:            parser.DialectForPath(path),
		IsTest:             IsTestPath(normalized),
		IsAdminUI:          containsAny(normalized, c.adminMarkers),
		IsAdminChatFeature: containsAny(normalized, c.adminChatMarkers),
		IsIconsDirectory:   containsAny(normalized, c.iconsMarkers),
	}
}

// IsTestPath reports whether a forward-slash path is a test file
func IsTestPath(path string) bool {
	return testPathPattern.MatchString(path)
}

func containsAny(path string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(path, marker) {
			return true
		}
	}
	return false
}
