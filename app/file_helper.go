package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/config"
)

// FileHelper discovers the source files of a project
type FileHelper struct {
	scanRoots        []string
	extensions       []string
	skipDirs         map[string]bool
	excludePatterns  []string
	respectGitignore bool
}

// NewFileHelper creates a FileHelper from the analysis configuration
func NewFileHelper(cfg config.AnalysisConfig) *FileHelper {
	skip := make(map[string]bool, len(cfg.SkipDirs))
	for _, name := range cfg.SkipDirs {
		skip[name] = true
	}
	return &FileHelper{
		scanRoots:        cfg.ScanRoots,
		extensions:       cfg.Extensions,
		skipDirs:         skip,
		excludePatterns:  cfg.ExcludePatterns,
		respectGitignore: cfg.RespectGitignore,
	}
}

// WithExtensions returns a copy of the helper that also accepts extra
func (h *FileHelper) WithExtensions(extra []string) *FileHelper {
	clone := *h
	clone.extensions = append(append([]string{}, h.extensions...), extra...)
	return &clone
}

// CollectFiles walks every existing scan root under root depth-first, with
// directory entries in lexical order. Missing scan roots are skipped; an
// unreadable directory aborts discovery.
func (h *FileHelper) CollectFiles(root string) ([]string, error) {
	var gitignore *ignore.GitIgnore
	if h.respectGitignore {
		path := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(path); err == nil {
			compiled, err := ignore.CompileIgnoreFile(path)
			if err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot read %s", path), err)
			}
			gitignore = compiled
		}
	}

	var files []string
	for _, scanRoot := range h.scanRoots {
		dir := filepath.Join(root, filepath.FromSlash(scanRoot))
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, domain.NewFileNotFoundError(dir, err)
		}
		if !info.IsDir() {
			continue
		}

		walked, err := h.walk(root, dir, gitignore, files)
		if err != nil {
			return nil, err
		}
		files = walked
	}
	return files, nil
}

func (h *FileHelper) walk(root, dir string, gitignore *ignore.GitIgnore, files []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.NewFileNotFoundError(dir, err)
	}

	for _, entry := range entries {
		if h.skipDirs[entry.Name()] {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if files, err = h.walk(root, path, gitignore, files); err != nil {
				return nil, err
			}
			continue
		}

		if !h.IsSourceFile(entry.Name()) {
			continue
		}
		rel := allowlist.RelativePath(root, path)
		excluded, err := h.isExcluded(rel)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}
		if gitignore != nil && gitignore.MatchesPath(rel) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// IsSourceFile reports whether name carries one of the configured extensions.
// The comparison is case-sensitive.
func (h *FileHelper) IsSourceFile(name string) bool {
	for _, ext := range h.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isExcluded checks the root-relative path against the exclude globs.
// A malformed glob is an error rather than a pattern that matches nothing.
func (h *FileHelper) isExcluded(rel string) (bool, error) {
	for _, pattern := range h.excludePatterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, domain.NewInvalidInputError(fmt.Sprintf("invalid exclude pattern %q", pattern), err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// ResolveFiles returns explicit files when given, otherwise the discovered
// set. Explicit paths are made absolute and must exist.
func ResolveFiles(helper *FileHelper, root string, explicit []string) ([]string, error) {
	if len(explicit) == 0 {
		return helper.CollectFiles(root)
	}

	files := make([]string, 0, len(explicit))
	for _, path := range explicit {
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		if info.IsDir() {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("%s is a directory", path), nil)
		}
		files = append(files, path)
	}
	return files, nil
}
