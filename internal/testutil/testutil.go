// Package testutil provides helper functions for testing ds-ast-check components
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

// WriteTree creates a project under a fresh temp directory. Keys are
// slash-separated paths relative to the root. The root is returned.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	// deterministic creation order keeps mtimes monotonic across runs
	paths := make([]string, 0, len(files))
	for rel := range files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		WriteFile(t, root, rel, files[rel])
	}
	return root
}

// WriteFile writes content at root/rel, creating parent directories
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}

// ParseSource parses source with the grammar for dialect
func ParseSource(t *testing.T, dialect domain.Dialect, source string) *parser.Node {
	t.Helper()
	p, err := parser.NewParser(dialect)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// RelPaths converts absolute paths under root to slash-separated relative paths
func RelPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("Failed to relativize %s: %v", p, err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
