package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/dsastcheck/domain"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps a tree-sitter parser configured for one dialect
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	dialect  domain.Dialect
}

// NewParser creates a parser for the given dialect
func NewParser(dialect domain.Dialect) (*Parser, error) {
	lang := languageFor(dialect)
	if lang == nil {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		dialect:  dialect,
	}, nil
}

// languageFor returns the tree-sitter grammar of a dialect
func languageFor(dialect domain.Dialect) *sitter.Language {
	switch dialect {
	case domain.DialectTSX:
		return tsx.GetLanguage()
	case domain.DialectTypeScript:
		return typescript.GetLanguage()
	case domain.DialectJavaScript:
		return javascript.GetLanguage()
	}
	return nil
}

// DialectForPath selects the dialect from the file extension (case-insensitive).
// JSX is accepted in every JavaScript extension; .ts, .mts and .cts use the
// plain TypeScript grammar, where <T>x is a type assertion.
func DialectForPath(path string) domain.Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return domain.DialectTSX
	case ".ts", ".mts", ".cts":
		return domain.DialectTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return domain.DialectJavaScript
	}
	return domain.DialectUnknown
}

// ParseFile parses a source file. Syntax errors do not fail the parse:
// the tree contains Error or missing nodes instead.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	// Build our internal AST from tree-sitter CST
	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// ParseString parses source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", []byte(source))
}

// Dialect returns the dialect this parser was created for
func (p *Parser) Dialect() domain.Dialect {
	return p.dialect
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Parse parses source with the grammar for dialect. Unknown dialects,
// such as explicit files with other extensions, are read as TypeScript.
func Parse(ctx context.Context, dialect domain.Dialect, filename string, source []byte) (*Node, error) {
	if dialect == domain.DialectUnknown {
		dialect = domain.DialectTypeScript
	}

	p, err := NewParser(dialect)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return p.ParseFile(ctx, filename, source)
}
