package parser

import (
	"context"
	"testing"

	"github.com/ludo-technologies/dsastcheck/domain"
)

func mustParse(t *testing.T, dialect domain.Dialect, code string) *Node {
	t.Helper()

	parser, err := NewParser(dialect)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ast == nil {
		t.Fatal("AST is nil")
	}
	return ast
}

func findAll(ast *Node, nodeType NodeType) []*Node {
	var found []*Node
	ast.Walk(func(n *Node) bool {
		if n.Type == nodeType {
			found = append(found, n)
		}
		return true
	})
	return found
}

func findFirst(t *testing.T, ast *Node, nodeType NodeType) *Node {
	t.Helper()
	nodes := findAll(ast, nodeType)
	if len(nodes) == 0 {
		t.Fatalf("No %s node found", nodeType)
	}
	return nodes[0]
}

func TestDialectForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected domain.Dialect
	}{
		{"src/App.tsx", domain.DialectTSX},
		{"src/util.ts", domain.DialectTypeScript},
		{"src/util.mts", domain.DialectTypeScript},
		{"src/util.cts", domain.DialectTypeScript},
		{"src/app.js", domain.DialectJavaScript},
		{"src/App.jsx", domain.DialectJavaScript},
		{"src/conf.mjs", domain.DialectJavaScript},
		{"src/conf.cjs", domain.DialectJavaScript},
		{"src/App.TSX", domain.DialectTSX},
		{"docs/page.mdx", domain.DialectUnknown},
		{"README", domain.DialectUnknown},
	}

	for _, tt := range tests {
		if got := DialectForPath(tt.path); got != tt.expected {
			t.Errorf("DialectForPath(%s) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

func TestNewParser_UnknownDialect(t *testing.T) {
	if _, err := NewParser(domain.DialectUnknown); err == nil {
		t.Error("Expected error for unknown dialect")
	}
}

func TestParseImportDeclaration(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, `import { Check } from "lucide-react"
import "./side-effect.css"
`)

	imports := findAll(ast, NodeImportDeclaration)
	if len(imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(imports))
	}

	if imports[0].Source == nil || imports[0].Source.Text != "lucide-react" {
		t.Errorf("Expected source 'lucide-react', got %+v", imports[0].Source)
	}
	if imports[0].Source.Location.StartLine != 1 || imports[0].Source.Location.StartCol != 23 {
		t.Errorf("Expected source at 1:23, got %s", imports[0].Source.Location)
	}
	if imports[1].Source == nil || imports[1].Source.Text != "./side-effect.css" {
		t.Errorf("Expected side-effect import source, got %+v", imports[1].Source)
	}
}

func TestParseJSXAttributes(t *testing.T) {
	ast := mustParse(t, domain.DialectTSX, `export function Card() {
  return <div className="p-4 bg-red-500" style={{ color: "#fff" }} data-x />
}
`)

	element := findFirst(t, ast, NodeJSXOpeningElement)
	if element.Name != "div" {
		t.Errorf("Expected tag 'div', got '%s'", element.Name)
	}
	if !element.SelfClosing {
		t.Error("Expected self-closing element")
	}
	if len(element.Attributes) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(element.Attributes))
	}

	className := element.Attributes[0]
	if className.Name != "className" {
		t.Errorf("Expected className attribute, got '%s'", className.Name)
	}
	if className.Value == nil || className.Value.Type != NodeStringLiteral {
		t.Fatalf("Expected string initializer, got %+v", className.Value)
	}
	if className.Value.Text != "p-4 bg-red-500" {
		t.Errorf("Unexpected class text %q", className.Value.Text)
	}
	if className.Value.Location.StartCol != 25 {
		t.Errorf("Expected string at column 25, got %d", className.Value.Location.StartCol)
	}

	style := element.Attributes[1]
	if style.Value == nil || style.Value.Type != NodeJSXExpression {
		t.Fatalf("Expected expression initializer for style")
	}
	object := style.Value.Argument
	if object == nil || object.Type != NodeObjectExpression {
		t.Fatalf("Expected object literal in style, got %+v", object)
	}
	pair := findFirst(t, object, NodeProperty)
	if pair.Name != "color" || pair.Value == nil || pair.Value.Text != "#fff" {
		t.Errorf("Unexpected style property %+v", pair)
	}

	if element.Attributes[2].Name != "data-x" || element.Attributes[2].Value != nil {
		t.Errorf("Expected bare data-x attribute, got %+v", element.Attributes[2])
	}
}

func TestParseJSXNamespacedAndMemberTags(t *testing.T) {
	ast := mustParse(t, domain.DialectTSX, `const a = <Foo.Bar xlink:href="x"><Baz /></Foo.Bar>`)

	elements := findAll(ast, NodeJSXOpeningElement)
	if len(elements) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(elements))
	}
	if elements[0].Name != "" {
		t.Errorf("Member tag should not carry an identifier name, got '%s'", elements[0].Name)
	}
	if len(elements[0].Attributes) != 1 || elements[0].Attributes[0].Name != "" {
		t.Errorf("Namespaced attribute should have no plain name")
	}
	if elements[1].Name != "Baz" {
		t.Errorf("Expected 'Baz', got '%s'", elements[1].Name)
	}
}

func TestParseJSXInJavaScript(t *testing.T) {
	ast := mustParse(t, domain.DialectJavaScript, `export const X = () => <Panel className={cn("a", "b")} />`)

	element := findFirst(t, ast, NodeJSXOpeningElement)
	if element.Name != "Panel" {
		t.Errorf("Expected 'Panel', got '%s'", element.Name)
	}
	call := findFirst(t, ast, NodeCallExpression)
	if call.Callee == nil || call.Callee.Name != "cn" {
		t.Errorf("Expected cn callee, got %+v", call.Callee)
	}
	if len(call.Arguments) != 2 {
		t.Errorf("Expected 2 arguments, got %d", len(call.Arguments))
	}
}

func TestParseTemplateLiteral(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, "const c = `p-2 ${active ? \"x\" : \"y\"} text-sm ${size}`")

	tpl := findFirst(t, ast, NodeTemplateLiteral)
	if len(tpl.Quasis) != 3 {
		t.Fatalf("Expected 3 static segments, got %d: %q", len(tpl.Quasis), tpl.Quasis)
	}
	if tpl.Text != "p-2   text-sm  " {
		t.Errorf("Unexpected template text %q", tpl.Text)
	}

	subs := findAll(tpl, NodeTemplateSubstitution)
	if len(subs) != 2 {
		t.Errorf("Expected 2 substitutions, got %d", len(subs))
	}
	if subs[0].Argument == nil || subs[0].Argument.Type != NodeConditionalExpression {
		t.Errorf("Expected conditional inside first substitution")
	}
}

func TestParseNoSubstitutionTemplate(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, "const c = `bg-black/80`")

	tpl := findFirst(t, ast, NodeTemplateLiteral)
	if !tpl.IsStringLike() {
		t.Error("Template without substitutions should be string-like")
	}
	if tpl.Text != "bg-black/80" {
		t.Errorf("Unexpected text %q", tpl.Text)
	}
}

func TestParseStringEscapes(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, `const s = "a\tbA\x42\u{1F600}\"q"`)

	str := findFirst(t, ast, NodeStringLiteral)
	if str.Text != "a\tbAB\U0001F600\"q" {
		t.Errorf("Unexpected decoded text %q", str.Text)
	}
}

func TestParseTypeScriptWrappers(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, `const a = ("x" as string)!
const b = <string>"y"
const c = ("z" satisfies string)
`)

	for _, wrapperType := range []NodeType{NodeAsExpression, NodeNonNullExpression, NodeTypeAssertion, NodeParenthesizedExpression} {
		nodes := findAll(ast, wrapperType)
		if len(nodes) == 0 {
			t.Errorf("Expected a %s node", wrapperType)
			continue
		}
		inner := nodes[0].Unwrap()
		if inner.Type != NodeStringLiteral {
			t.Errorf("Unwrap of %s should reach a string, got %s", wrapperType, inner.Type)
		}
	}
}

func TestParseBinaryAndConditional(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, `const k = ok ? "a" + "b" : "c"`)

	cond := findFirst(t, ast, NodeConditionalExpression)
	if cond.Test == nil || cond.Consequent == nil || cond.Alternate == nil {
		t.Fatal("Conditional branches not populated")
	}
	if cond.Consequent.Type != NodeBinaryExpression || cond.Consequent.Operator != "+" {
		t.Errorf("Expected '+' binary expression, got %s %q", cond.Consequent.Type, cond.Consequent.Operator)
	}
	if cond.Alternate.Text != "c" {
		t.Errorf("Expected alternate 'c', got %q", cond.Alternate.Text)
	}
}

func TestParseMemberCallee(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, `utils.cn("a")`)

	call := findFirst(t, ast, NodeCallExpression)
	if call.Callee == nil || call.Callee.Type != NodeMemberExpression {
		t.Fatalf("Expected member callee, got %+v", call.Callee)
	}
	if call.Callee.Name != "cn" {
		t.Errorf("Expected member name 'cn', got '%s'", call.Callee.Name)
	}
}

func TestParseTaggedTemplate(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, "const x = cn`bg-red-500`")

	if len(findAll(ast, NodeCallExpression)) != 0 {
		t.Error("Tagged template must not be a call expression")
	}
	if len(findAll(ast, NodeTaggedTemplate)) != 1 {
		t.Error("Expected one tagged template")
	}
}

func TestParseNumbers(t *testing.T) {
	ast := mustParse(t, domain.DialectTypeScript, `const s = { zIndex: 10, gap: 0x10, big: 10n, f: 1_000 }`)

	pairs := findAll(ast, NodeProperty)
	if len(pairs) != 4 {
		t.Fatalf("Expected 4 properties, got %d", len(pairs))
	}
	if !pairs[0].Value.IsNumericLiteral() {
		t.Error("10 should be numeric")
	}
	if NormalizeNumber(pairs[1].Value.Raw) != "16" {
		t.Errorf("Expected hex to normalize to 16, got %s", NormalizeNumber(pairs[1].Value.Raw))
	}
	if pairs[2].Value.IsNumericLiteral() {
		t.Error("BigInt must not count as a numeric literal")
	}
	if v, ok := NumberValue(pairs[3].Value.Raw); !ok || v != 1000 {
		t.Errorf("Expected 1000, got %v", v)
	}
}

func TestParseUnicodeColumns(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		// two bytes, one UTF-16 unit
		{"latin", "const t = \"é\"; const u = <p className=\"x\" />", 39},
		// four bytes, a surrogate pair
		{"astral", "const t = \"😀\"; const u = <p className=\"x\" />", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast := mustParse(t, domain.DialectTSX, tt.source)

			str := findAll(ast, NodeStringLiteral)
			if len(str) < 2 {
				t.Fatalf("Expected 2 strings, got %d", len(str))
			}
			if str[1].Location.StartCol != tt.want {
				t.Errorf("Expected column %d, got %d", tt.want, str[1].Location.StartCol)
			}
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"10", "10"},
		{"0x10", "16"},
		{"0B101", "5"},
		{"0o17", "15"},
		{"017", "15"},
		{"019", "19"},
		{"1_000", "1000"},
		{"1e1", "10"},
		{"1.50", "1.5"},
		{".5", "0.5"},
		{"5.", "5"},
		{"0.0", "0"},
		{"1e-7", "1e-7"},
		{"0.000001", "0.000001"},
		{"1e21", "1e+21"},
		{"123e20", "1.23e+22"},
		{"1e400", "Infinity"},
		{"10n", "10n"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeNumber(tt.raw); got != tt.want {
				t.Errorf("NormalizeNumber(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseSyntaxErrorStillProducesTree(t *testing.T) {
	ast := mustParse(t, domain.DialectTSX, `import x from "antd"
const a = (
`)

	if !ast.HasError() {
		t.Error("Expected the tree to report a syntax error")
	}
	if ast.FirstError() == nil {
		t.Error("Expected a first error node")
	}
	if len(findAll(ast, NodeImportDeclaration)) != 1 {
		t.Error("Import before the error should still be parsed")
	}
}

func TestParse(t *testing.T) {
	ast, err := Parse(context.Background(), DialectForPath("component.tsx"), "component.tsx", []byte(`const x = <A />`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ast.Type != NodeProgram {
		t.Errorf("Expected Program root, got %s", ast.Type)
	}
	if ast.HasError() {
		t.Error("Expected the TSX grammar to read the JSX element")
	}

	// unknown extensions fall back to TypeScript, where "<T>x" is a type assertion
	ast, err = Parse(context.Background(), DialectForPath("notes.vue"), "notes.vue", []byte("const n = <number>x"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ast.HasError() {
		t.Error("Expected the TypeScript grammar to accept a type assertion")
	}
}

func TestWalkVisitsEachNodeOnce(t *testing.T) {
	ast := mustParse(t, domain.DialectTSX, `const a = <div className={cn("x", ok && "y")} />`)

	seen := map[*Node]int{}
	ast.Walk(func(n *Node) bool {
		seen[n]++
		return true
	})
	for node, count := range seen {
		if count != 1 {
			t.Errorf("Node %s visited %d times", node, count)
		}
	}
}

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`\'q\'`, "'q'"},
		{`\\`, `\`},
		{`\xZZ`, "xZZ"},
		{`é`, "é"},
		{"line\\\ncont", "linecont"},
		{`\$\{`, "${"},
	}

	for _, tt := range tests {
		if got := DecodeEscapes(tt.in); got != tt.want {
			t.Errorf("DecodeEscapes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
