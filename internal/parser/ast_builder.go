package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildContainer(tsNode, NodeProgram)
	case "ERROR":
		return b.buildContainer(tsNode, NodeError)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "identifier":
		return b.buildNamed(tsNode, NodeIdentifier)
	case "property_identifier":
		return b.buildNamed(tsNode, NodePropertyIdentifier)
	case "shorthand_property_identifier":
		return b.buildNamed(tsNode, NodeShorthandProperty)
	case "string":
		return b.buildString(tsNode)
	case "template_string":
		return b.buildTemplateString(tsNode)
	case "number":
		return b.buildNumber(tsNode)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "binary_expression":
		return b.buildBinaryExpression(tsNode)
	case "unary_expression":
		return b.buildUnaryExpression(tsNode)
	case "ternary_expression", "conditional_expression":
		return b.buildConditionalExpression(tsNode)
	case "parenthesized_expression":
		return b.buildWrapper(tsNode, NodeParenthesizedExpression, false)
	case "as_expression":
		return b.buildWrapper(tsNode, NodeAsExpression, false)
	case "satisfies_expression":
		return b.buildWrapper(tsNode, NodeSatisfiesExpression, false)
	case "non_null_expression":
		return b.buildWrapper(tsNode, NodeNonNullExpression, false)
	case "type_assertion":
		// <T>expr: the operand follows the type arguments
		return b.buildWrapper(tsNode, NodeTypeAssertion, true)
	case "spread_element":
		return b.buildWrapper(tsNode, NodeSpreadElement, false)
	case "template_substitution":
		return b.buildWrapper(tsNode, NodeTemplateSubstitution, false)
	case "array":
		return b.buildContainer(tsNode, NodeArrayExpression)
	case "object":
		return b.buildContainer(tsNode, NodeObjectExpression)
	case "pair":
		return b.buildPair(tsNode)
	case "computed_property_name":
		return b.buildWrapper(tsNode, NodeComputedPropertyKey, false)
	case "jsx_element":
		return b.buildContainer(tsNode, NodeJSXElement)
	case "jsx_opening_element", "jsx_self_closing_element":
		return b.buildJSXOpeningElement(tsNode)
	case "jsx_attribute":
		return b.buildJSXAttribute(tsNode)
	case "jsx_expression":
		return b.buildWrapper(tsNode, NodeJSXExpression, false)
	case "jsx_namespace_name":
		return b.buildNamed(tsNode, NodeJSXNamespacedName)
	default:
		// For unknown nodes, create a generic node and process children
		return b.buildGenericNode(tsNode)
	}
}

// buildChildren builds the named children of tsNode into node and returns
// the first built child for each field name
func (b *ASTBuilder) buildChildren(tsNode *sitter.Node, node *Node) map[string]*Node {
	fields := map[string]*Node{}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if !child.IsNamed() && !child.IsMissing() {
			continue
		}

		childNode := b.buildNode(child)
		if childNode == nil {
			continue
		}
		node.AddChild(childNode)

		if name := tsNode.FieldNameForChild(i); name != "" {
			if _, ok := fields[name]; !ok {
				fields[name] = childNode
			}
		}
	}

	return fields
}

// buildContainer builds a node whose only structure is its children
func (b *ASTBuilder) buildContainer(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(tsNode, nodeType)
	b.buildChildren(tsNode, node)
	return node
}

// buildGenericNode keeps the tree-sitter kind as node type
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	return b.buildContainer(tsNode, NodeType(tsNode.Type()))
}

// buildNamed builds a leaf carrying its source text as name
func (b *ASTBuilder) buildNamed(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(tsNode, nodeType)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildImportStatement builds an import statement node
func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeImportDeclaration)
	fields := b.buildChildren(tsNode, node)

	// import x = require("y") has no source field
	if source := fields["source"]; source != nil && source.Type == NodeStringLiteral {
		node.Source = source
	}

	return node
}

// buildString builds a string literal. Text is the cooked value.
func (b *ASTBuilder) buildString(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeStringLiteral)
	node.Raw = tsNode.Content(b.source)
	node.Text = DecodeEscapes(stripQuotes(node.Raw))
	return node
}

// buildTemplateString builds a template literal. Static segments are read
// from the byte ranges between substitutions.
func (b *ASTBuilder) buildTemplateString(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeTemplateLiteral)
	node.Raw = tsNode.Content(b.source)

	start := int(tsNode.StartByte())
	end := int(tsNode.EndByte())
	if start < end && b.source[start] == '`' {
		start++
	}
	if end-1 >= start && end > 0 && b.source[end-1] == '`' {
		end--
	}

	pos := start
	quasis := []string{}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || child.Type() != "template_substitution" {
			continue
		}
		subStart := int(child.StartByte())
		if subStart >= pos {
			quasis = append(quasis, DecodeEscapes(string(b.source[pos:subStart])))
		}
		pos = int(child.EndByte())

		if sub := b.buildNode(child); sub != nil {
			node.AddChild(sub)
		}
	}
	if end >= pos {
		quasis = append(quasis, DecodeEscapes(string(b.source[pos:end])))
	} else {
		quasis = append(quasis, "")
	}

	node.Quasis = quasis
	node.Text = strings.Join(quasis, " ")
	return node
}

// buildNumber builds a numeric literal
func (b *ASTBuilder) buildNumber(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeNumberLiteral)
	node.Raw = tsNode.Content(b.source)
	return node
}

// buildCallExpression builds a call expression node. A template in
// argument position makes it a tagged template instead.
func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeCallExpression)
	fields := b.buildChildren(tsNode, node)

	node.Callee = fields["function"]

	args := fields["arguments"]
	if args != nil && args.Type == NodeTemplateLiteral {
		node.Type = NodeTaggedTemplate
		return node
	}

	if args != nil {
		node.Arguments = append(node.Arguments, args.Children...)
	}

	return node
}

// buildMemberExpression builds a member expression node
func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeMemberExpression)
	fields := b.buildChildren(tsNode, node)

	node.Object = fields["object"]
	node.Property = fields["property"]
	if node.Property != nil && node.Property.Type == NodePropertyIdentifier {
		node.Name = node.Property.Name
	}

	return node
}

// buildBinaryExpression builds a binary expression node
func (b *ASTBuilder) buildBinaryExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeBinaryExpression)
	fields := b.buildChildren(tsNode, node)

	node.Left = fields["left"]
	node.Right = fields["right"]
	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = op.Type()
	}

	return node
}

// buildUnaryExpression builds a unary expression node
func (b *ASTBuilder) buildUnaryExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeUnaryExpression)
	fields := b.buildChildren(tsNode, node)

	node.Argument = fields["argument"]
	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = op.Type()
	}

	return node
}

// buildConditionalExpression builds a conditional (ternary) expression node
func (b *ASTBuilder) buildConditionalExpression(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeConditionalExpression)
	fields := b.buildChildren(tsNode, node)

	node.Test = fields["condition"]
	node.Consequent = fields["consequence"]
	node.Alternate = fields["alternative"]

	return node
}

// buildWrapper builds a node with a single operand. The operand is the
// first built child, or the last one when fromEnd is set.
func (b *ASTBuilder) buildWrapper(tsNode *sitter.Node, nodeType NodeType, fromEnd bool) *Node {
	node := b.newNode(tsNode, nodeType)
	b.buildChildren(tsNode, node)

	if len(node.Children) > 0 {
		if fromEnd {
			node.Argument = node.Children[len(node.Children)-1]
		} else {
			node.Argument = node.Children[0]
		}
	}

	return node
}

// buildPair builds an object property node
func (b *ASTBuilder) buildPair(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeProperty)
	fields := b.buildChildren(tsNode, node)

	node.Key = fields["key"]
	node.Value = fields["value"]
	if name, ok := node.Key.PropertyName(); ok {
		node.Name = name
	}

	return node
}

// buildJSXOpeningElement builds an opening or self-closing JSX element
func (b *ASTBuilder) buildJSXOpeningElement(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeJSXOpeningElement)
	node.SelfClosing = tsNode.Type() == "jsx_self_closing_element"
	fields := b.buildChildren(tsNode, node)

	// Fragments (<>) have no name
	node.TagName = fields["name"]
	if node.TagName != nil && node.TagName.Type == NodeIdentifier {
		node.Name = node.TagName.Name
	}

	for _, child := range node.Children {
		if child.Type == NodeJSXAttribute {
			node.Attributes = append(node.Attributes, child)
		}
	}

	return node
}

// buildJSXAttribute builds a JSX attribute. Key is the attribute name and
// Value the optional initializer.
func (b *ASTBuilder) buildJSXAttribute(tsNode *sitter.Node) *Node {
	node := b.newNode(tsNode, NodeJSXAttribute)
	b.buildChildren(tsNode, node)

	if len(node.Children) > 0 {
		node.Key = node.Children[0]
		if node.Key.Type == NodePropertyIdentifier || node.Key.Type == NodeIdentifier {
			node.Name = node.Key.Name
		}
	}
	if len(node.Children) > 1 {
		node.Value = node.Children[1]
		// JSX attribute strings are not escape-processed
		if node.Value.Type == NodeStringLiteral {
			node.Value.Text = stripQuotes(node.Value.Raw)
		}
	}

	return node
}

// Helper methods

// newNode creates a node of nodeType located at tsNode
func (b *ASTBuilder) newNode(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	node.Missing = tsNode.IsMissing()
	return node
}

// getLocation extracts location information from a tree-sitter node.
// Tree-sitter columns are byte offsets; they are converted to 1-based
// columns counted in UTF-16 code units, as editors and tsc report them.
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()
	return Location{
		File:      b.filename,
		StartLine: int(start.Row) + 1,
		StartCol:  b.column(int(tsNode.StartByte()), int(start.Column)),
		EndLine:   int(end.Row) + 1,
		EndCol:    b.column(int(tsNode.EndByte()), int(end.Column)),
	}
}

// column converts a byte column into a 1-based UTF-16 column. Characters
// outside the Basic Multilingual Plane count twice.
func (b *ASTBuilder) column(offset, byteColumn int) int {
	lineStart := offset - byteColumn
	if lineStart < 0 || offset > len(b.source) || lineStart > offset {
		return byteColumn + 1
	}
	units := 0
	for _, r := range string(b.source[lineStart:offset]) {
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return units + 1
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// isTrivia checks if a node is trivia (whitespace, comments, etc.)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "html_comment" ||
		nodeType == ""
}

// stripQuotes removes the delimiting quotes of a string literal's source text
func stripQuotes(raw string) string {
	if raw == "" {
		return raw
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' {
		return raw
	}
	inner := raw[1:]
	if len(inner) > 0 && inner[len(inner)-1] == quote {
		inner = inner[:len(inner)-1]
	}
	return inner
}
