package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// AST node types produced by the builder. Syntax the checker has no rule
// for keeps its tree-sitter kind as type (see buildGenericNode).
const (
	// Program and structure
	NodeProgram NodeType = "Program"
	NodeError   NodeType = "Error"

	// Module system
	NodeImportDeclaration NodeType = "ImportDeclaration"

	// Identifiers
	NodeIdentifier         NodeType = "Identifier"
	NodePropertyIdentifier NodeType = "PropertyIdentifier"

	// Expressions
	NodeCallExpression          NodeType = "CallExpression"
	NodeTaggedTemplate          NodeType = "TaggedTemplateExpression"
	NodeMemberExpression        NodeType = "MemberExpression"
	NodeBinaryExpression        NodeType = "BinaryExpression"
	NodeUnaryExpression         NodeType = "UnaryExpression"
	NodeConditionalExpression   NodeType = "ConditionalExpression"
	NodeParenthesizedExpression NodeType = "ParenthesizedExpression"
	NodeSpreadElement           NodeType = "SpreadElement"
	NodeTemplateLiteral         NodeType = "TemplateLiteral"
	NodeTemplateSubstitution    NodeType = "TemplateSubstitution"

	// Literals
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeNumberLiteral       NodeType = "NumberLiteral"
	NodeArrayExpression     NodeType = "ArrayExpression"
	NodeObjectExpression    NodeType = "ObjectExpression"
	NodeProperty            NodeType = "Property"
	NodeShorthandProperty   NodeType = "ShorthandProperty"
	NodeComputedPropertyKey NodeType = "ComputedPropertyName"

	// TypeScript expression wrappers
	NodeAsExpression        NodeType = "AsExpression"
	NodeSatisfiesExpression NodeType = "SatisfiesExpression"
	NodeNonNullExpression   NodeType = "NonNullExpression"
	NodeTypeAssertion       NodeType = "TypeAssertion"

	// JSX
	NodeJSXElement        NodeType = "JSXElement"
	NodeJSXOpeningElement NodeType = "JSXOpeningElement"
	NodeJSXAttribute      NodeType = "JSXAttribute"
	NodeJSXExpression     NodeType = "JSXExpressionContainer"
	NodeJSXNamespacedName NodeType = "JSXNamespacedName"
)

// Location represents the position of a node in the source code.
// Lines and columns are 1-based; columns count UTF-16 code units, not bytes.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node. Named fields such as Callee or Value point
// at nodes that are also present in Children; Walk follows Children only,
// so every node is visited once.
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name holds identifier text, member property names, JSX tag and attribute names
	Name string

	// Raw is the source text of literals
	Raw string

	// Text is the decoded value of a string literal, or the static text
	// of a template literal with its segments joined by a single space
	Text string

	// Quasis are the decoded static segments of a template literal
	Quasis []string

	// Expression fields
	Operator   string  // Binary/unary operator
	Left       *Node   // Left operand
	Right      *Node   // Right operand
	Argument   *Node   // Operand of unary, parenthesized, wrapper and JSX expression nodes
	Callee     *Node   // Function being called
	Arguments  []*Node // Call arguments
	Object     *Node   // Object in member expression
	Property   *Node   // Property in member expression
	Test       *Node   // Condition of a conditional expression
	Consequent *Node   // Value when the condition holds
	Alternate  *Node   // Value otherwise

	// Property and attribute fields
	Key   *Node // Property key
	Value *Node // Property value or JSX attribute initializer

	// Import fields
	Source *Node // Module specifier

	// JSX fields
	TagName     *Node   // Element tag name
	Attributes  []*Node // Element attributes
	SelfClosing bool    // Element is <X />

	// Missing marks a node tree-sitter inserted during error recovery
	Missing bool
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:     nodeType,
		Children: []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first in source order and calls the visitor
// function for each node. If the visitor returns false, traversal of that
// branch is stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsStringLike returns true for string literals and template literals
// without substitutions
func (n *Node) IsStringLike() bool {
	if n == nil {
		return false
	}
	if n.Type == NodeStringLiteral {
		return true
	}
	return n.Type == NodeTemplateLiteral && len(n.Quasis) == 1
}

// Unwrap strips parentheses and TypeScript-only expression wrappers
// (as, satisfies, non-null assertion, angle-bracket assertion)
func (n *Node) Unwrap() *Node {
	current := n
	for current != nil {
		switch current.Type {
		case NodeParenthesizedExpression, NodeAsExpression, NodeSatisfiesExpression,
			NodeNonNullExpression, NodeTypeAssertion:
			if current.Argument == nil {
				return current
			}
			current = current.Argument
		default:
			return current
		}
	}
	return current
}

// PropertyName returns the static name of a property key: identifier
// text, string value or numeric literal text. Computed keys have none.
func (n *Node) PropertyName() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type {
	case NodeIdentifier, NodePropertyIdentifier, NodeShorthandProperty:
		return n.Name, true
	case NodeStringLiteral:
		return n.Text, true
	case NodeNumberLiteral:
		return NormalizeNumber(n.Raw), true
	}
	return "", false
}

// IsNumericLiteral reports whether the node is a plain numeric literal (not a BigInt)
func (n *Node) IsNumericLiteral() bool {
	return n != nil && n.Type == NodeNumberLiteral && !isBigIntLiteral(n.Raw)
}

// HasError reports whether the tree contains error or missing nodes
func (n *Node) HasError() bool {
	return n.FirstError() != nil
}

// FirstError returns the first error or missing node in source order, or nil
func (n *Node) FirstError() *Node {
	var first *Node
	n.Walk(func(node *Node) bool {
		if first != nil {
			return false
		}
		if node.Type == NodeError || node.Missing {
			first = node
			return false
		}
		return true
	})
	return first
}
