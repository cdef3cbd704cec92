package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

// ForbiddenLiteral is a class substring with the replacement to use instead
type ForbiddenLiteral struct {
	Literal string
	Message string
}

// ForbiddenLiterals are reported wherever they occur in class text
var ForbiddenLiterals = []ForbiddenLiteral{
	{Literal: "text-foreground", Message: "Use text-text-primary or text-text-secondary."},
	{Literal: "text-muted-foreground", Message: "Use text-text-secondary or text-text-tertiary."},
	{Literal: "border-error", Message: "Use border-destructive."},
	{Literal: "bg-black/80", Message: "Use bg-overlay/80."},
}

var (
	rawPalettePattern = regexp.MustCompile(
		`\b(?:bg|text|border|ring|stroke|fill)-` +
			`(?:slate|gray|zinc|neutral|stone|red|orange|amber|yellow|lime|green|emerald|teal|cyan|sky|blue|indigo|violet|purple|fuchsia|pink|rose)-` +
			`(?:50|100|200|300|400|500|600|700|800|900|950)\b`)
	arbitraryTextSizePattern = regexp.MustCompile(`\btext-\[(?:\d+(?:\.\d+)?)(?:px|rem|em|%)\]`)
	fontPixelPattern         = regexp.MustCompile(`\bfont-pixel(?:-[a-z0-9-]+)?\b`)
	chatClassPattern         = regexp.MustCompile(`\bchat-[a-z0-9-]+\b`)
)

// RawPaletteMatches returns every raw palette class in text
func RawPaletteMatches(text string) []string {
	return rawPalettePattern.FindAllString(text, -1)
}

// ClassHelperRule scans the arguments of class helper calls such as cn(...)
var ClassHelperRule = &Rule{
	Name: "class-helpers",
	Doc:  "scan class strings passed to class helper calls",
	Reports: []string{
		constants.RuleForbiddenToken,
		constants.RuleRawTailwindPalette,
		constants.RuleAdminArbitraryTextSize,
		constants.RuleForbiddenChatClassUsage,
		constants.RuleAdminFontPixelDisallowed,
	},
	NodeTypes: []parser.NodeType{parser.NodeCallExpression},
	Inspect: func(pass *Pass, node *parser.Node) {
		if !IsClassHelperCall(node, pass.Options.ClassHelpers) {
			return
		}
		var tokens []string
		for _, arg := range node.Arguments {
			tokens = CollectClassStrings(arg, tokens)
		}
		InspectClassTokens(pass, node, tokens)
	},
}

// IsClassHelperCall reports whether node calls one of helpers, either
// directly, as the last member of a property access, or through a string
func IsClassHelperCall(node *parser.Node, helpers map[string]bool) bool {
	if node == nil || node.Type != parser.NodeCallExpression || node.Callee == nil {
		return false
	}
	name, ok := calleeName(node.Callee)
	return ok && helpers[name]
}

func calleeName(callee *parser.Node) (string, bool) {
	switch {
	case callee.Type == parser.NodeIdentifier:
		return callee.Name, true
	case callee.IsStringLike():
		return callee.Text, true
	case callee.Type == parser.NodeMemberExpression && callee.Name != "":
		return callee.Name, true
	}
	return "", false
}

// CollectClassStrings appends the static text fragments expr can produce
// to acc. Template substitutions are dropped and unknown shapes
// contribute nothing.
func CollectClassStrings(expr *parser.Node, acc []string) []string {
	node := expr.Unwrap()
	if node == nil {
		return acc
	}

	switch {
	case node.IsStringLike():
		return append(acc, node.Text)

	case node.Type == parser.NodeTemplateLiteral:
		if node.Text != "" {
			acc = append(acc, node.Text)
		}
		return acc

	case node.Type == parser.NodeConditionalExpression:
		acc = CollectClassStrings(node.Consequent, acc)
		return CollectClassStrings(node.Alternate, acc)

	case node.Type == parser.NodeBinaryExpression:
		if node.Operator == "+" {
			acc = CollectClassStrings(node.Left, acc)
			acc = CollectClassStrings(node.Right, acc)
		}
		return acc

	case node.Type == parser.NodeArrayExpression:
		for _, element := range node.Children {
			acc = CollectClassStrings(element, acc)
		}
		return acc

	case node.Type == parser.NodeObjectExpression:
		for _, prop := range node.Children {
			switch prop.Type {
			case parser.NodeProperty:
				if key, ok := prop.Key.PropertyName(); ok && key != "" {
					acc = append(acc, key)
				}
			case parser.NodeShorthandProperty:
				acc = append(acc, prop.Name)
			}
		}
		return acc

	case node.Type == parser.NodeCallExpression:
		for _, arg := range node.Arguments {
			acc = CollectClassStrings(arg, acc)
		}
		return acc
	}

	return acc
}

// InspectClassTokens runs the class-text checks over each fragment and
// reports every hit at node
func InspectClassTokens(pass *Pass, node *parser.Node, tokens []string) {
	admin := pass.File.AdminScoped()

	for _, text := range tokens {
		for _, rule := range ForbiddenLiterals {
			if strings.Contains(text, rule.Literal) {
				pass.Report(node, constants.RuleForbiddenToken,
					fmt.Sprintf("%s (%s)", rule.Literal, rule.Message))
			}
		}

		for _, match := range rawPalettePattern.FindAllString(text, -1) {
			pass.Report(node, constants.RuleRawTailwindPalette,
				fmt.Sprintf("%s (use semantic token classes)", match))
		}

		if !admin {
			continue
		}

		for _, match := range arbitraryTextSizePattern.FindAllString(text, -1) {
			pass.Report(node, constants.RuleAdminArbitraryTextSize,
				fmt.Sprintf("%s (use Typography variants or standard text-* scale)", match))
		}

		for _, match := range chatClassPattern.FindAllString(text, -1) {
			pass.Report(node, constants.RuleForbiddenChatClassUsage,
				fmt.Sprintf("%s (chat-* utility classes are not allowed in admin UI)", match))
		}

		for _, match := range fontPixelPattern.FindAllString(text, -1) {
			pass.Report(node, constants.RuleAdminFontPixelDisallowed,
				fmt.Sprintf("%s (admin UI typography must use Satoshi/semantic Typography)", match))
		}
	}
}
