package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

func stringSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Style properties grouped by the token family they must use
var (
	ColorStyleProps = stringSet(
		"color", "background", "backgroundColor", "borderColor", "fill",
		"stroke", "outlineColor", "caretColor", "accentColor",
	)

	ShadowStyleProps = stringSet("boxShadow", "textShadow", "filter", "backdropFilter")

	SpacingStyleProps = stringSet(
		"margin", "marginTop", "marginRight", "marginBottom", "marginLeft",
		"marginInline", "marginInlineStart", "marginInlineEnd",
		"marginBlock", "marginBlockStart", "marginBlockEnd",
		"padding", "paddingTop", "paddingRight", "paddingBottom", "paddingLeft",
		"paddingInline", "paddingInlineStart", "paddingInlineEnd",
		"paddingBlock", "paddingBlockStart", "paddingBlockEnd",
		"gap", "rowGap", "columnGap", "borderRadius",
	)

	DurationStyleProps = stringSet(
		"transitionDuration", "transitionDelay", "animationDuration", "animationDelay",
	)

	ZIndexStyleProps = stringSet("zIndex")
)

var (
	hardcodedColorPattern = regexp.MustCompile(`(?i)#[0-9a-f]{3,8}\b|rgba?\(\s*\d|hsla?\(\s*\d`)
	spacingValuePattern   = regexp.MustCompile(`(?i)^-?\d+(?:\.\d+)?px$`)
	durationValuePattern  = regexp.MustCompile(`(?i)^-?\d+(?:\.\d+)?(?:ms|s)$`)
	numericValuePattern   = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// InspectStyleObject checks the properties of an inline style object.
// Both arms of a conditional are inspected; any other shape is ignored.
func InspectStyleObject(pass *Pass, expr *parser.Node) {
	node := expr.Unwrap()
	if node == nil {
		return
	}

	if node.Type == parser.NodeConditionalExpression {
		InspectStyleObject(pass, node.Consequent)
		InspectStyleObject(pass, node.Alternate)
		return
	}

	if node.Type != parser.NodeObjectExpression {
		return
	}

	for _, prop := range node.Children {
		if prop.Type != parser.NodeProperty || prop.Value == nil {
			continue
		}
		name, ok := prop.Key.PropertyName()
		if !ok || name == "" {
			continue
		}
		inspectStyleProperty(pass, name, prop.Value)
	}
}

// inspectStyleProperty reports at the initializer as written
func inspectStyleProperty(pass *Pass, name string, initializer *parser.Node) {
	value := initializer.Unwrap()
	if value == nil {
		return
	}
	text := styleStaticText(value)

	if ColorStyleProps[name] && text != "" && isHardcodedColor(text) {
		pass.Report(initializer, constants.RuleHardcodedInlineColor,
			fmt.Sprintf("%s: %s (use semantic tokens or CSS vars)", name, text))
	}

	if ShadowStyleProps[name] && text != "" && isHardcodedColor(text) {
		pass.Report(initializer, constants.RuleHardcodedInlineShadow,
			fmt.Sprintf("%s: %s (use semantic tokens/CSS vars for shadow color)", name, text))
	}

	if SpacingStyleProps[name] {
		if value.IsNumericLiteral() {
			pass.Report(initializer, constants.RuleHardcodedInlineSpacing,
				fmt.Sprintf("%s: %s (use design-system spacing tokens/classes)", name, parser.NormalizeNumber(value.Raw)))
			return
		}
		if text != "" && spacingValuePattern.MatchString(text) {
			pass.Report(initializer, constants.RuleHardcodedInlineSpacing,
				fmt.Sprintf("%s: %s (use design-system spacing tokens/classes)", name, text))
		}
	}

	if DurationStyleProps[name] {
		if value.IsNumericLiteral() {
			if n, ok := parser.NumberValue(value.Raw); ok && n > 0 {
				pass.Report(initializer, constants.RuleHardcodedInlineDuration,
					fmt.Sprintf("%s: %s (use motion tokens/classes)", name, parser.NormalizeNumber(value.Raw)))
			}
			return
		}
		if text != "" && durationValuePattern.MatchString(text) {
			pass.Report(initializer, constants.RuleHardcodedInlineDuration,
				fmt.Sprintf("%s: %s (use motion tokens/classes)", name, text))
		}
	}

	if ZIndexStyleProps[name] {
		if value.IsNumericLiteral() {
			if n, ok := parser.NumberValue(value.Raw); ok && n > 0 {
				pass.Report(initializer, constants.RuleHardcodedInlineZIndex,
					fmt.Sprintf("%s: %s (use z-* utility scale)", name, parser.NormalizeNumber(value.Raw)))
			}
			return
		}
		if text != "" && numericValuePattern.MatchString(text) {
			if n, err := strconv.ParseFloat(text, 64); err == nil && n > 0 {
				pass.Report(initializer, constants.RuleHardcodedInlineZIndex,
					fmt.Sprintf("%s: %s (use z-* utility scale)", name, text))
			}
		}
	}
}

// styleStaticText returns the text of a string or template value
func styleStaticText(value *parser.Node) string {
	if value.Type == parser.NodeStringLiteral || value.Type == parser.NodeTemplateLiteral {
		return value.Text
	}
	return ""
}

func isHardcodedColor(text string) bool {
	if !hardcodedColorPattern.MatchString(text) {
		return false
	}
	return !strings.Contains(text, "var(--")
}
