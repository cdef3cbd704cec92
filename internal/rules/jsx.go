package rules

import (
	"regexp"

	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

// RequiredChatPrimitives maps each required category to the components
// that satisfy it
var RequiredChatPrimitives = map[string][]string{
	constants.ChatCategoryConversation: {"ConversationThread", "AgentMessageBubble"},
	constants.ChatCategoryTooling:      {"ToolCallCard", "ThinkingIndicator"},
	constants.ChatCategoryTraceability: {"SourceCitation", "AgentTimeline", "WorkflowGraph", "HandoffIndicator"},
}

// ChatCategoryMessages are the details of the cross-file issue per category
var ChatCategoryMessages = map[string]string{
	constants.ChatCategoryConversation: "Admin chat feature must use ConversationThread or AgentMessageBubble.",
	constants.ChatCategoryTooling:      "Admin chat feature must use ToolCallCard or ThinkingIndicator.",
	constants.ChatCategoryTraceability: "Admin chat feature must use SourceCitation, AgentTimeline, WorkflowGraph, or HandoffIndicator.",
}

const (
	sidebarMenu       = "SidebarMenu"
	sidebarGroupLabel = "SidebarGroupLabel"
)

var adminShellPattern = regexp.MustCompile(`(?:^|/)AdminShell\.tsx$`)

// ChatPrimitiveRule records which required chat categories an admin chat
// feature file renders
var ChatPrimitiveRule = &Rule{
	Name:      "chat-primitives",
	Doc:       "record required agentic chat primitives rendered by admin chat files",
	Reports:   []string{constants.RuleMissingAgenticChatPrimitives},
	NodeTypes: []parser.NodeType{parser.NodeJSXOpeningElement},
	Inspect: func(pass *Pass, node *parser.Node) {
		if node.Name == "" || !pass.File.ChatScoped() {
			return
		}
		for _, category := range constants.ChatCategories {
			for _, component := range RequiredChatPrimitives[category] {
				if node.Name == component {
					pass.ChatPrimitives[category] = true
				}
			}
		}
	},
}

// AdminNavRule requires the admin shell to label its sidebar groups
var AdminNavRule = &Rule{
	Name:      "admin-nav",
	Doc:       "admin shell sidebar menu must render a group label",
	Reports:   []string{constants.RuleAdminNavMissingGroupLabel},
	NodeTypes: []parser.NodeType{parser.NodeJSXOpeningElement},
	Inspect: func(pass *Pass, node *parser.Node) {
		switch node.Name {
		case sidebarMenu, sidebarGroupLabel:
			pass.Mark(node.Name)
		}
	},
	Finish: func(pass *Pass) {
		if !pass.File.AdminScoped() || !adminShellPattern.MatchString(pass.File.RelPath) {
			return
		}
		if pass.Marked(sidebarMenu) && !pass.Marked(sidebarGroupLabel) {
			pass.ReportAt(1, 1, constants.RuleAdminNavMissingGroupLabel,
				"Admin sidebar navigation must include SidebarGroupLabel for clear IA grouping.")
		}
	},
}

// AttributeRule checks JSX attributes: pixelTheme, className/class and style
var AttributeRule = &Rule{
	Name: "jsx-attributes",
	Doc:  "class attributes, inline style objects and admin-only props",
	Reports: []string{
		constants.RuleAdminCardPixelTheme,
		constants.RuleForbiddenToken,
		constants.RuleRawTailwindPalette,
		constants.RuleAdminArbitraryTextSize,
		constants.RuleForbiddenChatClassUsage,
		constants.RuleAdminFontPixelDisallowed,
		constants.RuleHardcodedInlineColor,
		constants.RuleHardcodedInlineShadow,
		constants.RuleHardcodedInlineSpacing,
		constants.RuleHardcodedInlineDuration,
		constants.RuleHardcodedInlineZIndex,
	},
	NodeTypes: []parser.NodeType{parser.NodeJSXAttribute},
	Inspect:   inspectAttribute,
}

func inspectAttribute(pass *Pass, node *parser.Node) {
	name := node.Name
	if name == "" {
		return
	}

	if name == "pixelTheme" && pass.File.AdminScoped() {
		pass.Report(node.Key, constants.RuleAdminCardPixelTheme,
			"pixelTheme prop is not allowed in admin UI.")
	}

	value := node.Value
	if value == nil {
		return
	}

	switch name {
	case "className", "class":
		inspectClassAttribute(pass, value)
	case "style":
		if value.Type == parser.NodeJSXExpression {
			InspectStyleObject(pass, value.Argument)
		}
	}
}

// inspectClassAttribute scans a class attribute initializer. A helper
// call is left to ClassHelperRule, which sees it later in the walk.
func inspectClassAttribute(pass *Pass, value *parser.Node) {
	if value.IsStringLike() {
		InspectClassTokens(pass, value, []string{value.Text})
		return
	}

	if value.Type != parser.NodeJSXExpression || value.Argument == nil {
		return
	}

	expr := value.Argument.Unwrap()
	if IsClassHelperCall(expr, pass.Options.ClassHelpers) {
		return
	}
	InspectClassTokens(pass, expr, CollectClassStrings(expr, nil))
}
