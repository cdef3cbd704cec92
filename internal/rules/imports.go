package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/parser"
)

// LucidePackage is the icon package that must be imported through the
// icon wrappers only
const LucidePackage = "lucide-react"

// DisallowedUILibraries are external component libraries; sub-paths are
// disallowed as well
var DisallowedUILibraries = []string{
	"@mui/material",
	"@chakra-ui/react",
	"antd",
	"react-bootstrap",
	"bootstrap",
	"semantic-ui-react",
	"@mantine/core",
}

// BespokeChatPrimitives are component names an admin chat feature must not
// implement locally
var BespokeChatPrimitives = map[string]bool{
	"MessageBubble":          true,
	"MessageList":            true,
	"ToolProgress":           true,
	"AgentActivityFeed":      true,
	"ItineraryWithReasoning": true,
	"TripDraftPreview":       true,
	"PublishConfirm":         true,
	"ImageGrid":              true,
	"ConversationList":       true,
}

var importExtPattern = regexp.MustCompile(`(?i)\.[a-z]+$`)

// ImportRule checks import declaration sources
var ImportRule = &Rule{
	Name: "imports",
	Doc:  "disallowed packages and local chat primitive imports",
	Reports: []string{
		constants.RuleNoDirectLucideImport,
		constants.RuleForbiddenExternalUILibrary,
		constants.RuleForbiddenBespokeChatPrimitive,
	},
	NodeTypes: []parser.NodeType{parser.NodeImportDeclaration},
	Inspect:   inspectImport,
}

func inspectImport(pass *Pass, node *parser.Node) {
	specifier := node.Source
	if specifier == nil {
		return
	}
	source := specifier.Text

	if source == LucidePackage && !pass.File.IsIconsDirectory {
		pass.Report(specifier, constants.RuleNoDirectLucideImport,
			"Import animated icons from @/components/ui/icons/* instead of lucide-react.")
	}

	if IsDisallowedUILibrary(source) {
		pass.Report(specifier, constants.RuleForbiddenExternalUILibrary,
			fmt.Sprintf("%s is not allowed (use Nadicode primitives from @/components/ui/*).", source))
	}

	if pass.File.ChatScoped() && strings.HasPrefix(source, "./") {
		base := importExtPattern.ReplaceAllString(path.Base(source), "")
		if BespokeChatPrimitives[base] {
			pass.Report(specifier, constants.RuleForbiddenBespokeChatPrimitive,
				fmt.Sprintf("%s (use Nadicode agentic primitives from @/components/ui/*)", source))
		}
	}
}

// IsDisallowedUILibrary reports whether source is, or is a sub-path of, a
// disallowed library
func IsDisallowedUILibrary(source string) bool {
	for _, lib := range DisallowedUILibraries {
		if source == lib || strings.HasPrefix(source, lib+"/") {
			return true
		}
	}
	return false
}
