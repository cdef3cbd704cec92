package rules

import "github.com/ludo-technologies/dsastcheck/internal/constants"

// Scope names where a rule id applies
const (
	ScopeAll       = "all files"
	ScopeAdmin     = "admin UI, non-test"
	ScopeAdminChat = "admin chat feature, non-test"
	ScopeNonIcons  = "outside the icons directory"
	ScopeRun       = "whole run"
)

// Info describes a rule id
type Info struct {
	ID          string `json:"id" yaml:"id"`
	Scope       string `json:"scope" yaml:"scope"`
	Description string `json:"description" yaml:"description"`
}

// Catalog lists every rule id the checker can emit
var Catalog = []Info{
	{constants.RuleForbiddenToken, ScopeAll, "deprecated class literal in class text (text-foreground, text-muted-foreground, border-error, bg-black/80)"},
	{constants.RuleRawTailwindPalette, ScopeAll, "raw palette utility such as bg-red-500 instead of a semantic token class"},
	{constants.RuleAdminArbitraryTextSize, ScopeAdmin, "arbitrary text size such as text-[13px]"},
	{constants.RuleForbiddenChatClassUsage, ScopeAdmin, "chat-* utility class"},
	{constants.RuleAdminFontPixelDisallowed, ScopeAdmin, "font-pixel typography class"},
	{constants.RuleForbiddenExternalUILibrary, ScopeAll, "import from an external component library (@mui/material, antd, ...)"},
	{constants.RuleNoDirectLucideImport, ScopeNonIcons, "direct lucide-react import instead of the icon wrappers"},
	{constants.RuleForbiddenBespokeChatPrimitive, ScopeAdminChat, "relative import of a locally built chat primitive"},
	{constants.RuleAdminCardPixelTheme, ScopeAdmin, "pixelTheme prop"},
	{constants.RuleHardcodedInlineColor, ScopeAll, "hex/rgb/hsl colour in an inline style"},
	{constants.RuleHardcodedInlineShadow, ScopeAll, "hex/rgb/hsl colour in an inline shadow or filter"},
	{constants.RuleHardcodedInlineSpacing, ScopeAll, "numeric or px spacing in an inline style"},
	{constants.RuleHardcodedInlineDuration, ScopeAll, "positive numeric or ms/s duration in an inline style"},
	{constants.RuleHardcodedInlineZIndex, ScopeAll, "positive numeric zIndex in an inline style"},
	{constants.RuleAdminNavMissingGroupLabel, ScopeAdmin, "AdminShell.tsx renders SidebarMenu without SidebarGroupLabel"},
	{constants.RuleMissingAgenticChatPrimitives, ScopeRun, "admin chat feature renders no primitive of a required category"},
	{constants.RuleParseError, ScopeAll, "file has syntax errors (only with rules.report_parse_errors)"},
}

// Known reports whether id names a rule in the catalog
func Known(id string) bool {
	for _, info := range Catalog {
		if info.ID == id {
			return true
		}
	}
	return false
}
