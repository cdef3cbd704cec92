package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "ds-ast-check"

	// ReportPrefix prefixes every report line of the AST check
	ReportPrefix = "ds:ast-check"

	// LinesReportPrefix prefixes every report line of the line-oriented check
	LinesReportPrefix = "ds:check"

	// ConfigFileName is the default config file name
	ConfigFileName = ".ds-ast-check.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "DS_AST_CHECK"

	// DefaultAllowlistPath is the allowlist location relative to the root
	DefaultAllowlistPath = "scripts/ds-ast-allowlist.json"
)

// Rule identifiers. These are part of the public contract: allowlist
// entries and CI tooling match on them.
const (
	RuleForbiddenToken                = "forbidden-token"
	RuleRawTailwindPalette            = "raw-tailwind-palette"
	RuleAdminArbitraryTextSize        = "admin-arbitrary-text-size"
	RuleForbiddenChatClassUsage       = "forbidden-chat-class-usage"
	RuleAdminFontPixelDisallowed      = "admin-font-pixel-disallowed"
	RuleForbiddenExternalUILibrary    = "forbidden-external-ui-library"
	RuleNoDirectLucideImport          = "no-direct-lucide-import"
	RuleForbiddenBespokeChatPrimitive = "forbidden-bespoke-chat-primitive"
	RuleAdminCardPixelTheme           = "admin-card-pixel-theme"
	RuleHardcodedInlineColor          = "hardcoded-inline-color"
	RuleHardcodedInlineShadow         = "hardcoded-inline-shadow"
	RuleHardcodedInlineSpacing        = "hardcoded-inline-spacing"
	RuleHardcodedInlineDuration       = "hardcoded-inline-duration"
	RuleHardcodedInlineZIndex         = "hardcoded-inline-zindex"
	RuleAdminNavMissingGroupLabel     = "admin-nav-missing-group-label"
	RuleMissingAgenticChatPrimitives  = "missing-agentic-chat-primitives"
	RuleParseError                    = "parse-error"

	// RuleWildcard in an allowlist entry suppresses every rule
	RuleWildcard = "*"
)

// Required agentic chat primitive categories, in report order
const (
	ChatCategoryConversation = "conversation"
	ChatCategoryTooling      = "tooling"
	ChatCategoryTraceability = "traceability"
)

// ChatCategories lists the categories in the order cross-file issues are emitted
var ChatCategories = []string{
	ChatCategoryConversation,
	ChatCategoryTooling,
	ChatCategoryTraceability,
}

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)
