package config

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

const configHeader = `# ds-ast-check configuration
# Every key is optional; omitted keys keep their defaults.
# Environment variables override file values, e.g.
#   DS_AST_CHECK_PERFORMANCE_MAX_WORKERS=4
#   DS_AST_CHECK_ANALYSIS_SCAN_ROOTS=src,app
`

// GetConfigTemplate renders cfg as a commented YAML config file
func GetConfigTemplate(cfg *Config) (string, error) {
	var b strings.Builder
	b.WriteString(configHeader)
	b.WriteString("\n")

	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// AllowlistTemplate is the document written by init
type AllowlistTemplate struct {
	RulesByPattern []AllowlistTemplateEntry `json:"rulesByPattern"`
}

// AllowlistTemplateEntry is one pattern with the rules it suppresses
type AllowlistTemplateEntry struct {
	Pattern string   `json:"pattern"`
	Rules   []string `json:"rules"`
}

// GetAllowlistTemplate returns a starter allowlist. Test files are exempt
// from palette checks so fixtures can use raw colours.
func GetAllowlistTemplate() string {
	doc := AllowlistTemplate{
		RulesByPattern: []AllowlistTemplateEntry{
			{
				Pattern: "**/__tests__/**",
				Rules:   []string{"raw-tailwind-palette", "forbidden-token"},
			},
		},
	}
	data, _ := json.MarshalIndent(doc, "", "  ")
	return string(data) + "\n"
}
