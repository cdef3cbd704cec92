package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/allowlist"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/internal/rules"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(config.DefaultConfig().Rules)
	root := "/repo"

	tests := []struct {
		path    string
		rel     string
		test    bool
		admin   bool
		chat    bool
		icons   bool
		dialect domain.Dialect
	}{
		{"/repo/components/Button.tsx", "components/Button.tsx", false, false, false, false, domain.DialectTSX},
		{"/repo/components/admin/Table.tsx", "components/admin/Table.tsx", false, true, false, false, domain.DialectTSX},
		{"/repo/src/components/admin/chat/Thread.tsx", "src/components/admin/chat/Thread.tsx", false, true, true, false, domain.DialectTSX},
		{"/repo/app/admin/(chat)/chat/page.tsx", "app/admin/(chat)/chat/page.tsx", false, true, true, false, domain.DialectTSX},
		{"/repo/app/admin/__tests__/page.tsx", "app/admin/__tests__/page.tsx", true, true, false, false, domain.DialectTSX},
		{"/repo/src/lib/format.Test.TS", "src/lib/format.Test.TS", true, false, false, false, domain.DialectTypeScript},
		{"/repo/src/lib/spec.ts", "src/lib/spec.ts", false, false, false, false, domain.DialectTypeScript},
		{"/repo/src/components/ui/icons/check.jsx", "src/components/ui/icons/check.jsx", false, false, false, true, domain.DialectJavaScript},
		{"/repo/src/utils/config.cjs", "src/utils/config.cjs", false, false, false, false, domain.DialectJavaScript},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			f := c.Classify(root, tt.path)
			assert.Equal(t, tt.rel, f.RelPath)
			assert.Equal(t, tt.test, f.IsTest, "IsTest")
			assert.Equal(t, tt.admin, f.IsAdminUI, "IsAdminUI")
			assert.Equal(t, tt.chat, f.IsAdminChatFeature, "IsAdminChatFeature")
			assert.Equal(t, tt.icons, f.IsIconsDirectory, "IsIconsDirectory")
			assert.Equal(t, tt.dialect, f.Dialect)
		})
	}
}

func TestClassifier_CustomMarkers(t *testing.T) {
	cfg := config.DefaultConfig().Rules
	cfg.AdminMarkers = []string{"backoffice/"}

	f := NewClassifier(cfg).Classify("/repo", "/repo/src/backoffice/Users.tsx")
	assert.True(t, f.IsAdminUI)
}

func TestAnalyzer_AnalyzeFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "components/admin/Panel.tsx", `import { Box } from "@chakra-ui/react"

export function Panel() {
  return <div className="text-[12px] bg-gray-100" style={{ padding: 12 }} />
}
`)

	a := NewAnalyzer(root, config.DefaultConfig(), nil, nil)
	report, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "components/admin/Panel.tsx", report.File.RelPath)
	assert.False(t, report.HasSyntaxError)

	var got []string
	for _, issue := range report.Issues {
		got = append(got, issue.Rule)
	}
	assert.Equal(t, []string{
		constants.RuleForbiddenExternalUILibrary,
		constants.RuleRawTailwindPalette,
		constants.RuleAdminArbitraryTextSize,
		constants.RuleHardcodedInlineSpacing,
	}, got)
}

func TestAnalyzer_MissingFile(t *testing.T) {
	a := NewAnalyzer(t.TempDir(), nil, nil, nil)

	_, err := a.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "nope.tsx"))
	require.Error(t, err)

	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeFileNotFound, domainErr.Code)
}

func TestAnalyzer_SyntaxErrorIsNotFatal(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "src/Broken.tsx", "export const A = (\n<div className=\"bg-red-500\" />")

	report, err := NewAnalyzer(root, nil, nil, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, report.HasSyntaxError)
}

func analyzeAll(t *testing.T, a *Analyzer, paths []string) *Aggregator {
	t.Helper()
	agg := NewAggregator(a.Allowlist(), a.Options())
	for _, path := range paths {
		report, err := a.AnalyzeFile(context.Background(), path)
		require.NoError(t, err)
		agg.Add(report)
	}
	return agg
}

func TestAggregator_ChatScenario(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, root, "components/admin/chat/Composer.tsx",
		`export const Composer = () => <form><textarea /></form>`)
	second := writeFile(t, root, "components/admin/chat/Panel.tsx",
		`export const Panel = () => <section><Composer /></section>`)

	a := NewAnalyzer(root, nil, nil, nil)
	result := analyzeAll(t, a, []string{first, second}).Result()

	require.Len(t, result.Issues, 3)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.ExitCode)

	wantDetails := []string{
		rules.ChatCategoryMessages[constants.ChatCategoryConversation],
		rules.ChatCategoryMessages[constants.ChatCategoryTooling],
		rules.ChatCategoryMessages[constants.ChatCategoryTraceability],
	}
	for i, issue := range result.Issues {
		assert.Equal(t, constants.RuleMissingAgenticChatPrimitives, issue.Rule)
		assert.Equal(t, "components/admin/chat/Composer.tsx", issue.File)
		assert.Equal(t, 1, issue.Line)
		assert.Equal(t, 1, issue.Column)
		assert.Equal(t, wantDetails[i], issue.Detail)
	}

	assert.Equal(t, 2, result.Summary.FilesScanned)
	assert.Equal(t, 2, result.Summary.AdminChatFiles)
	assert.Equal(t, 1, result.Summary.FilesWithIssues)
}

func TestAggregator_PartialCoverage(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, root, "app/admin/chat/page.tsx",
		`export default () => <ConversationThread />`)
	second := writeFile(t, root, "app/admin/chat/tools.tsx",
		`export const Tools = () => <><ToolCallCard /><AgentTimeline /></>`)

	result := analyzeAll(t, NewAnalyzer(root, nil, nil, nil), []string{first, second}).Result()
	assert.True(t, result.Passed)
	assert.Empty(t, result.Issues)
}

func TestAggregator_TestFilesDoNotCount(t *testing.T) {
	root := t.TempDir()
	test := writeFile(t, root, "components/admin/chat/__tests__/Panel.test.tsx",
		`export const P = () => <div />`)

	agg := analyzeAll(t, NewAnalyzer(root, nil, nil, nil), []string{test})
	assert.Empty(t, agg.State().AdminChatFiles)
	assert.True(t, agg.Result().Passed)
}

func TestAggregator_CrossFileAllowlisted(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "components/admin/chat/Panel.tsx", `export const P = () => <div />`)

	allow, err := allowlist.New([]allowlist.Entry{{
		Pattern: "components/admin/chat/**",
		Rules:   []string{constants.RuleMissingAgenticChatPrimitives},
	}})
	require.NoError(t, err)

	result := analyzeAll(t, NewAnalyzer(root, nil, allow, nil), []string{file}).Result()
	assert.True(t, result.Passed)
	assert.Equal(t, 1, result.Summary.AllowlistPatterns)
}

func TestAggregator_Empty(t *testing.T) {
	result := NewAggregator(allowlist.Empty(), nil).Result()

	assert.True(t, result.Passed)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, 0, result.Summary.FilesScanned)
	assert.NotNil(t, result.Issues)
}

func TestAggregator_Idempotent(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		writeFile(t, root, "components/admin/chat/A.tsx", `import { X } from "./MessageList"
export const A = () => <div className="text-muted-foreground" />`),
		writeFile(t, root, "components/B.tsx", `export const B = () => <p style={{ color: "#000" }} />`),
	}

	a := NewAnalyzer(root, nil, nil, nil)
	first := analyzeAll(t, a, paths).Result()
	second := analyzeAll(t, a, paths).Result()
	assert.Equal(t, first.Issues, second.Issues)
}

func TestLineScanner(t *testing.T) {
	content := `import { X } from "lucide-react"
<p className="text-foreground bg-red-500 text-blue-700" />
  <div className="text-foreground" />`

	s := NewLineScanner(config.DefaultConfig().Rules)
	issues := s.ScanContent("/repo/src/A.mdx", "src/A.mdx", content)

	require.Len(t, issues, 5)
	assert.Equal(t, domain.LineIssue{
		File: "src/A.mdx", Line: 1,
		Rule:   constants.RuleNoDirectLucideImport,
		Detail: `import { X } from "lucide-react"`,
	}, issues[0])
	assert.Equal(t, constants.RuleForbiddenToken, issues[1].Rule)
	assert.Equal(t, 2, issues[1].Line)
	assert.Equal(t, constants.RuleForbiddenToken, issues[2].Rule)
	assert.Equal(t, 3, issues[2].Line)
	assert.Equal(t, "bg-red-500 (use semantic token classes)", issues[3].Detail)
	assert.Equal(t, "text-blue-700 (use semantic token classes)", issues[4].Detail)
}

func TestLineScanner_IconsDirectory(t *testing.T) {
	s := NewLineScanner(config.DefaultConfig().Rules)
	issues := s.ScanContent("/repo/components/ui/icons/check.tsx", "components/ui/icons/check.tsx",
		`export { Check } from 'lucide-react'`)
	assert.Empty(t, issues)
}

func TestSummarizeLine(t *testing.T) {
	got := summarizeLine("   " + strings.Repeat("é", 200) + "  ")
	assert.Equal(t, 140, len([]rune(got)))
	assert.Equal(t, "x", summarizeLine("\tx\r"))
}
