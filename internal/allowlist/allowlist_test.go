package allowlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dsastcheck/domain"
)

func TestCompilePattern_Semantics(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"a/*.tsx", "a/b.tsx", true},
		{"a/*.tsx", "a/b/c.tsx", false},
		{"a/**/b.tsx", "a/b.tsx", true},
		{"a/**/b.tsx", "a/x/b.tsx", true},
		{"a/**/b.tsx", "a/x/y/b.tsx", true},
		{"a/**/b.tsx", "a/x/c.tsx", false},
		{"src/**", "src/a/b/c.ts", true},
		{"src/**", "lib/a.ts", false},
		{"**/__tests__/**", "src/ui/__tests__/Button.test.tsx", true},
		{"**/__tests__/**", "__tests__/x.ts", true},
		{"src/?.ts", "src/a.ts", true},
		{"src/?.ts", "src/ab.ts", false},
		{"src/?.ts", "src//.ts", false},
		{"app/admin/(chat)/chat/*.tsx", "app/admin/(chat)/chat/Page.tsx", true},
		{"components/a.b.tsx", "components/aXb.tsx", false},
		{"components/Button.tsx", "src/components/Button.tsx", false},
		{`src\ui\*.tsx`, "src/ui/Card.tsx", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.path, func(t *testing.T) {
			re, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.MatchString(tt.path))
		})
	}
}

func TestParse_DropsMalformedEntries(t *testing.T) {
	data := []byte(`{
  "rulesByPattern": [
    { "pattern": "src/a.tsx", "rules": ["forbidden-token", 42, null, "*"] },
    { "pattern": 7, "rules": ["forbidden-token"] },
    { "pattern": "src/b.tsx" },
    { "pattern": "src/c.tsx", "rules": "forbidden-token" },
    { "pattern": null, "rules": [] },
    "not-an-object",
    null,
    { "pattern": "src/d.tsx", "rules": [] }
  ]
}`)

	entries, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "src/a.tsx", entries[0].Pattern)
	assert.Equal(t, []string{"forbidden-token", "*"}, entries[0].Rules)
	assert.Equal(t, "src/d.tsx", entries[1].Pattern)
	assert.Empty(t, entries[1].Rules)
}

func TestParse_RejectsBadShape(t *testing.T) {
	tests := map[string]string{
		"invalid json":          `{"rulesByPattern": [`,
		"array top level":       `[]`,
		"null top level":        `null`,
		"missing key":           `{"rules": []}`,
		"rulesByPattern object": `{"rulesByPattern": {}}`,
		"rulesByPattern null":   `{"rulesByPattern": null}`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	root := t.TempDir()

	a, err := Load(filepath.Join(root, "scripts", "ds-ast-allowlist.json"), root)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
	assert.False(t, a.IsAllowed("forbidden-token", "src/a.tsx"))
}

func TestLoad_InvalidJSONIsAllowlistError(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "scripts", "ds-ast-allowlist.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path, root)
	require.Error(t, err)

	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeAllowlist, domainErr.Code)
	assert.Equal(t, "invalid allowlist JSON at scripts/ds-ast-allowlist.json", domainErr.Message)
	assert.NotNil(t, domainErr.Cause)
}

func TestIsAllowed_RuleAndWildcard(t *testing.T) {
	a, err := New([]Entry{
		{Pattern: "src/legacy/**", Rules: []string{"raw-tailwind-palette"}},
		{Pattern: "src/vendor/*.tsx", Rules: []string{"*"}},
	})
	require.NoError(t, err)

	assert.True(t, a.IsAllowed("raw-tailwind-palette", "src/legacy/old/Card.tsx"))
	assert.False(t, a.IsAllowed("forbidden-token", "src/legacy/old/Card.tsx"))
	assert.True(t, a.IsAllowed("forbidden-token", "src/vendor/Grid.tsx"))
	assert.True(t, a.IsAllowed("missing-agentic-chat-primitives", `src\vendor\Grid.tsx`))
	assert.False(t, a.IsAllowed("forbidden-token", "src/vendor/deep/Grid.tsx"))
	assert.Equal(t, 2, a.Len())
}

func TestIsAllowed_RoundTrip(t *testing.T) {
	const rule, file = "hardcoded-inline-color", "components/Badge.tsx"

	with, err := New([]Entry{{Pattern: "components/*.tsx", Rules: []string{rule}}})
	require.NoError(t, err)
	assert.True(t, with.IsAllowed(rule, file))

	without, err := New(nil)
	require.NoError(t, err)
	assert.False(t, without.IsAllowed(rule, file))
}

func TestNilAllowlist(t *testing.T) {
	var a *Allowlist
	assert.False(t, a.IsAllowed("forbidden-token", "x.tsx"))
	assert.Equal(t, 0, a.Len())
}

func TestRelativePath(t *testing.T) {
	root := filepath.Join("repo", "app")
	assert.Equal(t, "scripts/allow.json", RelativePath(root, filepath.Join(root, "scripts", "allow.json")))
}
