package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfestag/holoconf/template"
)

func TestParse_PlainLiteral(t *testing.T) {
	tmpl, err := template.Parse("just text, no interpolation")
	require.NoError(t, err)

	lit, ok := tmpl.Literal()
	assert.True(t, ok)
	assert.Equal(t, "just text, no interpolation", lit)
}

func TestParse_EmptyString(t *testing.T) {
	tmpl, err := template.Parse("")
	require.NoError(t, err)

	lit, ok := tmpl.Literal()
	assert.True(t, ok)
	assert.Equal(t, "", lit)
}

func TestParse_BarePath(t *testing.T) {
	tmpl, err := template.Parse("${database.host}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.Equal(t, "ref", call.Resolver)
	require.Len(t, call.Positional, 1)

	path, ok := call.Positional[0].Literal()
	require.True(t, ok)
	assert.Equal(t, "database.host", path)
}

func TestParse_BarePathRelative(t *testing.T) {
	tmpl, err := template.Parse("${..sibling.port}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)

	path, _ := call.Positional[0].Literal()
	assert.Equal(t, "..sibling.port", path)
}

func TestParse_BarePathWithIndex(t *testing.T) {
	tmpl, err := template.Parse("${servers[0].host}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)

	path, _ := call.Positional[0].Literal()
	assert.Equal(t, "servers[0].host", path)
}

func TestParse_BarePathWithKeyword(t *testing.T) {
	tmpl, err := template.Parse("${database.host, default=localhost}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.True(t, call.HasDefault)
	require.Contains(t, call.Keyword, "default")

	def, _ := call.Keyword["default"].Literal()
	assert.Equal(t, "localhost", def)
}

func TestParse_BarePathRejectsPositionalAfterComma(t *testing.T) {
	_, err := template.Parse("${database.host, extra}")
	require.Error(t, err)
}

func TestParse_ResolverCallNoArgs(t *testing.T) {
	tmpl, err := template.Parse("${env:HOME}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.Equal(t, "env", call.Resolver)

	require.Len(t, call.Positional, 1)

	arg, _ := call.Positional[0].Literal()
	assert.Equal(t, "HOME", arg)
}

func TestParse_ResolverCallKeywordArgs(t *testing.T) {
	tmpl, err := template.Parse("${env:PORT, default=8080}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.Equal(t, []string{"default"}, call.KeywordOrder)
	assert.True(t, call.HasDefault)
}

func TestParse_ResolverCallMultipleKeywordArgs(t *testing.T) {
	tmpl, err := template.Parse("${file:secrets.yaml, parse=yaml, sensitive=true}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.Equal(t, []string{"parse", "sensitive"}, call.KeywordOrder)

	parse, _ := call.Keyword["parse"].Literal()
	assert.Equal(t, "yaml", parse)

	sensitive, _ := call.Keyword["sensitive"].Literal()
	assert.Equal(t, "true", sensitive)
}

func TestParse_NestedCallInArgument(t *testing.T) {
	tmpl, err := template.Parse("${file:${env:CONFIG_DIR}/app.yaml}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.Equal(t, "file", call.Resolver)
	require.Len(t, call.Positional, 1)

	inner := call.Positional[0]
	require.Len(t, inner, 2)
	assert.True(t, inner[0].IsCall)
	assert.Equal(t, "env", inner[0].Call.Resolver)
	assert.False(t, inner[1].IsCall)
	assert.Equal(t, "/app.yaml", inner[1].Literal)
}

func TestParse_PositionalAfterKeywordIsError(t *testing.T) {
	_, err := template.Parse("${split:a;b, sep=;, 2}")
	require.Error(t, err)

	var pe *template.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParse_WhitespaceAroundKeywordNameIsError(t *testing.T) {
	_, err := template.Parse("${env:PORT, default =8080}")
	require.Error(t, err)
}

func TestParse_EmptyInterpolationIsError(t *testing.T) {
	_, err := template.Parse("${}")
	require.Error(t, err)
}

func TestParse_UnmatchedOpenBraceIsError(t *testing.T) {
	_, err := template.Parse("${env:HOME")
	require.Error(t, err)
}

func TestParse_EscapedDollarBrace(t *testing.T) {
	tmpl, err := template.Parse(`\${not an interpolation}`)
	require.NoError(t, err)

	lit, ok := tmpl.Literal()
	require.True(t, ok)
	assert.Equal(t, "${not an interpolation}", lit)
}

func TestParse_EscapedBackslash(t *testing.T) {
	tmpl, err := template.Parse(`C:\\path`)
	require.NoError(t, err)

	lit, ok := tmpl.Literal()
	require.True(t, ok)
	assert.Equal(t, `C:\path`, lit)
}

func TestParse_LiteralPrefixAndSuffixAroundCall(t *testing.T) {
	tmpl, err := template.Parse("postgres://${env:PGHOST}:5432/db")
	require.NoError(t, err)

	require.Len(t, tmpl, 3)
	assert.False(t, tmpl[0].IsCall)
	assert.Equal(t, "postgres://", tmpl[0].Literal)
	assert.True(t, tmpl[1].IsCall)
	assert.Equal(t, "env", tmpl[1].Call.Resolver)
	assert.False(t, tmpl[2].IsCall)
	assert.Equal(t, ":5432/db", tmpl[2].Literal)
}

func TestParse_DuplicateKeywordOverwritesKeepingFirstOrderSlot(t *testing.T) {
	tmpl, err := template.Parse("${env:PORT, default=1, default=2}")
	require.NoError(t, err)

	call, ok := tmpl.SingleCall()
	require.True(t, ok)
	assert.Equal(t, []string{"default"}, call.KeywordOrder)

	def, _ := call.Keyword["default"].Literal()
	assert.Equal(t, "2", def)
}

func TestParse_InvalidPathExpression(t *testing.T) {
	_, err := template.Parse("${123}")
	require.Error(t, err)
}
