package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfestag/holoconf/engine"
	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/resolver"
	"github.com/rfestag/holoconf/value"
)

func buildTree(t *testing.T) *value.Value {
	t.Helper()

	root := value.NewMapping("test")

	db := value.NewMapping("test")
	db.Map.Set("host", value.NewString("localhost", "test"))
	db.Map.Set("port", value.NewInt(5432, "test"))
	db.Map.Set("url", value.NewString("postgres://${.host}:${.port}/app", "test"))

	root.Map.Set("database", db)
	root.Map.Set("alias_url", value.NewString("${database.url}", "test"))
	root.Map.Set("missing_with_default", value.NewString("${ref:no.such.path, default=fallback}", "test"))
	root.Map.Set("secret", func() *value.Value {
		v := value.NewString("s3cr3t", "test")
		v.Sensitive = true

		return v
	}())
	root.Map.Set("secret_ref", value.NewString("${secret}", "test"))

	return root
}

func buildCyclicTree(t *testing.T) *value.Value {
	t.Helper()

	root := value.NewMapping("test")
	root.Map.Set("cyclic_a", value.NewString("${cyclic_b}", "test"))
	root.Map.Set("cyclic_b", value.NewString("${cyclic_a}", "test"))

	return root
}

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()

	return engine.New(buildTree(t), resolver.NewDefaultRegistry())
}

func TestEngine_PlainScalarPassthrough(t *testing.T) {
	e := newEngine(t)

	v, err := e.Get(context.Background(), "database.port")
	require.NoError(t, err)
	assert.Equal(t, int64(5432), v.Int)
}

func TestEngine_BarePathSibling(t *testing.T) {
	e := newEngine(t)

	v, err := e.Get(context.Background(), "database.url")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/app", v.Str)
}

func TestEngine_AbsoluteRef(t *testing.T) {
	e := newEngine(t)

	v, err := e.Get(context.Background(), "alias_url")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/app", v.Str)
}

func TestEngine_DefaultAppliedOnNotFound(t *testing.T) {
	e := newEngine(t)

	v, err := e.Get(context.Background(), "missing_with_default")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v.Str)
}

func TestEngine_SensitivityPropagatesThroughRef(t *testing.T) {
	e := newEngine(t)

	v, err := e.Get(context.Background(), "secret_ref")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", v.Str)
	assert.True(t, v.Sensitive)
}

func TestEngine_CircularReference(t *testing.T) {
	e := engine.New(buildCyclicTree(t), resolver.NewDefaultRegistry())

	_, err := e.Get(context.Background(), "cyclic_a")
	require.Error(t, err)

	var cyc *herr.CircularReferenceError
	require.ErrorAs(t, err, &cyc)
}

func TestEngine_CacheHitReturnsSameResolution(t *testing.T) {
	e := newEngine(t)

	v1, err := e.Get(context.Background(), "database.url")
	require.NoError(t, err)

	v2, err := e.Get(context.Background(), "database.url")
	require.NoError(t, err)

	assert.Equal(t, v1.Str, v2.Str)
}

func TestEngine_ClearCacheForcesReResolution(t *testing.T) {
	e := newEngine(t)

	_, err := e.Get(context.Background(), "database.url")
	require.NoError(t, err)

	e.ClearCache()

	v, err := e.Get(context.Background(), "database.url")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/app", v.Str)
}

func TestEngine_ResolveAllWalksWholeTree(t *testing.T) {
	e := newEngine(t)

	resolved, err := e.ResolveAll(context.Background())
	require.NoError(t, err)

	db, ok := resolved.Map.Get("database")
	require.True(t, ok)

	url, ok := db.Map.Get("url")
	require.True(t, ok)
	assert.Equal(t, "postgres://localhost:5432/app", url.Str)

	secret, ok := resolved.Map.Get("secret")
	require.True(t, ok)
	assert.True(t, secret.Sensitive)
}

func TestCanonicalize_TooManyDotsIsError(t *testing.T) {
	_, err := engine.Canonicalize("database.host", "....sibling")
	require.Error(t, err)
}

func TestCanonicalize_Relative(t *testing.T) {
	got, err := engine.Canonicalize("database.connection.host", ".port")
	require.NoError(t, err)
	assert.Equal(t, "database.connection.port", got)
}

func TestCanonicalize_AbsoluteUnchanged(t *testing.T) {
	got, err := engine.Canonicalize("database.host", "other.path")
	require.NoError(t, err)
	assert.Equal(t, "other.path", got)
}
