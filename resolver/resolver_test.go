package resolver_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/resolver"
	"github.com/rfestag/holoconf/value"
)

func TestEnv_Found(t *testing.T) {
	t.Setenv("HOLOCONF_TEST_VAR", "hello")

	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{Positional: []*value.Value{value.NewString("HOLOCONF_TEST_VAR", "x")}}

	v, err := resolver.Env(context.Background(), rc, args)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Str)
}

func TestEnv_MissingReturnsNotFound(t *testing.T) {
	os.Unsetenv("HOLOCONF_TEST_VAR_UNSET")

	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{Positional: []*value.Value{value.NewString("HOLOCONF_TEST_VAR_UNSET", "x")}}

	v, err := resolver.Env(context.Background(), rc, args)
	require.Error(t, err)
	assert.Nil(t, v)

	var nf *herr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSplit_Basic(t *testing.T) {
	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{Positional: []*value.Value{value.NewString("a, b, c", "x")}}

	v, err := resolver.Split(context.Background(), rc, args)
	require.NoError(t, err)
	require.Equal(t, value.KindSequence, v.Kind)
	require.Len(t, v.Seq, 3)
	assert.Equal(t, "a", v.Seq[0].Str)
	assert.Equal(t, "b", v.Seq[1].Str)
	assert.Equal(t, "c", v.Seq[2].Str)
}

func TestSplit_EmptyInput(t *testing.T) {
	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{Positional: []*value.Value{value.NewString("", "x")}}

	v, err := resolver.Split(context.Background(), rc, args)
	require.NoError(t, err)
	assert.Equal(t, value.KindSequence, v.Kind)
	assert.Empty(t, v.Seq)
}

func TestSplit_SkipEmpty(t *testing.T) {
	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{
		Positional: []*value.Value{value.NewString("a,,b", "x")},
		Keyword:    map[string]*value.Value{"skip_empty": value.NewBool(true, "x")},
	}

	v, err := resolver.Split(context.Background(), rc, args)
	require.NoError(t, err)
	require.Len(t, v.Seq, 2)
}

func TestJSON_ParsesObject(t *testing.T) {
	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{Positional: []*value.Value{value.NewString(`{"a": 1, "b": [2, 3]}`, "x")}}

	v, err := resolver.JSON(context.Background(), rc, args)
	require.NoError(t, err)
	require.Equal(t, value.KindMapping, v.Kind)

	a, ok := v.Map.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Int)
}

func TestYAML_ParsesObject(t *testing.T) {
	rc := &resolver.Context{Path: "x"}
	args := resolver.Args{Positional: []*value.Value{value.NewString("a: 1\nb: two\n", "x")}}

	v, err := resolver.YAML(context.Background(), rc, args)
	require.NoError(t, err)
	require.Equal(t, value.KindMapping, v.Kind)

	b, ok := v.Map.Get("b")
	require.True(t, ok)
	assert.Equal(t, "two", b.Str)
}

type stubEngine struct {
	value *value.Value
	err   error
}

func (s *stubEngine) Resolve(_ context.Context, _, _ string) (*value.Value, error) {
	return s.value, s.err
}

func TestRef_DelegatesToEngine(t *testing.T) {
	rc := &resolver.Context{
		Path:   "database.host",
		Engine: &stubEngine{value: value.NewString("10.0.0.1", "other")},
	}
	args := resolver.Args{Positional: []*value.Value{value.NewString("database.host", "database.host")}}

	v, err := resolver.Ref(context.Background(), rc, args)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", v.Str)
}

func TestRegistry_DefaultsRegistered(t *testing.T) {
	reg := resolver.NewDefaultRegistry()

	for _, name := range []string{"env", "ref", "file", "http", "https", "json", "yaml", "split"} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "expected %q to be registered", name)
	}
}

func TestRegistry_RegisterOverride(t *testing.T) {
	reg := resolver.NewRegistry()

	called := false
	reg.Register("custom", resolver.ResolverFunc(func(_ context.Context, _ *resolver.Context, _ resolver.Args) (*value.Value, error) {
		called = true

		return value.NewString("ok", "x"), nil
	}))

	res, ok := reg.Lookup("custom")
	require.True(t, ok)

	_, err := res.Resolve(context.Background(), &resolver.Context{}, resolver.Args{})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRegistry_Clone(t *testing.T) {
	reg := resolver.NewDefaultRegistry()
	clone := reg.Clone()

	clone.Register("only-in-clone", resolver.ResolverFunc(func(_ context.Context, _ *resolver.Context, _ resolver.Args) (*value.Value, error) {
		return nil, nil
	}))

	_, ok := reg.Lookup("only-in-clone")
	assert.False(t, ok)

	_, ok = clone.Lookup("only-in-clone")
	assert.True(t, ok)
}
