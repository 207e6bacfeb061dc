package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfestag/holoconf/merge"
	"github.com/rfestag/holoconf/value"
)

func mapping(pairs ...any) *value.Value {
	m := value.NewMapping("test")

	for i := 0; i < len(pairs); i += 2 {
		m.Map.Set(pairs[i].(string), pairs[i+1].(*value.Value))
	}

	return m
}

func TestMerge_OverlayScalarReplacesBase(t *testing.T) {
	base := mapping("port", value.NewInt(8080, "base"))
	overlay := mapping("port", value.NewInt(9090, "overlay"))

	out := merge.Merge(base, overlay)

	v, ok := out.Map.Get("port")
	require.True(t, ok)
	assert.Equal(t, int64(9090), v.Int)
}

func TestMerge_NewKeyAppended(t *testing.T) {
	base := mapping("a", value.NewInt(1, "base"))
	overlay := mapping("b", value.NewInt(2, "overlay"))

	out := merge.Merge(base, overlay)

	assert.Equal(t, []string{"a", "b"}, out.Map.Keys())
}

func TestMerge_BasePositionPreservedOnOverwrite(t *testing.T) {
	base := mapping("a", value.NewInt(1, "base"), "b", value.NewInt(2, "base"))
	overlay := mapping("a", value.NewInt(9, "overlay"))

	out := merge.Merge(base, overlay)

	assert.Equal(t, []string{"a", "b"}, out.Map.Keys())

	v, _ := out.Map.Get("a")
	assert.Equal(t, int64(9), v.Int)
}

func TestMerge_NullDeletesKey(t *testing.T) {
	base := mapping("a", value.NewInt(1, "base"), "b", value.NewInt(2, "base"))
	overlay := mapping("a", value.Null("overlay"))

	out := merge.Merge(base, overlay)

	_, ok := out.Map.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, out.Map.Keys())
}

func TestMerge_NestedMappingsRecurse(t *testing.T) {
	base := mapping("db", mapping("host", value.NewString("localhost", "base"), "port", value.NewInt(5432, "base")))
	overlay := mapping("db", mapping("port", value.NewInt(5433, "overlay")))

	out := merge.Merge(base, overlay)

	db, _ := out.Map.Get("db")
	host, _ := db.Map.Get("host")
	port, _ := db.Map.Get("port")

	assert.Equal(t, "localhost", host.Str)
	assert.Equal(t, int64(5433), port.Int)
}

func TestMerge_ArraysReplaceWholesaleNeverConcatenate(t *testing.T) {
	base := mapping("tags", value.NewSequence([]*value.Value{value.NewString("a", "base")}, "base"))
	overlay := mapping("tags", value.NewSequence([]*value.Value{value.NewString("b", "overlay"), value.NewString("c", "overlay")}, "overlay"))

	out := merge.Merge(base, overlay)

	tags, _ := out.Map.Get("tags")
	require.Len(t, tags.Seq, 2)
	assert.Equal(t, "b", tags.Seq[0].Str)
	assert.Equal(t, "c", tags.Seq[1].Str)
}

func TestMerge_ThreeWayFold(t *testing.T) {
	base := mapping("a", value.NewInt(1, "base"))
	mid := mapping("b", value.NewInt(2, "mid"))
	top := mapping("a", value.NewInt(99, "top"))

	out := merge.Merge(base, mid, top)

	assert.Equal(t, []string{"a", "b"}, out.Map.Keys())

	a, _ := out.Map.Get("a")
	assert.Equal(t, int64(99), a.Int)
}

func TestMerge_SingleTreeReturnsClone(t *testing.T) {
	base := mapping("a", value.NewInt(1, "base"))

	out := merge.Merge(base)

	a, _ := out.Map.Get("a")
	assert.Equal(t, int64(1), a.Int)
}

func TestMerge_OriginReflectsMostRecentWrite(t *testing.T) {
	base := mapping("a", value.NewInt(1, "base"))
	overlay := mapping("a", value.NewInt(2, "overlay"))

	out := merge.Merge(base, overlay)
	assert.Equal(t, "overlay", out.Origin)
}
