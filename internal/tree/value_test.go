package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAbsentKeyIsNotAnError(t *testing.T) {
	m := Map(Entry{Key: "a", Value: Int(1)})

	_, ok := m.Get("missing")
	assert.False(t, ok)

	_, ok = Int(3).Get("a")
	assert.False(t, ok, "non-map receivers have no keys")
}

func TestSetIsPersistent(t *testing.T) {
	orig := Map(Entry{Key: "a", Value: Int(1)}, Entry{Key: "b", Value: Int(2)})

	updated := orig.Set("a", Int(10)).Set("c", Int(3))

	a, _ := orig.Get("a")
	assert.Equal(t, 1, a.AsInt(0), "original must not change")
	assert.False(t, orig.Has("c"))

	keys := make([]string, 0, 3)
	for _, e := range updated.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys, "replaced keys keep position, new keys append")
	a, _ = updated.Get("a")
	assert.Equal(t, 10, a.AsInt(0))
}

func TestSetOnNonMapStartsEmptyMap(t *testing.T) {
	v := Null().Set("k", String("v"))
	require.True(t, v.IsMap())
	assert.Equal(t, 1, v.Len())
}

func TestRemove(t *testing.T) {
	m := Map(Entry{Key: "a", Value: Int(1)}, Entry{Key: "b", Value: Int(2)})

	removed := m.Remove("a")
	assert.False(t, removed.Has("a"))
	assert.True(t, m.Has("a"))
	assert.True(t, Equal(m, m.Remove("zzz")))
}

func TestUpdateAbsentPassesNull(t *testing.T) {
	var seen Value
	got := EmptyMap().Update("list", func(cur Value) Value {
		seen = cur
		return cur.OrEmptyList().Append(Int(1))
	})

	assert.True(t, seen.IsNull())
	list, ok := got.Get("list")
	require.True(t, ok)
	assert.Equal(t, 1, list.Len())
}

func TestUpdateIfPresentSkipsAbsent(t *testing.T) {
	m := EmptyMap()
	got := m.UpdateIfPresent("x", func(Value) Value { return Int(1) })
	assert.False(t, got.Has("x"))
}

func TestAccessorsFallBackToDefaults(t *testing.T) {
	assert.Equal(t, 7, String("x").AsInt(7))
	assert.Equal(t, "def", Int(1).AsString("def"))
	assert.Equal(t, 5, Byte(5).AsInt(0))
	assert.Equal(t, int64(-2), Short(-2).AsLong(0))
	assert.True(t, Byte(1).AsBool(false))
	assert.Empty(t, String("x").AsLongs())
	assert.Equal(t, []int64{1, 2}, List(Int(1), Long(2)).AsLongs())
	assert.Equal(t, []int64{3, 4}, IntArray([]int32{3, 4}).AsLongs())
}

func TestAsInts(t *testing.T) {
	ints, ok := IntArray([]int32{1, 2, 3}).AsInts()
	require.True(t, ok)
	assert.Equal(t, []int32{1, 2, 3}, ints)

	_, ok = List(String("a")).AsInts()
	assert.False(t, ok)

	_, ok = String("a").AsInts()
	assert.False(t, ok)
}

func TestArraysDoNotAliasCallerSlices(t *testing.T) {
	src := []int64{1, 2, 3}
	v := LongArray(src)
	src[0] = 99

	assert.Equal(t, []int64{1, 2, 3}, v.AsLongs())

	out := v.AsLongs()
	out[1] = 42
	assert.Equal(t, []int64{1, 2, 3}, v.AsLongs())
}

func TestListPrependAppend(t *testing.T) {
	l := List(Int(2))
	got := l.Prepend(Int(1)).Append(Int(3))
	assert.Equal(t, []int64{1, 2, 3}, got.AsLongs())
	assert.Equal(t, 1, l.Len())
}

func TestEqualIgnoresMapOrder(t *testing.T) {
	a := Map(Entry{Key: "x", Value: Int(1)}, Entry{Key: "y", Value: String("s")})
	b := Map(Entry{Key: "y", Value: String("s")}, Entry{Key: "x", Value: Int(1)})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, b.Set("x", Long(1))), "kinds must match")
}

func TestAtWalksNestedMaps(t *testing.T) {
	root := EmptyMap().Set("Level", EmptyMap().Set("Status", String("full")))
	status, ok := root.At("Level", "Status")
	require.True(t, ok)
	assert.Equal(t, "full", status.AsString(""))

	_, ok = root.At("Level", "Missing")
	assert.False(t, ok)
}
