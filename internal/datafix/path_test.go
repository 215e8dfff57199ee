package datafix

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldupgrade/internal/tree"
)

func sampleChunk() tree.Value {
	section := func(y int32, names ...string) tree.Value {
		pal := make([]tree.Value, 0, len(names))
		for _, n := range names {
			pal = append(pal, tree.Map(tree.Entry{Key: "Name", Value: tree.String(n)}))
		}
		return tree.Map(
			tree.Entry{Key: "Y", Value: tree.Byte(int8(y))},
			tree.Entry{Key: "Palette", Value: tree.List(pal...)},
		)
	}
	return tree.Map(tree.Entry{Key: "Level", Value: tree.Map(
		tree.Entry{Key: "Sections", Value: tree.List(
			section(0, "minecraft:air", "minecraft:grass_path"),
			section(1, "minecraft:stone"),
		)},
	)})
}

func TestParsePath(t *testing.T) {
	assert.Nil(t, ParsePath(""))
	p := ParsePath("Level.Sections.*.Palette")
	assert.Equal(t, Path{"Level", "Sections", "*", "Palette"}, p)
	assert.Equal(t, "Level.Sections.*.Palette", p.String())
}

func TestLocate(t *testing.T) {
	rec := sampleChunk()

	names := Locate(rec, ParsePath("Level.Sections.*.Palette.*.Name"))
	require.Len(t, names, 3)
	assert.Equal(t, "minecraft:air", names[0].AsString(""))
	assert.Equal(t, "minecraft:grass_path", names[1].AsString(""))
	assert.Equal(t, "minecraft:stone", names[2].AsString(""))

	assert.Empty(t, Locate(rec, ParsePath("Level.Missing.*")))
	assert.Len(t, Locate(rec, nil), 1)
}

func TestRewriteWildcard(t *testing.T) {
	rec := sampleChunk()
	out, err := Rewrite(rec, ParsePath("Level.Sections.*"), func(v tree.Value) (tree.Value, error) {
		return v.Set("touched", tree.Bool(true)), nil
	})
	require.NoError(t, err)

	for _, s := range Locate(out, ParsePath("Level.Sections.*")) {
		assert.True(t, s.Has("touched"))
	}
	for _, s := range Locate(rec, ParsePath("Level.Sections.*")) {
		assert.False(t, s.Has("touched"), "input must stay untouched")
	}
}

func TestRewriteMissingKeyIsNoop(t *testing.T) {
	rec := sampleChunk()
	called := false
	out, err := Rewrite(rec, ParsePath("Level.Entities.*"), func(v tree.Value) (tree.Value, error) {
		called = true
		return v, nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.True(t, tree.Equal(rec, out))
}

func TestRewriteErrorCarriesPath(t *testing.T) {
	boom := errors.New("boom")
	_, err := Rewrite(sampleChunk(), ParsePath("Level.Sections.*.Palette"), func(v tree.Value) (tree.Value, error) {
		return v, boom
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "Level: Sections: [0]: Palette: boom")
}
