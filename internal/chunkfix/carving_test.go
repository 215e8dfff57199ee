package chunkfix

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldupgrade/internal/tree"
)

func setBits(words []int64) []uint {
	u := make([]uint64, len(words))
	for i, w := range words {
		u[i] = uint64(w)
	}
	b := bitset.From(u)
	var out []uint
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

func TestRelocateCarvingMask(t *testing.T) {
	out, err := RelocateCarvingMask([]uint64{1 << 5}, 24, 4)
	require.NoError(t, err)
	assert.Len(t, out, 24*64)
	assert.Equal(t, []uint{5 + 4*blocksPerSection}, setBits(out))

	out, err = RelocateCarvingMask([]uint64{1 << 5}, 16, 0)
	require.NoError(t, err)
	assert.Len(t, out, 16*64)
	assert.Equal(t, []uint{5}, setBits(out))
}

func TestRelocateCarvingMaskRejectsOverflow(t *testing.T) {
	legacy := make([]uint64, 24*64)
	legacy[len(legacy)-1] = 1 << 63
	_, err := RelocateCarvingMask(legacy, 24, 4)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestRelocateCarvingMasksFromBytes(t *testing.T) {
	level := tree.Map(tree.Entry{Key: "CarvingMasks", Value: tree.Map(
		tree.Entry{Key: "AIR", Value: tree.ByteArray([]int8{0x20, 0, 0, 0, 0, 0, 0, 0, 1})},
	)})
	out, err := relocateCarvingMasks(level, 24, 4)
	require.NoError(t, err)

	air, _ := out.At("CarvingMasks", "AIR")
	require.Equal(t, tree.KindLongArray, air.Kind())
	assert.Equal(t, []uint{5 + 4*blocksPerSection, 64 + 4*blocksPerSection}, setBits(air.AsLongs()))
}

func TestRelocateCarvingMasksAlwaysWritesMap(t *testing.T) {
	out, err := relocateCarvingMasks(tree.EmptyMap(), 16, 0)
	require.NoError(t, err)
	masks, ok := out.Get("CarvingMasks")
	require.True(t, ok)
	assert.Equal(t, 0, masks.Len())

	_, err = relocateCarvingMasks(tree.Map(tree.Entry{Key: "CarvingMasks", Value: tree.Map(
		tree.Entry{Key: "AIR", Value: tree.String("nope")},
	)}), 16, 0)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestPadTickLists(t *testing.T) {
	legacy := make([]tree.Value, 16)
	for i := range legacy {
		legacy[i] = tree.List(tree.Short(int16(i)))
	}
	full := make([]tree.Value, 24)
	for i := range full {
		full[i] = tree.EmptyList()
	}
	level := tree.Map(
		tree.Entry{Key: "PostProcessing", Value: tree.List(legacy...)},
		tree.Entry{Key: "ToBeTicked", Value: tree.List(full...)},
	)
	out := padTickLists(level)

	pp, _ := out.Get("PostProcessing")
	require.Equal(t, 24, pp.Len())
	for i, item := range pp.Items() {
		switch {
		case i < 4 || i >= 20:
			assert.Equal(t, 0, item.Len(), "padding entry %d", i)
		default:
			assert.True(t, tree.Equal(legacy[i-4], item), "entry %d", i)
		}
	}

	tbt, _ := out.Get("ToBeTicked")
	assert.Equal(t, 24, tbt.Len())

	liquids, ok := out.Get("LiquidsToBeTicked")
	require.True(t, ok)
	assert.Equal(t, 8, liquids.Len())
}

func TestShiftUpgradeIndices(t *testing.T) {
	level := tree.Map(tree.Entry{Key: "UpgradeData", Value: tree.Map(
		tree.Entry{Key: "Sides", Value: tree.Byte(3)},
		tree.Entry{Key: "Indices", Value: tree.Map(
			tree.Entry{Key: "0", Value: tree.IntArray([]int32{1, 2})},
			tree.Entry{Key: "15", Value: tree.IntArray([]int32{3})},
			tree.Entry{Key: "bogus", Value: tree.IntArray([]int32{4})},
		)},
	)})
	out := shiftUpgradeIndices(level, 4)

	indices, _ := out.At("UpgradeData", "Indices")
	var keys []string
	for _, e := range indices.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"4", "19"}, keys)
	four, _ := indices.Get("4")
	got, _ := four.AsInts()
	assert.Equal(t, []int32{1, 2}, got)

	sides, _ := out.At("UpgradeData", "Sides")
	assert.Equal(t, 3, sides.AsInt(0))

	assert.False(t, shiftUpgradeIndices(tree.EmptyMap(), 4).Has("UpgradeData"))
}
