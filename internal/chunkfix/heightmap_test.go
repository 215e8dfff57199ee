package chunkfix

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"worldupgrade/internal/tree"
)

func fields(vals ...uint64) int64 {
	var w uint64
	for i, v := range vals {
		w |= v << (9 * i)
	}
	return int64(w)
}

func TestShiftHeightmapFields(t *testing.T) {
	in := []int64{0, fields(450, 100, 0, 511, 1, 447, 448)}
	want := []int64{0, fields(511, 164, 0, 511, 65, 511, 511)}
	if diff := cmp.Diff(want, ShiftHeightmap(in)); diff != "" {
		t.Fatalf("shifted heightmap mismatch (-want +got):\n%s", diff)
	}
}

func TestShiftHeightmapClearsTopBit(t *testing.T) {
	in := []int64{math.MinInt64}
	assert.Equal(t, []int64{0}, ShiftHeightmap(in))

	in = []int64{fields(100, 0, 20) | math.MinInt64}
	assert.Equal(t, []int64{fields(164, 0, 84)}, ShiftHeightmap(in))
	assert.Empty(t, ShiftHeightmap(nil))
}

func TestShiftHeightmapsOnlyKnownPresentTypes(t *testing.T) {
	level := tree.Map(tree.Entry{Key: "Heightmaps", Value: tree.Map(
		tree.Entry{Key: "WORLD_SURFACE", Value: tree.LongArray([]int64{fields(100)})},
		tree.Entry{Key: "CUSTOM", Value: tree.LongArray([]int64{fields(100)})},
	)})
	out := shiftHeightmaps(level)

	ws, _ := out.At("Heightmaps", "WORLD_SURFACE")
	assert.Equal(t, []int64{fields(164)}, ws.AsLongs())
	custom, _ := out.At("Heightmaps", "CUSTOM")
	assert.Equal(t, []int64{fields(100)}, custom.AsLongs())
	assert.False(t, out.Has("OCEAN_FLOOR"))

	assert.False(t, shiftHeightmaps(tree.EmptyMap()).Has("Heightmaps"))
}
