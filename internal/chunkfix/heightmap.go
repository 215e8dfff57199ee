package chunkfix

import (
	"github.com/Tnze/go-mc/level"

	"worldupgrade/internal/tree"
)

// HeightmapTypes are the heightmap kinds stored under Level.Heightmaps.
var HeightmapTypes = []string{
	"WORLD_SURFACE_WG",
	"WORLD_SURFACE",
	"WORLD_SURFACE_IGNORE_SNOW",
	"OCEAN_FLOOR_WG",
	"OCEAN_FLOOR",
	"MOTION_BLOCKING",
	"MOTION_BLOCKING_NO_LEAVES",
}

const (
	heightBits     = 9
	heightMask     = 1<<heightBits - 1
	heightOffset   = 64
	// heightsPerWord is how many 9-bit fields fit in one long.
	heightsPerWord = 64 / heightBits
)

// ShiftHeightmap raises every recorded height by 64 blocks. Each word holds
// seven 9-bit fields; zero means no height was recorded and stays zero.
// Results saturate at 511 and the unused top bit is cleared.
func ShiftHeightmap(words []int64) []int64 {
	if len(words) == 0 {
		return []int64{}
	}
	raw := make([]uint64, len(words))
	for i, w := range words {
		raw[i] = uint64(w)
	}
	n := len(words) * heightsPerWord
	src := level.NewBitStorage(heightBits, n, raw)
	dst := level.NewBitStorage(heightBits, n, nil)
	for i := 0; i < n; i++ {
		if v := src.Get(i); v != 0 {
			dst.Set(i, min(v+heightOffset, heightMask))
		}
	}

	out := make([]int64, len(words))
	for i, w := range dst.Raw() {
		out[i] = int64(w)
	}
	return out
}

func shiftHeightmaps(level tree.Value) tree.Value {
	return level.UpdateIfPresent("Heightmaps", func(maps tree.Value) tree.Value {
		for _, kind := range HeightmapTypes {
			maps = maps.UpdateIfPresent(kind, func(v tree.Value) tree.Value {
				return tree.LongArray(ShiftHeightmap(v.AsLongs()))
			})
		}
		return maps
	})
}
