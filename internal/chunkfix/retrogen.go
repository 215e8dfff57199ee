package chunkfix

import (
	"github.com/bits-and-blooms/bitset"

	"worldupgrade/internal/palette"
	"worldupgrade/internal/tree"
)

const columnsPerSection = 256

// PredictStatus infers how far generation got on a chunk written before the
// surface stage, from the block names found in its sections. Chunks at or
// after surface keep their status.
func PredictStatus(status string, blockNames map[string]struct{}) string {
	cur := statusOf(status)
	if cur.AtLeast(StatusSurface) {
		return status
	}

	hasBlocks := false
	for name := range blockNames {
		if name == blockAir {
			continue
		}
		hasBlocks = true
		if _, ok := blocksBeforeFeatures[name]; !ok {
			return StatusLiquidCarvers.String()
		}
	}
	switch {
	case cur == StatusNoise || hasBlocks:
		return StatusNoise.String()
	case cur == StatusBiomes:
		return StatusStructureReferences.String()
	}
	return status
}

// scanBottomLayer marks the columns of the lowest block layer that hold air
// and reports whether any column holds bedrock. Unreadable positions are
// neither air nor bedrock.
func scanBottomLayer(view *palette.View[string]) (*bitset.BitSet, bool) {
	missing := bitset.New(columnsPerSection)
	bedrock := false
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			i := z<<4 | x
			name, ok := view.At(i)
			if !ok {
				continue
			}
			switch name {
			case blockAir:
				missing.Set(uint(i))
			case blockBedrock:
				bedrock = true
			}
		}
	}
	return missing, bedrock
}

// markRetrogen records blending data and, when the bottom of the old world
// was only partly generated, the state needed to regenerate below zero.
func markRetrogen(level tree.Value, bottom *palette.View[string]) (tree.Value, bool) {
	sv, _ := level.Get("Status")
	status := sv.AsString(StatusEmpty.String())
	cur := statusOf(status)
	if cur == StatusEmpty {
		return level, false
	}
	level = level.Set("blending_data", tree.Map(
		tree.Entry{Key: "old_noise", Value: tree.Bool(cur.AtLeast(StatusNoise))},
	))
	if bottom == nil {
		return level, false
	}

	missing, bedrock := scanBottomLayer(bottom)
	if !bedrock && cur != StatusNoise {
		return level, false
	}
	if n := missing.Count(); n == 0 || n == columnsPerSection {
		return level, false
	}

	target := status
	if cur == StatusFull {
		target = StatusHeightmaps.String()
	}
	words := missing.Words()
	bits := make([]int64, len(words))
	for i, w := range words {
		bits[i] = int64(w)
	}
	level = level.Set("below_zero_retrogen", tree.Map(
		tree.Entry{Key: "target_status", Value: tree.String(target)},
		tree.Entry{Key: "missing_bedrock", Value: tree.LongArray(bits)},
	))
	level = level.Set("Status", tree.String(StatusEmpty.String()))
	return level.Set("isLightOn", tree.Bool(false)), true
}
