package chunkfix

import (
	"strconv"

	"github.com/bits-and-blooms/bitset"

	"worldupgrade/internal/tree"
)

const wordsPerSection = blocksPerSection / 64

// TickListKeys name the per-section side tables padded with empty lists.
var TickListKeys = []string{"LiquidsToBeTicked", "PostProcessing", "ToBeTicked"}

// RelocateCarvingMask copies a legacy carving mask into a mask covering
// sections sections, with the legacy words starting offsetSections sections
// up. Masks that would not fit are rejected rather than truncated.
func RelocateCarvingMask(legacy []uint64, sections, offsetSections int) ([]int64, error) {
	size := uint(sections * blocksPerSection)
	shift := uint(offsetSections * blocksPerSection)
	src := bitset.From(legacy)
	dst := bitset.New(size)
	for i, ok := src.NextSet(0); ok; i, ok = src.NextSet(i + 1) {
		if i+shift >= size {
			return nil, malformed("carving mask bit %d beyond %d sections", i, sections)
		}
		dst.Set(i + shift)
	}

	words := dst.Words()
	out := make([]int64, sections*wordsPerSection)
	for i := range out {
		if i < len(words) {
			out[i] = int64(words[i])
		}
	}
	return out, nil
}

// maskWords reads a stored carving mask. Byte arrays are little-endian
// serialized bitsets; long arrays are taken word for word.
func maskWords(v tree.Value) ([]uint64, bool) {
	switch v.Kind() {
	case tree.KindByteArray:
		raw := v.AsBytes()
		words := make([]uint64, (len(raw)+7)/8)
		for i, b := range raw {
			words[i/8] |= uint64(uint8(b)) << (8 * (i % 8))
		}
		return words, true
	case tree.KindLongArray, tree.KindIntArray:
		longs := v.AsLongs()
		words := make([]uint64, len(longs))
		for i, n := range longs {
			words[i] = uint64(n)
		}
		return words, true
	}
	return nil, false
}

// relocateCarvingMasks rewrites every entry of CarvingMasks. The map is
// written even when the chunk had none.
func relocateCarvingMasks(level tree.Value, sections, offsetSections int) (tree.Value, error) {
	raw, _ := level.Get("CarvingMasks")
	masks := raw.OrEmptyMap()
	for _, e := range masks.Entries() {
		words, ok := maskWords(e.Value)
		if !ok {
			return level, malformed("CarvingMasks.%s is %s, want byte or long array", e.Key, e.Value.Kind())
		}
		relocated, err := RelocateCarvingMask(words, sections, offsetSections)
		if err != nil {
			return level, err
		}
		masks = masks.Set(e.Key, tree.LongArray(relocated))
	}
	return level.Set("CarvingMasks", masks), nil
}

// padTickLists grows each 16-entry side table to 24 entries by adding four
// empty lists below and above. Absent tables start out empty.
func padTickLists(level tree.Value) tree.Value {
	for _, key := range TickListKeys {
		level = level.Update(key, func(v tree.Value) tree.Value {
			list := v.OrEmptyList()
			if list.Len() == 24 {
				return list
			}
			pad := []tree.Value{tree.EmptyList(), tree.EmptyList(), tree.EmptyList(), tree.EmptyList()}
			return list.Prepend(pad...).Append(pad...)
		})
	}
	return level
}

// shiftUpgradeIndices moves UpgradeData.Indices keys up by sections. Keys
// that are not integers are dropped.
func shiftUpgradeIndices(level tree.Value, sections int) tree.Value {
	return level.UpdateIfPresent("UpgradeData", func(data tree.Value) tree.Value {
		return data.UpdateIfPresent("Indices", func(indices tree.Value) tree.Value {
			out := tree.EmptyMap()
			for _, e := range indices.Entries() {
				y, err := strconv.Atoi(e.Key)
				if err != nil {
					continue
				}
				out = out.Set(strconv.Itoa(y+sections), e.Value)
			}
			return out
		})
	})
}
