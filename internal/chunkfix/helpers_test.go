package chunkfix

import "worldupgrade/internal/tree"

func names(ns ...string) []tree.Value {
	out := make([]tree.Value, len(ns))
	for i, n := range ns {
		out[i] = tree.Map(tree.Entry{Key: "Name", Value: tree.String(n)})
	}
	return out
}

// pack4 packs 4096 palette indices at the legacy 4-bit width.
func pack4(at func(i int) int) []int64 {
	words := make([]int64, 256)
	for i := 0; i < blocksPerSection; i++ {
		words[i/16] |= int64(uint64(at(i)&15) << (4 * (i % 16)))
	}
	return words
}

func legacySection(y int, palette []tree.Value, states []int64) tree.Value {
	s := tree.Map(tree.Entry{Key: "Y", Value: tree.Byte(int8(y))})
	if palette != nil {
		s = s.Set("Palette", tree.List(palette...))
	}
	if states != nil {
		s = s.Set("BlockStates", tree.LongArray(states))
	}
	return s
}

func stoneSections() []tree.Value {
	out := make([]tree.Value, 0, 16)
	for y := 0; y < 16; y++ {
		out = append(out, legacySection(y, names("minecraft:stone"), nil))
	}
	return out
}

func uniformBiomes(id int32) []int32 {
	ids := make([]int32, legacyBiomeCount)
	for i := range ids {
		ids[i] = id
	}
	return ids
}

func sectionYs(sections tree.Value) map[int]int {
	out := make(map[int]int)
	for _, s := range sections.Items() {
		y, _ := s.Get("Y")
		out[y.AsInt(0)]++
	}
	return out
}

func sectionAt(sections tree.Value, y int) (tree.Value, bool) {
	for _, s := range sections.Items() {
		v, _ := s.Get("Y")
		if v.AsInt(0) == y {
			return s, true
		}
	}
	return tree.Value{}, false
}
