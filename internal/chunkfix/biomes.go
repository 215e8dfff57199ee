package chunkfix

import (
	"worldupgrade/internal/palette"
	"worldupgrade/internal/tree"
)

const (
	biomePlains = "minecraft:plains"

	// biomesPerSection is one value per 4x4x4 quart of a 16x16x16 section.
	biomesPerSection = 64
	legacyBiomeCount = 16 * biomesPerSection
	// extendedBiomeCount is the length written by snapshots that already
	// stored 24 sections of biomes.
	extendedBiomeCount = 24 * biomesPerSection
)

// legacyBiomes maps numeric biome ids to their names. Ids are read modulo 256.
var legacyBiomes = map[int]string{
	0:   "minecraft:ocean",
	1:   "minecraft:plains",
	2:   "minecraft:desert",
	3:   "minecraft:mountains",
	4:   "minecraft:forest",
	5:   "minecraft:taiga",
	6:   "minecraft:swamp",
	7:   "minecraft:river",
	8:   "minecraft:nether_wastes",
	9:   "minecraft:the_end",
	10:  "minecraft:frozen_ocean",
	11:  "minecraft:frozen_river",
	12:  "minecraft:snowy_tundra",
	13:  "minecraft:snowy_mountains",
	14:  "minecraft:mushroom_fields",
	15:  "minecraft:mushroom_field_shore",
	16:  "minecraft:beach",
	17:  "minecraft:desert_hills",
	18:  "minecraft:wooded_hills",
	19:  "minecraft:taiga_hills",
	20:  "minecraft:mountain_edge",
	21:  "minecraft:jungle",
	22:  "minecraft:jungle_hills",
	23:  "minecraft:jungle_edge",
	24:  "minecraft:deep_ocean",
	25:  "minecraft:stone_shore",
	26:  "minecraft:snowy_beach",
	27:  "minecraft:birch_forest",
	28:  "minecraft:birch_forest_hills",
	29:  "minecraft:dark_forest",
	30:  "minecraft:snowy_taiga",
	31:  "minecraft:snowy_taiga_hills",
	32:  "minecraft:giant_tree_taiga",
	33:  "minecraft:giant_tree_taiga_hills",
	34:  "minecraft:wooded_mountains",
	35:  "minecraft:savanna",
	36:  "minecraft:savanna_plateau",
	37:  "minecraft:badlands",
	38:  "minecraft:wooded_badlands_plateau",
	39:  "minecraft:badlands_plateau",
	40:  "minecraft:small_end_islands",
	41:  "minecraft:end_midlands",
	42:  "minecraft:end_highlands",
	43:  "minecraft:end_barrens",
	44:  "minecraft:warm_ocean",
	45:  "minecraft:lukewarm_ocean",
	46:  "minecraft:cold_ocean",
	47:  "minecraft:deep_warm_ocean",
	48:  "minecraft:deep_lukewarm_ocean",
	49:  "minecraft:deep_cold_ocean",
	50:  "minecraft:deep_frozen_ocean",
	127: "minecraft:the_void",
	129: "minecraft:sunflower_plains",
	130: "minecraft:desert_lakes",
	131: "minecraft:gravelly_mountains",
	132: "minecraft:flower_forest",
	133: "minecraft:taiga_mountains",
	134: "minecraft:swamp_hills",
	140: "minecraft:ice_spikes",
	149: "minecraft:modified_jungle",
	151: "minecraft:modified_jungle_edge",
	155: "minecraft:tall_birch_forest",
	156: "minecraft:tall_birch_hills",
	157: "minecraft:dark_forest_hills",
	158: "minecraft:snowy_taiga_mountains",
	160: "minecraft:giant_spruce_taiga",
	161: "minecraft:giant_spruce_taiga_hills",
	162: "minecraft:modified_gravelly_mountains",
	163: "minecraft:shattered_savanna",
	164: "minecraft:shattered_savanna_plateau",
	165: "minecraft:eroded_badlands",
	166: "minecraft:modified_wooded_badlands_plateau",
	167: "minecraft:modified_badlands_plateau",
	168: "minecraft:bamboo_jungle",
	169: "minecraft:bamboo_jungle_hills",
	170: "minecraft:soul_sand_valley",
	171: "minecraft:crimson_forest",
	172: "minecraft:warped_forest",
	173: "minecraft:basalt_deltas",
	174: "minecraft:dripstone_caves",
	175: "minecraft:lush_caves",
	177: "minecraft:meadow",
	178: "minecraft:grove",
	179: "minecraft:snowy_slopes",
	180: "minecraft:snowcapped_peaks",
	181: "minecraft:lofty_peaks",
	182: "minecraft:stony_peaks",
}

func biomeName(id int32) string {
	if name, ok := legacyBiomes[int(id&255)]; ok {
		return name
	}
	return biomePlains
}

// biomeContainers builds one biome container per new section index from the
// legacy flat id array. extended reports that ids already covered 24
// sections, in which case the rest of the chunk needs no vertical shift.
func biomeContainers(ids []int32, overworld bool, offset int) (containers []palette.Container[string], extended bool) {
	count := 16
	if overworld {
		count = 24
	}
	containers = make([]palette.Container[string], count)
	sample := func(base int) palette.Container[string] {
		return palette.Build(biomesPerSection, func(i int) string {
			return biomeName(ids[base+i])
		})
	}

	switch len(ids) {
	case extendedBiomeCount:
		for j := range containers {
			containers[j] = sample(j * biomesPerSection)
		}
		return containers, true
	case legacyBiomeCount:
		for j := 0; j < 16; j++ {
			if k := j - offset; k >= 0 && k < count {
				containers[k] = sample(j * biomesPerSection)
			}
		}
		if overworld {
			// Replicate the bottom and top quart layers into the new sections.
			bottom := palette.Build(biomesPerSection, func(i int) string {
				return biomeName(ids[i%16])
			})
			top := palette.Build(biomesPerSection, func(i int) string {
				return biomeName(ids[legacyBiomeCount-16+i%16])
			})
			for k := 0; k < 4; k++ {
				containers[k] = bottom
				containers[count-1-k] = top
			}
		}
	default:
		plains := palette.Container[string]{Palette: []string{biomePlains}}
		for j := range containers {
			containers[j] = plains
		}
	}
	return containers, false
}

func biomeContainerValue(c palette.Container[string]) tree.Value {
	names := make([]tree.Value, len(c.Palette))
	for i, n := range c.Palette {
		names[i] = tree.String(n)
	}
	out := tree.Map(tree.Entry{Key: "palette", Value: tree.List(names...)})
	if !c.Uniform() {
		out = out.Set("data", tree.LongArray(c.Data))
	}
	return out
}
