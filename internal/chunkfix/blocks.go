package chunkfix

const (
	blockAir     = "minecraft:air"
	blockBedrock = "minecraft:bedrock"
)

// blocksBeforeFeatures lists every block the terrain stages place before
// features run. Any other block in a chunk means features already ran.
var blocksBeforeFeatures = map[string]struct{}{
	"minecraft:air":               {},
	"minecraft:basalt":            {},
	"minecraft:bedrock":           {},
	"minecraft:blackstone":        {},
	"minecraft:calcite":           {},
	"minecraft:cave_air":          {},
	"minecraft:coarse_dirt":       {},
	"minecraft:crimson_nylium":    {},
	"minecraft:dirt":              {},
	"minecraft:end_stone":         {},
	"minecraft:grass_block":       {},
	"minecraft:gravel":            {},
	"minecraft:ice":               {},
	"minecraft:lava":              {},
	"minecraft:mycelium":          {},
	"minecraft:nether_wart_block": {},
	"minecraft:netherrack":        {},
	"minecraft:orange_terracotta": {},
	"minecraft:packed_ice":        {},
	"minecraft:podzol":            {},
	"minecraft:powder_snow":       {},
	"minecraft:red_sand":          {},
	"minecraft:red_sandstone":     {},
	"minecraft:sand":              {},
	"minecraft:sandstone":         {},
	"minecraft:snow_block":        {},
	"minecraft:soul_sand":         {},
	"minecraft:soul_soil":         {},
	"minecraft:stone":             {},
	"minecraft:terracotta":        {},
	"minecraft:warped_nylium":     {},
	"minecraft:warped_wart_block": {},
	"minecraft:water":             {},
	"minecraft:white_terracotta":  {},
}
