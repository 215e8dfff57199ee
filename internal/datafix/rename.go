package datafix

import "worldupgrade/internal/tree"

// LegacyPalettePath addresses block state entries of pre-2832 chunk sections.
var LegacyPalettePath = ParsePath("Level.Sections.*.Palette.*")

// RenameFix rewrites a string field through a lookup table. Identifiers the
// table does not know pass through unchanged.
type RenameFix struct {
	name    string
	version int
	path    Path
	field   string
	table   map[string]string
}

func NewRenameFix(name string, version int, path Path, field string, table map[string]string) *RenameFix {
	return &RenameFix{name: name, version: version, path: path, field: field, table: table}
}

// NewBlockRenameFix renames block identifiers in legacy section palettes.
func NewBlockRenameFix(name string, version int, table map[string]string) *RenameFix {
	return NewRenameFix(name, version, LegacyPalettePath, "Name", table)
}

func (f *RenameFix) Name() string { return f.name }
func (f *RenameFix) Version() int { return f.version }

func (f *RenameFix) Apply(record tree.Value) (tree.Value, error) {
	return Rewrite(record, f.path, func(v tree.Value) (tree.Value, error) {
		cur, ok := v.Get(f.field)
		if !ok {
			return v, nil
		}
		renamed, ok := f.table[cur.AsString("")]
		if !ok {
			return v, nil
		}
		return v.Set(f.field, tree.String(renamed)), nil
	})
}

// BlockRenames lists the palette renames shipped between the legacy schema
// and the height/biome migration, keyed by data version.
var BlockRenames = []struct {
	Name    string
	Version int
	Table   map[string]string
}{
	{"rename_grass_path", 2680, map[string]string{
		"minecraft:grass_path": "minecraft:dirt_path",
	}},
	{"rename_weathered_copper", 2690, map[string]string{
		"minecraft:weathered_copper_block":                    "minecraft:oxidized_copper_block",
		"minecraft:semi_weathered_copper_block":               "minecraft:weathered_copper_block",
		"minecraft:lightly_weathered_copper_block":            "minecraft:exposed_copper_block",
		"minecraft:weathered_cut_copper":                      "minecraft:oxidized_cut_copper",
		"minecraft:semi_weathered_cut_copper":                 "minecraft:weathered_cut_copper",
		"minecraft:lightly_weathered_cut_copper":              "minecraft:exposed_cut_copper",
		"minecraft:weathered_cut_copper_stairs":               "minecraft:oxidized_cut_copper_stairs",
		"minecraft:semi_weathered_cut_copper_stairs":          "minecraft:weathered_cut_copper_stairs",
		"minecraft:lightly_weathered_cut_copper_stairs":       "minecraft:exposed_cut_copper_stairs",
		"minecraft:weathered_cut_copper_slab":                 "minecraft:oxidized_cut_copper_slab",
		"minecraft:semi_weathered_cut_copper_slab":            "minecraft:weathered_cut_copper_slab",
		"minecraft:lightly_weathered_cut_copper_slab":         "minecraft:exposed_cut_copper_slab",
		"minecraft:waxed_semi_weathered_copper":               "minecraft:waxed_weathered_copper",
		"minecraft:waxed_lightly_weathered_copper":            "minecraft:waxed_exposed_copper",
		"minecraft:waxed_semi_weathered_cut_copper":           "minecraft:waxed_weathered_cut_copper",
		"minecraft:waxed_lightly_weathered_cut_copper":        "minecraft:waxed_exposed_cut_copper",
		"minecraft:waxed_semi_weathered_cut_copper_stairs":    "minecraft:waxed_weathered_cut_copper_stairs",
		"minecraft:waxed_lightly_weathered_cut_copper_stairs": "minecraft:waxed_exposed_cut_copper_stairs",
		"minecraft:waxed_semi_weathered_cut_copper_slab":      "minecraft:waxed_weathered_cut_copper_slab",
		"minecraft:waxed_lightly_weathered_cut_copper_slab":   "minecraft:waxed_exposed_cut_copper_slab",
	}},
	{"rename_copper_blocks", 2691, map[string]string{
		"minecraft:waxed_copper":           "minecraft:waxed_copper_block",
		"minecraft:oxidized_copper_block":  "minecraft:oxidized_copper",
		"minecraft:weathered_copper_block": "minecraft:weathered_copper",
		"minecraft:exposed_copper_block":   "minecraft:exposed_copper",
	}},
	{"rename_grimstone", 2696, map[string]string{
		"minecraft:grimstone":                 "minecraft:deepslate",
		"minecraft:grimstone_slab":            "minecraft:cobbled_deepslate_slab",
		"minecraft:grimstone_stairs":          "minecraft:cobbled_deepslate_stairs",
		"minecraft:grimstone_wall":            "minecraft:cobbled_deepslate_wall",
		"minecraft:polished_grimstone":        "minecraft:polished_deepslate",
		"minecraft:polished_grimstone_slab":   "minecraft:polished_deepslate_slab",
		"minecraft:polished_grimstone_stairs": "minecraft:polished_deepslate_stairs",
		"minecraft:polished_grimstone_wall":   "minecraft:polished_deepslate_wall",
		"minecraft:grimstone_tiles":           "minecraft:deepslate_tiles",
		"minecraft:grimstone_tile_slab":       "minecraft:deepslate_tile_slab",
		"minecraft:grimstone_tile_stairs":     "minecraft:deepslate_tile_stairs",
		"minecraft:grimstone_tile_wall":       "minecraft:deepslate_tile_wall",
		"minecraft:grimstone_bricks":          "minecraft:deepslate_bricks",
		"minecraft:grimstone_brick_slab":      "minecraft:deepslate_brick_slab",
		"minecraft:grimstone_brick_stairs":    "minecraft:deepslate_brick_stairs",
		"minecraft:grimstone_brick_wall":      "minecraft:deepslate_brick_wall",
		"minecraft:chiseled_grimstone":        "minecraft:chiseled_deepslate",
	}},
	{"rename_cave_vines", 2700, map[string]string{
		"minecraft:cave_vines_head": "minecraft:cave_vines",
		"minecraft:cave_vines_body": "minecraft:cave_vines_plant",
	}},
	{"rename_azalea_leaves", 2717, map[string]string{
		"minecraft:azalea_leaves_flowers": "minecraft:flowering_azalea_leaves",
	}},
}

// BlockRenameFixes builds one RenameFix per BlockRenames entry.
func BlockRenameFixes() []Fix {
	out := make([]Fix, 0, len(BlockRenames))
	for _, r := range BlockRenames {
		out = append(out, NewBlockRenameFix(r.Name, r.Version, r.Table))
	}
	return out
}
