package chunkfix

import (
	"sync"

	"worldupgrade/internal/palette"
	"worldupgrade/internal/tree"
)

const (
	blocksPerSection = 4096
	// legacyStorageBits is the narrowest width legacy block storage used.
	legacyStorageBits = 4
)

// sectionsResult is the outcome of migrating the legacy section list.
type sectionsResult struct {
	sections tree.Value
	// blockNames holds every block name seen in any section palette.
	blockNames map[string]struct{}
	// bottom lazily decodes the legacy Y=0 block storage; it returns nil
	// when the chunk had no such section.
	bottom func() *palette.View[string]
}

func airState() tree.Value {
	return tree.Map(tree.Entry{Key: "Name", Value: tree.String(blockAir)})
}

func airContainer() tree.Value {
	return tree.Map(tree.Entry{Key: "palette", Value: tree.List(airState())})
}

// migrateSections rewrites every legacy section to the paletted layout and
// pads the list so that each Y of the new range has exactly one entry.
func migrateSections(raw tree.Value, present bool, biomes []palette.Container[string], offset int) (sectionsResult, error) {
	res := sectionsResult{
		blockNames: make(map[string]struct{}),
		bottom:     func() *palette.View[string] { return nil },
	}
	if present && !raw.IsList() {
		return res, malformed("Sections is %s, want list", raw.Kind())
	}

	seen := make(map[int]bool)
	items := raw.Items()
	out := make([]tree.Value, 0, len(biomes)+2)
	for idx, section := range items {
		if !section.IsMap() {
			return res, malformed("Sections[%d] is %s, want map", idx, section.Kind())
		}
		yv, _ := section.Get("Y")
		y := yv.AsInt(0)

		pal, hasPalette := section.Get("Palette")
		if hasPalette && !pal.IsList() {
			return res, malformed("Sections[%d].Palette is %s, want list", idx, pal.Kind())
		}
		states, hasStates := section.Get("BlockStates")
		data := states.AsLongs()

		entries := pal.Items()
		names := make([]string, len(entries))
		for i, e := range entries {
			nv, _ := e.Get("Name")
			names[i] = nv.AsString(blockAir)
			res.blockNames[names[i]] = struct{}{}
		}

		blocks, err := blockContainer(entries, data, hasPalette && hasStates)
		if err != nil {
			return res, malformed("Sections[%d].BlockStates: %v", idx, err)
		}
		section = section.Set("block_states", blocks)
		if k := y - offset; k >= 0 && k < len(biomes) {
			section = section.Set("biomes", biomeContainerValue(biomes[k]))
		}
		section = section.Remove("Palette").Remove("BlockStates")
		out = append(out, section)
		seen[y] = true

		if y == 0 && hasPalette {
			res.bottom = sync.OnceValue(func() *palette.View[string] {
				return palette.NewView(names, data, legacyStorageBits)
			})
		}
	}

	for k := range biomes {
		y := k + offset
		if seen[y] {
			continue
		}
		out = append(out, tree.Map(
			tree.Entry{Key: "Y", Value: tree.Int(int32(y))},
			tree.Entry{Key: "block_states", Value: airContainer()},
			tree.Entry{Key: "biomes", Value: biomeContainerValue(biomes[k])},
		))
	}
	res.sections = tree.List(out...)
	return res, nil
}

// blockContainer converts a legacy Palette/BlockStates pair. A single-entry
// palette becomes a uniform container, since its data has zero width.
// Otherwise the stored words are kept as they are and the palette is padded
// with air until it implies the same width as the data.
func blockContainer(entries []tree.Value, data []int64, packed bool) (tree.Value, error) {
	switch {
	case len(entries) == 1:
		return tree.Map(tree.Entry{Key: "palette", Value: tree.List(entries[0])}), nil
	case !packed || len(entries) == 0:
		return airContainer(), nil
	}
	padded, err := palette.PaddedLength(len(entries), len(data), blocksPerSection)
	if err != nil {
		return tree.Value{}, err
	}
	for len(entries) < padded {
		entries = append(entries, airState())
	}
	return tree.Map(
		tree.Entry{Key: "palette", Value: tree.List(entries...)},
		tree.Entry{Key: "data", Value: tree.LongArray(data)},
	), nil
}
