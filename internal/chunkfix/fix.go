// Package chunkfix migrates chunk records from the 16-section layout to the
// 24-section layout with paletted block and biome containers.
package chunkfix

import (
	"go.uber.org/zap"

	"worldupgrade/internal/datafix"
	"worldupgrade/internal/tree"
)

// Version is the data version chunks carry after this fix.
const Version = 2832

const (
	// overworldOffset is the Y of the lowest new section in the overworld.
	overworldOffset   = -4
	overworldSections = 24
	legacySections    = 16
)

var levelPath = datafix.Path{"Level"}

// Fix is the chunk height and biome migration.
type Fix struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Fix {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fix{log: log}
}

func (f *Fix) Name() string { return "chunk_height_and_biome" }
func (f *Fix) Version() int { return Version }

// Apply migrates the Level tree of a chunk record using the context
// annotation attached to the record.
func (f *Fix) Apply(record tree.Value) (tree.Value, error) {
	ctx := datafix.ReadContext(record)
	return datafix.Rewrite(record, levelPath, func(level tree.Value) (tree.Value, error) {
		return f.MigrateLevel(level, ctx)
	})
}

// MigrateLevel migrates one Level tree. Either every step succeeds or the
// input is returned with an error wrapping ErrMalformedInput.
func (f *Fix) MigrateLevel(level tree.Value, ctx datafix.Context) (tree.Value, error) {
	overworld := ctx.Overworld()
	offset := 0
	if overworld {
		offset = overworldOffset
	}

	rawBiomes, _ := level.Get("Biomes")
	ids, _ := rawBiomes.AsInts()
	biomes, extended := biomeContainers(ids, overworld, offset)
	if len(ids) != legacyBiomeCount && len(ids) != extendedBiomeCount {
		f.log.Debug("unrecognized biome layout, using plains",
			zap.Int("length", len(ids)), zap.String("dimension", ctx.Dimension))
	}

	rawSections, hasSections := level.Get("Sections")
	res, err := migrateSections(rawSections, hasSections, biomes, offset)
	if err != nil {
		return level, err
	}
	out := level.Set("Sections", res.sections)

	if overworld {
		sv, _ := out.Get("Status")
		before := sv.AsString(StatusEmpty.String())
		after := PredictStatus(before, res.blockNames)
		if after != before {
			f.log.Debug("predicted chunk status", zap.String("from", before), zap.String("to", after))
		}
		out = out.Set("Status", tree.String(after))
	}

	out, err = f.updateChunkTag(out, overworld, extended, ctx.NoiseGenerator(), res)
	if err != nil {
		return level, err
	}
	return out, nil
}

func (f *Fix) updateChunkTag(level tree.Value, overworld, extended, noise bool, res sectionsResult) (tree.Value, error) {
	level = level.Remove("Biomes")
	switch {
	case !overworld:
		return relocateCarvingMasks(level, legacySections, 0)
	case extended:
		return relocateCarvingMasks(level, overworldSections, 0)
	}

	level = shiftHeightmaps(level)
	level = padTickLists(level)
	level, err := relocateCarvingMasks(level, overworldSections, -overworldOffset)
	if err != nil {
		return level, err
	}
	level = shiftUpgradeIndices(level, -overworldOffset)
	if !noise {
		return level, nil
	}

	level, retro := markRetrogen(level, res.bottom())
	if retro {
		f.log.Debug("scheduled below-zero retrogen")
	}
	return level, nil
}
