package datafix

import "worldupgrade/internal/tree"

// ContextKey holds the transient annotation attached to a record before the
// fixes run and removed afterwards.
const ContextKey = "__context"

const (
	DimensionOverworld = "minecraft:overworld"
	DimensionNether    = "minecraft:the_nether"
	DimensionEnd       = "minecraft:the_end"

	GeneratorNoise = "minecraft:noise"
	GeneratorFlat  = "minecraft:flat"
	GeneratorDebug = "minecraft:debug"
)

// Context is the read-only annotation describing where a record lives.
type Context struct {
	Dimension string
	Generator string
}

func (c Context) Overworld() bool { return c.Dimension == DimensionOverworld }

func (c Context) NoiseGenerator() bool { return c.Generator == GeneratorNoise }

// AttachContext stores ctx under ContextKey.
func AttachContext(record tree.Value, ctx Context) tree.Value {
	return record.Set(ContextKey, tree.Map(
		tree.Entry{Key: "dimension", Value: tree.String(ctx.Dimension)},
		tree.Entry{Key: "generator", Value: tree.String(ctx.Generator)},
	))
}

// ReadContext returns the attached annotation; missing fields read as "".
func ReadContext(record tree.Value) Context {
	raw, _ := record.Get(ContextKey)
	dim, _ := raw.Get("dimension")
	gen, _ := raw.Get("generator")
	return Context{
		Dimension: dim.AsString(""),
		Generator: gen.AsString(""),
	}
}

func DetachContext(record tree.Value) tree.Value {
	return record.Remove(ContextKey)
}
