package chunkfix

import "strings"

// Status is a chunk generation stage, ordered by progress.
type Status int

const (
	StatusEmpty Status = iota
	StatusStructureStarts
	StatusStructureReferences
	StatusBiomes
	StatusNoise
	StatusSurface
	StatusCarvers
	StatusLiquidCarvers
	StatusFeatures
	StatusLight
	StatusSpawn
	StatusHeightmaps
	StatusFull
)

var statusNames = [...]string{
	StatusEmpty:               "empty",
	StatusStructureStarts:     "structure_starts",
	StatusStructureReferences: "structure_references",
	StatusBiomes:              "biomes",
	StatusNoise:               "noise",
	StatusSurface:             "surface",
	StatusCarvers:             "carvers",
	StatusLiquidCarvers:       "liquid_carvers",
	StatusFeatures:            "features",
	StatusLight:               "light",
	StatusSpawn:               "spawn",
	StatusHeightmaps:          "heightmaps",
	StatusFull:                "full",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[StatusEmpty]
	}
	return statusNames[s]
}

// AtLeast reports whether s is at or after other.
func (s Status) AtLeast(other Status) bool { return s >= other }

// ParseStatus maps a stored status tag to a Status. A "minecraft:" prefix is
// accepted. Unknown tags report false and read as StatusEmpty.
func ParseStatus(tag string) (Status, bool) {
	tag = strings.TrimPrefix(tag, "minecraft:")
	for i, name := range statusNames {
		if name == tag {
			return Status(i), true
		}
	}
	return StatusEmpty, false
}

func statusOf(tag string) Status {
	s, _ := ParseStatus(tag)
	return s
}
