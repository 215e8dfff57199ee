// Package store persists chunk records keyed by chunk position.
package store

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"worldupgrade/internal/tree"
)

// ChunkPos identifies a chunk column by its chunk coordinates.
type ChunkPos struct {
	X int32
	Z int32
}

func (p ChunkPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

// RecordStore provides persistent storage for chunk records.
type RecordStore interface {
	Load(pos ChunkPos) (tree.Value, bool, error)
	Save(pos ChunkPos, record tree.Value) error
	Delete(pos ChunkPos) error
	// Keys lists stored positions ordered by X, then Z.
	Keys() ([]ChunkPos, error)
	Close() error
}

const (
	KindMemory = "memory"
	KindLog    = "log"
	KindBadger = "badger"
	KindRegion = "region"
)

// ErrUnknownKind is returned by Open for an unsupported store kind.
var ErrUnknownKind = errors.New("unknown store kind")

// Open creates the store of the given kind rooted at path.
func Open(kind, path string, logger *zap.Logger) (RecordStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindLog:
		return OpenLogStore(path)
	case KindBadger:
		return OpenBadgerStore(path, logger)
	case KindRegion:
		return OpenRegionStore(path)
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
}

func sortPositions(keys []ChunkPos) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Z < keys[j].Z
	})
}
