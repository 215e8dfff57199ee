package datafix

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"worldupgrade/internal/tree"
)

// DataVersionKey is the root field recording a record's schema version.
const DataVersionKey = "DataVersion"

// Fix upgrades records to the schema identified by Version.
type Fix interface {
	Name() string
	Version() int
	Apply(record tree.Value) (tree.Value, error)
}

// Registry holds fixes ordered by target version.
type Registry struct {
	mu    sync.RWMutex
	fixes []Fix
}

func NewRegistry(fixes ...Fix) *Registry {
	r := &Registry{}
	for _, f := range fixes {
		r.Register(f)
	}
	return r
}

// Register adds a fix. Fixes sharing a version run in registration order.
func (r *Registry) Register(f Fix) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixes = append(r.fixes, f)
	sort.SliceStable(r.fixes, func(i, j int) bool {
		return r.fixes[i].Version() < r.fixes[j].Version()
	})
}

// Latest returns the highest version any registered fix produces.
func (r *Registry) Latest() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.fixes) == 0 {
		return 0
	}
	return r.fixes[len(r.fixes)-1].Version()
}

func (r *Registry) Fixes() []Fix {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Fix(nil), r.fixes...)
}

// Upgrade applies, in ascending order, every fix with from < Version <= to
// and stamps the record with the last version reached. A failing fix aborts
// the whole upgrade and the input record is not modified.
func (r *Registry) Upgrade(record tree.Value, from, to int) (tree.Value, error) {
	if from >= to {
		return record, nil
	}
	out := record
	for _, f := range r.Fixes() {
		if f.Version() <= from || f.Version() > to {
			continue
		}
		next, err := f.Apply(out)
		if err != nil {
			return record, errors.Wrapf(err, "fix %s (version %d)", f.Name(), f.Version())
		}
		out = next
	}
	return out.Set(DataVersionKey, tree.Int(int32(to))), nil
}

// RecordVersion reads the DataVersion of a record, or def when absent.
func RecordVersion(record tree.Value, def int) int {
	v, ok := record.Get(DataVersionKey)
	if !ok {
		return def
	}
	return v.AsInt(def)
}
