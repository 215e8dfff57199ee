package store

import (
	"sync"

	"worldupgrade/internal/tree"
)

// MemoryStore keeps records in a map. Values are immutable, so no copies are
// taken.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[ChunkPos]tree.Value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[ChunkPos]tree.Value)}
}

func (m *MemoryStore) Load(pos ChunkPos) (tree.Value, bool, error) {
	m.mu.RLock()
	record, ok := m.records[pos]
	m.mu.RUnlock()
	return record, ok, nil
}

func (m *MemoryStore) Save(pos ChunkPos, record tree.Value) error {
	m.mu.Lock()
	m.records[pos] = record
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(pos ChunkPos) error {
	m.mu.Lock()
	delete(m.records, pos)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Keys() ([]ChunkPos, error) {
	m.mu.RLock()
	keys := make([]ChunkPos, 0, len(m.records))
	for pos := range m.records {
		keys = append(keys, pos)
	}
	m.mu.RUnlock()
	sortPositions(keys)
	return keys, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
