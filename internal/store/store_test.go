package store

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"worldupgrade/internal/tree"
)

func sampleRecord(x, z int32) tree.Value {
	return tree.Map(
		tree.Entry{Key: "DataVersion", Value: tree.Int(2730)},
		tree.Entry{Key: "Level", Value: tree.Map(
			tree.Entry{Key: "xPos", Value: tree.Int(x)},
			tree.Entry{Key: "zPos", Value: tree.Int(z)},
			tree.Entry{Key: "Status", Value: tree.String("full")},
			tree.Entry{Key: "Heightmaps", Value: tree.Map(
				tree.Entry{Key: "WORLD_SURFACE", Value: tree.LongArray([]int64{1, -2, 3})},
			)},
		)},
	)
}

func exerciseStore(t *testing.T, s RecordStore) {
	t.Helper()
	positions := []ChunkPos{{X: 3, Z: -7}, {X: -40, Z: 2}, {X: 0, Z: 0}, {X: -40, Z: -1}}
	for _, pos := range positions {
		if err := s.Save(pos, sampleRecord(pos.X, pos.Z)); err != nil {
			t.Fatalf("Save %s: %v", pos, err)
		}
	}

	for _, pos := range positions {
		got, ok, err := s.Load(pos)
		if err != nil {
			t.Fatalf("Load %s: %v", pos, err)
		}
		if !ok {
			t.Fatalf("expected %s to be present", pos)
		}
		if !tree.Equal(got, sampleRecord(pos.X, pos.Z)) {
			t.Fatalf("record %s mismatch", pos)
		}
	}

	if _, ok, err := s.Load(ChunkPos{X: 99, Z: 99}); err != nil || ok {
		t.Fatalf("expected missing chunk, got ok=%v err=%v", ok, err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []ChunkPos{{X: -40, Z: -1}, {X: -40, Z: 2}, {X: 0, Z: 0}, {X: 3, Z: -7}}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}

	updated := sampleRecord(3, -7).Set("DataVersion", tree.Int(2832))
	if err := s.Save(ChunkPos{X: 3, Z: -7}, updated); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, err := s.Load(ChunkPos{X: 3, Z: -7})
	if err != nil {
		t.Fatalf("Load overwritten: %v", err)
	}
	if !tree.Equal(got, updated) {
		t.Fatalf("expected overwritten record")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestLogStore(t *testing.T) {
	s, err := OpenLogStore(filepath.Join(t.TempDir(), "chunks.log"))
	if err != nil {
		t.Fatalf("OpenLogStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerStore("", nil)
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestRegionStore(t *testing.T) {
	s, err := OpenRegionStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenRegionStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestLogStoreReplaysOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.log")
	s, err := OpenLogStore(path)
	if err != nil {
		t.Fatalf("OpenLogStore: %v", err)
	}
	keep, drop := ChunkPos{X: 1, Z: 2}, ChunkPos{X: -5, Z: 9}
	if err := s.Save(keep, sampleRecord(1, 2)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(drop, sampleRecord(-5, 9)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(drop); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenLogStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	keys, _ := reopened.Keys()
	if len(keys) != 1 || keys[0] != keep {
		t.Fatalf("expected only %s after replay, got %v", keep, keys)
	}
	got, ok, err := reopened.Load(keep)
	if err != nil || !ok {
		t.Fatalf("Load after replay: ok=%v err=%v", ok, err)
	}
	if !tree.Equal(got, sampleRecord(1, 2)) {
		t.Fatalf("replayed record mismatch")
	}
}

func TestBadgerKeyOrdering(t *testing.T) {
	a := badgerKey(ChunkPos{X: -1, Z: 5})
	b := badgerKey(ChunkPos{X: 0, Z: -5})
	if bytes.Compare(a, b) >= 0 {
		t.Fatalf("expected negative X to sort first")
	}
	pos, err := parseBadgerKey(a)
	if err != nil {
		t.Fatalf("parseBadgerKey: %v", err)
	}
	if pos != (ChunkPos{X: -1, Z: 5}) {
		t.Fatalf("unexpected position %s", pos)
	}
}

func TestDecompressSectorGzip(t *testing.T) {
	raw, err := tree.EncodeNBT(sampleRecord(4, 4))
	if err != nil {
		t.Fatalf("EncodeNBT: %v", err)
	}
	var buf bytes.Buffer
	buf.WriteByte(compressionGzip)
	w := gzip.NewWriter(&buf)
	w.Write(raw)
	w.Close()

	got, err := decompressSector(buf.Bytes())
	if err != nil {
		t.Fatalf("decompressSector: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("gzip sector mismatch")
	}

	if _, err := decompressSector([]byte{9, 0}); !errors.Is(err, ErrUnsupportedCompression) {
		t.Fatalf("expected ErrUnsupportedCompression, got %v", err)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open("tape", t.TempDir(), nil); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	s, err := Open(KindMemory, "", nil)
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	s.Close()
}
