package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tnze/go-mc/save/region"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"worldupgrade/internal/tree"
)

// Sector compression schemes. Records are written with zlib.
const (
	compressionGzip byte = 1
	compressionZlib byte = 2
	compressionNone byte = 3
)

const chunksPerRegionAxis = 32

// ErrUnsupportedCompression is returned for sectors using an unknown scheme.
var ErrUnsupportedCompression = errors.New("unsupported sector compression")

type regionPos struct {
	X, Z int32
}

func regionOf(pos ChunkPos) (regionPos, int, int) {
	return regionPos{X: pos.X >> 5, Z: pos.Z >> 5}, int(pos.X & 31), int(pos.Z & 31)
}

// RegionStore reads and writes Anvil region files r.<x>.<z>.mca in a
// directory. Region files are opened on first use and kept open.
type RegionStore struct {
	dir     string
	mu      sync.Mutex
	regions map[regionPos]*region.Region
}

func OpenRegionStore(dir string) (*RegionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create region directory %s", dir)
	}
	return &RegionStore{dir: dir, regions: make(map[regionPos]*region.Region)}, nil
}

func (s *RegionStore) regionPath(rp regionPos) string {
	return filepath.Join(s.dir, fmt.Sprintf("r.%d.%d.mca", rp.X, rp.Z))
}

// openRegion returns the open region file for rp. When create is false and the
// file does not exist, it returns nil. Callers hold mu.
func (s *RegionStore) openRegion(rp regionPos, create bool) (*region.Region, error) {
	if r, ok := s.regions[rp]; ok {
		return r, nil
	}
	path := s.regionPath(rp)
	var (
		r   *region.Region
		err error
	)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if !create {
			return nil, nil
		}
		r, err = region.Create(path)
	} else {
		r, err = region.Open(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open region %s", path)
	}
	s.regions[rp] = r
	return r, nil
}

func (s *RegionStore) Load(pos ChunkPos) (tree.Value, bool, error) {
	rp, x, z := regionOf(pos)

	s.mu.Lock()
	r, err := s.openRegion(rp, false)
	if err != nil || r == nil || !r.ExistSector(x, z) {
		s.mu.Unlock()
		return tree.Value{}, false, err
	}
	data, err := r.ReadSector(x, z)
	s.mu.Unlock()
	if err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "read sector for %s", pos)
	}

	raw, err := decompressSector(data)
	if err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "chunk %s", pos)
	}
	record, err := tree.DecodeNBT(raw)
	if err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "decode chunk %s", pos)
	}
	return record, true, nil
}

func (s *RegionStore) Save(pos ChunkPos, record tree.Value) error {
	raw, err := tree.EncodeNBT(record)
	if err != nil {
		return errors.Wrapf(err, "encode chunk %s", pos)
	}
	data, err := compressSector(raw)
	if err != nil {
		return err
	}

	rp, x, z := regionOf(pos)
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.openRegion(rp, true)
	if err != nil {
		return err
	}
	return errors.Wrapf(r.WriteSector(x, z, data), "write sector for %s", pos)
}

// Delete is not supported by the region format.
func (s *RegionStore) Delete(pos ChunkPos) error {
	return errors.Errorf("region store cannot delete chunk %s", pos)
}

func (s *RegionStore) Keys() ([]ChunkPos, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "r.*.*.mca"))
	if err != nil {
		return nil, errors.Wrap(err, "list region files")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []ChunkPos
	for _, path := range paths {
		var rp regionPos
		if _, err := fmt.Sscanf(filepath.Base(path), "r.%d.%d.mca", &rp.X, &rp.Z); err != nil {
			continue
		}
		r, err := s.openRegion(rp, false)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		for z := 0; z < chunksPerRegionAxis; z++ {
			for x := 0; x < chunksPerRegionAxis; x++ {
				if r.ExistSector(x, z) {
					keys = append(keys, ChunkPos{X: rp.X<<5 | int32(x), Z: rp.Z<<5 | int32(z)})
				}
			}
		}
	}
	sortPositions(keys)
	return keys, nil
}

func (s *RegionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for rp, r := range s.regions {
		if err := r.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "close region %s", s.regionPath(rp))
		}
		delete(s.regions, rp)
	}
	return first
}

// compressSector prefixes zlib-compressed data with its scheme byte.
func compressSector(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(compressionZlib)
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, errors.Wrap(err, "zlib compress")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "zlib compress")
	}
	return buf.Bytes(), nil
}

func decompressSector(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty sector")
	}
	var (
		r   io.ReadCloser
		err error
	)
	switch data[0] {
	case compressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data[1:]))
	case compressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data[1:]))
	case compressionNone:
		return data[1:], nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedCompression, "scheme %d", data[0])
	}
	if err != nil {
		return nil, errors.Wrap(err, "open sector stream")
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "decompress sector")
	}
	return raw, nil
}
