package store

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"worldupgrade/internal/tree"
)

const (
	logOpDelete byte = 0
	logOpSet    byte = 1

	// logHeaderSize covers op | x int32 | z int32 | payload size uint32.
	logHeaderSize = 13
)

type logRecordMeta struct {
	offset int64
	size   uint32
}

// LogStore appends every write to a single file and rebuilds its index by
// replaying the file on open. The latest entry for a position wins.
type LogStore struct {
	file    *os.File
	mu      sync.RWMutex
	records map[ChunkPos]logRecordMeta
}

func OpenLogStore(path string) (*LogStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open record log")
	}
	s := &LogStore{
		file:    f,
		records: make(map[ChunkPos]logRecordMeta),
	}
	if err := s.loadIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func putLogHeader(header []byte, op byte, pos ChunkPos, size uint32) {
	header[0] = op
	binary.LittleEndian.PutUint32(header[1:5], uint32(pos.X))
	binary.LittleEndian.PutUint32(header[5:9], uint32(pos.Z))
	binary.LittleEndian.PutUint32(header[9:13], size)
}

func (s *LogStore) loadIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind record log")
	}

	header := make([]byte, logHeaderSize)
	var offset int64
	for {
		if _, err := io.ReadFull(s.file, header); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return errors.Wrap(err, "truncated record header")
			}
			return errors.Wrap(err, "read record header")
		}
		op := header[0]
		pos := ChunkPos{
			X: int32(binary.LittleEndian.Uint32(header[1:5])),
			Z: int32(binary.LittleEndian.Uint32(header[5:9])),
		}
		size := binary.LittleEndian.Uint32(header[9:13])
		recordOffset := offset
		offset += logHeaderSize + int64(size)

		if _, err := s.file.Seek(int64(size), io.SeekCurrent); err != nil {
			return errors.Wrap(err, "seek past payload")
		}
		if op == logOpSet {
			s.records[pos] = logRecordMeta{offset: recordOffset, size: size}
		} else {
			delete(s.records, pos)
		}
	}
	return nil
}

func (s *LogStore) Load(pos ChunkPos) (tree.Value, bool, error) {
	s.mu.RLock()
	meta, ok := s.records[pos]
	s.mu.RUnlock()
	if !ok {
		return tree.Value{}, false, nil
	}

	payload := make([]byte, meta.size)
	if _, err := s.file.ReadAt(payload, meta.offset+logHeaderSize); err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "read payload for %s", pos)
	}
	record, err := decodeRecord(payload)
	if err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "chunk %s", pos)
	}
	return record, true, nil
}

func (s *LogStore) Save(pos ChunkPos, record tree.Value) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	header := make([]byte, logHeaderSize)
	putLogHeader(header, logOpSet, pos, uint32(len(payload)))

	s.mu.Lock()
	defer s.mu.Unlock()

	offset, err := s.append(header, payload)
	if err != nil {
		return err
	}
	s.records[pos] = logRecordMeta{offset: offset, size: uint32(len(payload))}
	return nil
}

func (s *LogStore) Delete(pos ChunkPos) error {
	header := make([]byte, logHeaderSize)
	putLogHeader(header, logOpDelete, pos, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.append(header, nil); err != nil {
		return err
	}
	delete(s.records, pos)
	return nil
}

// append writes one entry at the end of the log and syncs it. Callers hold mu.
func (s *LogStore) append(header, payload []byte) (int64, error) {
	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.Wrap(err, "seek log end")
	}
	if _, err := s.file.Write(header); err != nil {
		return 0, errors.Wrap(err, "write header")
	}
	if len(payload) > 0 {
		if _, err := s.file.Write(payload); err != nil {
			return 0, errors.Wrap(err, "write payload")
		}
	}
	if err := s.file.Sync(); err != nil {
		return 0, errors.Wrap(err, "sync record log")
	}
	return offset, nil
}

func (s *LogStore) Keys() ([]ChunkPos, error) {
	s.mu.RLock()
	keys := make([]ChunkPos, 0, len(s.records))
	for pos := range s.records {
		keys = append(keys, pos)
	}
	s.mu.RUnlock()
	sortPositions(keys)
	return keys, nil
}

func (s *LogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
