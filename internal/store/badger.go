package store

import (
	"encoding/binary"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"worldupgrade/internal/tree"
)

// chunkKeyPrefix namespaces chunk records inside the database.
var chunkKeyPrefix = []byte("c/")

// BadgerStore keeps zstd-compressed records in BadgerDB under
// "c/" | x | z, both big-endian with the sign bit flipped so that keys sort
// by X, then Z.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts a zap logger to badger's Logger interface.
type badgerLogger struct {
	log *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.log.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.log.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debugf(format, args...) }

// OpenBadgerStore opens a database in dir. An empty dir keeps the database
// in memory.
func OpenBadgerStore(dir string, logger *zap.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.Wrapf(err, "create database directory %s", dir)
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{log: logger.Named("badger").Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger database")
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(pos ChunkPos) []byte {
	key := make([]byte, len(chunkKeyPrefix)+8)
	n := copy(key, chunkKeyPrefix)
	binary.BigEndian.PutUint32(key[n:], uint32(pos.X)^1<<31)
	binary.BigEndian.PutUint32(key[n+4:], uint32(pos.Z)^1<<31)
	return key
}

func parseBadgerKey(key []byte) (ChunkPos, error) {
	if len(key) != len(chunkKeyPrefix)+8 {
		return ChunkPos{}, errors.Errorf("chunk key has %d bytes", len(key))
	}
	n := len(chunkKeyPrefix)
	return ChunkPos{
		X: int32(binary.BigEndian.Uint32(key[n:]) ^ 1<<31),
		Z: int32(binary.BigEndian.Uint32(key[n+4:]) ^ 1<<31),
	}, nil
}

func (s *BadgerStore) Load(pos ChunkPos) (tree.Value, bool, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(pos))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return tree.Value{}, false, nil
	}
	if err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "load chunk %s", pos)
	}
	record, err := decodeRecord(payload)
	if err != nil {
		return tree.Value{}, false, errors.Wrapf(err, "chunk %s", pos)
	}
	return record, true, nil
}

func (s *BadgerStore) Save(pos ChunkPos, record tree.Value) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(pos), payload)
	})
	return errors.Wrapf(err, "save chunk %s", pos)
}

func (s *BadgerStore) Delete(pos ChunkPos) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(pos))
	})
	return errors.Wrapf(err, "delete chunk %s", pos)
}

func (s *BadgerStore) Keys() ([]ChunkPos, error) {
	var keys []ChunkPos
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = chunkKeyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			pos, err := parseBadgerKey(it.Item().Key())
			if err != nil {
				return err
			}
			keys = append(keys, pos)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list chunk keys")
	}
	return keys, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
