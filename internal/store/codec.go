package store

import (
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"worldupgrade/internal/tree"
)

// Encoders and decoders are safe for concurrent EncodeAll/DecodeAll calls.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// encodeRecord serializes a record as zstd-compressed NBT.
func encodeRecord(record tree.Value) ([]byte, error) {
	raw, err := tree.EncodeNBT(record)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

func decodeRecord(payload []byte) (tree.Value, error) {
	raw, err := zstdDecoder.DecodeAll(payload, nil)
	if err != nil {
		return tree.Value{}, errors.Wrap(err, "decompress record")
	}
	record, err := tree.DecodeNBT(raw)
	if err != nil {
		return tree.Value{}, errors.Wrap(err, "decode record")
	}
	return record, nil
}
