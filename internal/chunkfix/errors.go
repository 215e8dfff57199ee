package chunkfix

import "github.com/pkg/errors"

// ErrMalformedInput marks a chunk whose structural fields cannot be read in
// the expected shape. The record is not migrated.
var ErrMalformedInput = errors.New("malformed chunk record")

func malformed(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedInput, format, args...)
}
